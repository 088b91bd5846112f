package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/cristianortiz/auctionportal/internal/auction/domain"
	"go.uber.org/zap"
)

var (
	_ domain.Notifier = (*LogNotifier)(nil)
	_ domain.Notifier = (*MailNotifier)(nil)
	_ domain.Notifier = (*QueueNotifier)(nil)
)

// LogNotifier only writes the notification to the log. Used in development.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (*LogNotifier) Notify(_ context.Context, email, itemTitle string, amount float64) error {
	_, text := WinnerMessage(itemTitle, amount)
	log.Info("Winner notification", zap.String("to", email), zap.String("message", text))
	return nil
}

// Mailer sends a plain text email.
type Mailer interface {
	Send(ctx context.Context, to, subject, text string) error
}

// MailNotifier sends the winner email synchronously.
type MailNotifier struct {
	mailer Mailer
}

func NewMailNotifier(m Mailer) *MailNotifier {
	return &MailNotifier{mailer: m}
}

func (n *MailNotifier) Notify(ctx context.Context, email, itemTitle string, amount float64) error {
	subject, text := WinnerMessage(itemTitle, amount)
	if err := n.mailer.Send(ctx, email, subject, text); err != nil {
		return fmt.Errorf("notification: send to %s: %w", email, err)
	}
	return nil
}

// Publisher puts a JSON message on the queue.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueNotifier hands the notification to the worker through the queue.
type QueueNotifier struct {
	pub Publisher
	now func() time.Time
}

func NewQueueNotifier(pub Publisher) *QueueNotifier {
	return &QueueNotifier{pub: pub, now: func() time.Time { return time.Now().UTC() }}
}

func (n *QueueNotifier) Notify(ctx context.Context, email, itemTitle string, amount float64) error {
	job := WinnerJob{To: email, ItemTitle: itemTitle, Amount: amount, QueuedAt: n.now()}
	if err := n.pub.PublishJSON(ctx, job); err != nil {
		return fmt.Errorf("notification: enqueue for %s: %w", email, err)
	}
	log.Debug("Winner notification queued", zap.String("to", email))
	return nil
}
