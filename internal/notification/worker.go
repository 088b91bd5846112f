package notification

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Disposition tells the consumer what to do with a delivery.
type Disposition int

const (
	Ack Disposition = iota
	Requeue
	Drop
)

const prefetch = 16

// Worker sends queued winner jobs through a Mailer.
type Worker struct {
	mailer Mailer
}

func NewWorker(m Mailer) *Worker {
	return &Worker{mailer: m}
}

// Handle processes one message body. Malformed jobs are dropped. A send failure is requeued once;
// when the redelivered copy fails too the job is dropped so a bad recipient cannot loop forever.
func (w *Worker) Handle(ctx context.Context, body []byte, redelivered bool) Disposition {
	var job WinnerJob
	if err := json.Unmarshal(body, &job); err != nil || job.To == "" {
		log.Warn("Dropping malformed winner job", zap.ByteString("body", body), zap.Error(err))
		return Drop
	}
	subject, text := WinnerMessage(job.ItemTitle, job.Amount)
	if err := w.mailer.Send(ctx, job.To, subject, text); err != nil {
		if redelivered {
			log.Error("Winner email failed again, dropping job", zap.String("to", job.To), zap.Error(err))
			return Drop
		}
		log.Error("Winner email failed, requeueing", zap.String("to", job.To), zap.Error(err))
		return Requeue
	}
	log.Info("Winner email sent", zap.String("to", job.To), zap.String("item", job.ItemTitle))
	return Ack
}

// Consume drains queue until ctx is done or the channel closes.
func (w *Worker) Consume(ctx context.Context, url, queue string) error {
	conn, ch, err := dialQueue(url, queue)
	if err != nil {
		return err
	}
	defer func() {
		_ = ch.Close()
		_ = conn.Close()
	}()

	if err := ch.Qos(prefetch, 0, false); err != nil {
		return fmt.Errorf("amqp qos: %w", err)
	}
	msgs, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("amqp consume: %w", err)
	}

	log.Info("Notifier worker listening", zap.String("queue", queue))
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("amqp: delivery channel closed")
			}
			settle(msg, w.Handle(ctx, msg.Body, msg.Redelivered))
		}
	}
}

func settle(msg amqp.Delivery, d Disposition) {
	var err error
	switch d {
	case Ack:
		err = msg.Ack(false)
	case Requeue:
		err = msg.Nack(false, true)
	default:
		err = msg.Nack(false, false)
	}
	if err != nil {
		log.Warn("Failed to settle delivery", zap.Error(err))
	}
}
