// Package notification delivers winner notifications: straight to the log, through Mailgun,
// or through a RabbitMQ queue drained by the notifier worker.
package notification

import (
	"fmt"
	"time"

	"github.com/cristianortiz/auctionportal/internal/shared/logger"
)

var log = logger.GetLogger()

// WinnerJob is the JSON payload queued for the worker.
type WinnerJob struct {
	To        string    `json:"to"`
	ItemTitle string    `json:"item_title"`
	Amount    float64   `json:"amount"`
	QueuedAt  time.Time `json:"queued_at"`
}

// WinnerMessage renders the winner email.
func WinnerMessage(itemTitle string, amount float64) (subject, text string) {
	subject = fmt.Sprintf("You won %s", itemTitle)
	text = fmt.Sprintf("Congratulations! You've won %s for $%.2f.", itemTitle, amount)
	return subject, text
}
