package notify

import (
	"context"

	"github.com/hydroping/hydration-ping-engine/internal/adapters/handler/http/middleware"
)

type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// MeteredNotifier counts successful deliveries in the reminders_sent
// prometheus counter. Failed sends are not counted.
type MeteredNotifier struct {
	next Sender
}

func Metered(next Sender) *MeteredNotifier {
	return &MeteredNotifier{next: next}
}

func (n *MeteredNotifier) Send(ctx context.Context, to, body string) error {
	if err := n.next.Send(ctx, to, body); err != nil {
		return err
	}
	middleware.TrackReminderSent()
	return nil
}
