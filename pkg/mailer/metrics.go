package mailer

import (
	"context"

	"github.com/YodaBikarbona/school-book-server/pkg/metrics"
)

type countingNotifier struct {
	next Notifier
	m    *metrics.HTTPMetrics
}

// WithMetrics wraps a notifier so every delivery outcome is counted.
func WithMetrics(next Notifier, m *metrics.HTTPMetrics) Notifier {
	if m == nil {
		return next
	}
	return &countingNotifier{next: next, m: m}
}

func (c *countingNotifier) SendActivationCode(ctx context.Context, to, code string) error {
	err := c.next.SendActivationCode(ctx, to, code)
	if err != nil {
		c.m.IncActivationMail("failure")
		return err
	}
	c.m.IncActivationMail("success")
	return nil
}
