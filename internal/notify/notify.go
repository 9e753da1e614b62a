package notify

import "context"

// Outcome is the terminal result of one deployment check run.
type Outcome struct {
	App     string
	Type    string // process type, e.g. "web"
	Passed  bool
	Summary string // human-readable reason, empty on success
}

// Notifier delivers the deploy outcome somewhere humans look. Delivery
// failures never change the probe's exit code.
type Notifier interface {
	Send(ctx context.Context, o Outcome) error
}

type Multi []Notifier

func (m Multi) Send(ctx context.Context, o Outcome) error {
	var firstErr error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Send(ctx, o); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
