package email

import "context"

// Transport delivers one rendered message. Implementations make exactly one attempt.
type Transport interface {
	Send(ctx context.Context, m Message) error
	Name() string
}
