package channel

import "context"

// Unit is one supervised long-running part of the relay (the Telegram bot,
// the HTTP sink). Run blocks until the context is cancelled or the unit
// fails. Units share no memory; the only coupling between them is the
// forward HTTP call.
type Unit interface {
	Name() string
	Run(ctx context.Context) error
}
