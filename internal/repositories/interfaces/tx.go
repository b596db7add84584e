package interfaces

import "context"

// TxRunner executes fn inside a single storage transaction. Repository
// calls made with the context passed to fn join that transaction; if fn
// returns an error the whole unit rolls back and nothing it wrote is
// observable.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
