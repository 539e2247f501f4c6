package output

import "context"

// TxManager wraps a function in a single store transaction. Repositories
// invoked with the context passed to fn take part in that transaction;
// any error from fn rolls everything back.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
