package common

import "context"

// Transactor runs a function inside one storage transaction. Repositories
// called with the derived context join the transaction, so multi-entity
// mutations (plan persistence, journey start/finish) commit or roll back
// together.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
