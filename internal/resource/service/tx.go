package service

import (
	"context"
	"sync"
	"time"

	dErrors "plenario/pkg/domain-errors"
)

// defaultTxTimeout bounds a status-change transaction.
const defaultTxTimeout = 5 * time.Second

// inMemoryStoreTx serializes mutations behind a single mutex. Unit-test and
// development stand-in for the postgres transaction adapter in cmd/server.
type inMemoryStoreTx struct {
	mu      sync.Mutex
	timeout time.Duration
}

// NewInMemoryStoreTx returns a mutex-backed StoreTx.
func NewInMemoryStoreTx() StoreTx {
	return &inMemoryStoreTx{}
}

func (t *inMemoryStoreTx) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	return fn(ctx)
}
