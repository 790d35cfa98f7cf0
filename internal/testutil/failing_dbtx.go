package testutil

import (
	"context"
	"database/sql"
	"sync/atomic"

	"github.com/alexanderramin/worklog/internal/db"
)

// FailOnNthExec wraps a DBTX and returns Err from the Nth ExecContext call.
// Calls are counted from 1; reads pass through untouched.
type FailOnNthExec struct {
	db.DBTX
	FailOn int32
	Err    error

	count atomic.Int32
}

// NewFailOnNthExec wraps inner so that its nth write fails with err.
func NewFailOnNthExec(inner db.DBTX, n int32, err error) *FailOnNthExec {
	return &FailOnNthExec{DBTX: inner, FailOn: n, Err: err}
}

func (f *FailOnNthExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.count.Add(1) == f.FailOn {
		return nil, f.Err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}

// Execs reports how many ExecContext calls have been made.
func (f *FailOnNthExec) Execs() int32 {
	return f.count.Load()
}
