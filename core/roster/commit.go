package roster

import (
	"context"

	"github.com/trezcool/schoolcrm/core"
)

// Persister overwrites every record of a context. It must be atomic per context:
// on failure no partial write may stay visible.
type Persister[S any] func(ctx context.Context, c Context, records []Record[S]) error

type CommitResult struct {
	OK   bool           `json:"ok"`
	Kind core.ErrorKind `json:"error_kind,omitempty"`
	Err  error          `json:"-"`
}

func (res CommitResult) Error() error {
	return res.Err
}

func failed(err error) CommitResult {
	return CommitResult{Kind: core.KindOf(err), Err: err}
}

// Commit sends the complete set to persist in a single call.
// Replaying the same set for the same context leaves the data unchanged.
// The set itself is never modified, so a failed commit can be retried as is.
func Commit[S any](ctx context.Context, c Context, set MergedSet[S], persist Persister[S]) CommitResult {
	if persist == nil {
		return failed(core.NewInvariantViolation("commit %s: nil persister", c))
	}
	if set.Context != c {
		return failed(core.NewInvariantViolation("commit %s: set was reconciled for %s", c, set.Context))
	}

	if err := persist(ctx, c, set.Records()); err != nil {
		if !core.IsPersistence(err) {
			err = core.NewPersistenceError(err)
		}
		return failed(err)
	}
	return CommitResult{OK: true}
}
