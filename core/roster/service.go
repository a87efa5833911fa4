package roster

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/schoolcrm/core"
)

type (
	// Provider returns the authoritative, deduplicated member list of a group.
	Provider interface {
		GetRoster(ctx context.Context, groupID string) ([]Member, error)
	}

	// Store reads and overwrites the records of a context.
	// SaveRecords must be atomic per context.
	Store[S any] interface {
		GetRecords(ctx context.Context, c Context) ([]Record[S], error)
		SaveRecords(ctx context.Context, c Context, records []Record[S]) error
	}

	// Edit replaces the payload of one member.
	Edit[S any] struct {
		MemberID string `json:"member_id" validate:"required,notblank"`
		Payload  S      `json:"payload"`
	}

	Service[S any] struct {
		provider       Provider
		store          Store[S]
		defaultPayload func() S
		validate       *validator.Validate
		logger         core.Logger
	}
)

func NewService[S any](provider Provider, store Store[S], defaultPayload func() S, validate *validator.Validate, logger core.Logger) *Service[S] {
	if logger == nil {
		logger = core.NopLogger
	}
	return &Service[S]{
		provider:       provider,
		store:          store,
		defaultPayload: defaultPayload,
		validate:       validate,
		logger:         logger,
	}
}

// Load reconciles the current roster of c.GroupID with the records persisted for c.
func (svc *Service[S]) Load(ctx context.Context, c Context) (MergedSet[S], error) {
	if svc.validate != nil {
		if err := c.Validate(svc.validate); err != nil {
			return MergedSet[S]{}, err
		}
	}

	members, err := svc.provider.GetRoster(ctx, c.GroupID)
	if err != nil {
		return MergedSet[S]{}, errors.Wrap(storeError(err), "getting roster")
	}
	records, err := svc.store.GetRecords(ctx, c)
	if err != nil {
		return MergedSet[S]{}, errors.Wrap(storeError(err), "getting records")
	}

	set, err := Reconcile(c, members, records, svc.defaultPayload)
	if err != nil {
		return MergedSet[S]{}, errors.Wrap(err, "reconciling")
	}
	if len(set.Orphans) > 0 {
		svc.logger.Warn(
			fmt.Sprintf("register %s: %d persisted record(s) without roster member", c, len(set.Orphans)),
			map[string]interface{}{"context": c.String(), "orphans": len(set.Orphans)},
		)
	}
	return set, nil
}

func (svc *Service[S]) Patch(set MergedSet[S], memberID string, updater func(S) S) (MergedSet[S], error) {
	return Patch(set, memberID, updater)
}

// Mark sets the payload of memberID.
func (svc *Service[S]) Mark(set MergedSet[S], memberID string, payload S) (MergedSet[S], error) {
	return Patch(set, memberID, Set(payload))
}

// Save commits the whole set to the store. It never retries.
func (svc *Service[S]) Save(ctx context.Context, set MergedSet[S]) CommitResult {
	res := Commit(ctx, set.Context, set, svc.store.SaveRecords)
	if !res.OK {
		svc.logger.Error(
			fmt.Sprintf("register %s: commit failed", set.Context),
			res.Err,
			map[string]interface{}{"context": set.Context.String(), "kind": string(res.Kind)},
		)
		return res
	}
	svc.logger.Debug(fmt.Sprintf("register %s: committed %d record(s)", set.Context, set.Len()))
	return res
}

// Replace loads c, applies edits in order and commits the result.
// Edits for members not on the roster fail the whole call before anything is written.
func (svc *Service[S]) Replace(ctx context.Context, c Context, edits []Edit[S]) (MergedSet[S], error) {
	set, err := svc.Load(ctx, c)
	if err != nil {
		return MergedSet[S]{}, err
	}
	for _, e := range edits {
		if set, err = svc.Mark(set, e.MemberID, e.Payload); err != nil {
			return MergedSet[S]{}, errors.Wrapf(err, "editing %q", e.MemberID)
		}
	}
	if res := svc.Save(ctx, set); !res.OK {
		return MergedSet[S]{}, errors.Wrap(res.Err, "committing")
	}
	return set, nil
}

// storeError keeps typed store errors (eg. an unknown group) and wraps anything else as a PersistenceError.
func storeError(err error) error {
	if core.KindOf(err) == core.KindUnknown {
		return core.NewPersistenceError(err)
	}
	return err
}
