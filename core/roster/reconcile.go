package roster

import (
	"github.com/trezcool/schoolcrm/core"
)

// Reconcile merges the roster with the records persisted for c.
// Every roster member gets exactly one entry: its persisted payload when one exists,
// defaultPayload() otherwise. An empty roster yields an empty set.
func Reconcile[S any](c Context, members []Member, persisted []Record[S], defaultPayload func() S) (MergedSet[S], error) {
	return ReconcileBy(c, members, persisted, recordKey[S], recordPayload[S], defaultPayload)
}

// ReconcileBy is Reconcile for callers holding their own record type.
func ReconcileBy[R, S any](
	c Context,
	members []Member,
	persisted []R,
	keyOf func(R) string,
	payloadOf func(R) S,
	defaultPayload func() S,
) (MergedSet[S], error) {
	set := MergedSet[S]{Context: c, Entries: make([]MergedEntry[S], 0, len(members))}
	if defaultPayload == nil || keyOf == nil || payloadOf == nil {
		return set, core.NewInvariantViolation("reconcile %s: nil key, payload or default function", c)
	}

	onRoster := make(map[string]struct{}, len(members))
	for _, m := range members {
		if m.ID == "" {
			return set, core.NewInvariantViolation("reconcile %s: roster member with empty id", c)
		}
		if _, dup := onRoster[m.ID]; dup {
			return set, core.NewInvariantViolation("reconcile %s: duplicate roster member %q", c, m.ID)
		}
		onRoster[m.ID] = struct{}{}
	}

	byMember := make(map[string]S, len(persisted))
	for _, r := range persisted {
		id := keyOf(r)
		if id == "" {
			return set, core.NewInvariantViolation("reconcile %s: persisted record with empty member id", c)
		}
		if _, dup := byMember[id]; dup {
			return set, core.NewInvariantViolation("reconcile %s: duplicate persisted record for %q", c, id)
		}
		byMember[id] = payloadOf(r)
		if _, ok := onRoster[id]; !ok {
			set.Orphans = append(set.Orphans, Record[S]{MemberID: id, Payload: byMember[id]})
		}
	}

	for _, m := range members {
		entry := MergedEntry[S]{MemberID: m.ID, DisplayName: m.DisplayName}
		if payload, ok := byMember[m.ID]; ok {
			entry.Payload = payload
			entry.Origin = OriginPersisted
		} else {
			entry.Payload = defaultPayload()
			entry.Origin = OriginDefault
		}
		set.Entries = append(set.Entries, entry)
	}
	return set, nil
}

// Patch returns a copy of set where the payload of memberID is replaced with updater(payload).
// Entries are copied shallowly: the input set stays untouched only if updater does not
// mutate memory shared with its argument, such as a slice field.
func Patch[S any](set MergedSet[S], memberID string, updater func(S) S) (MergedSet[S], error) {
	if updater == nil {
		return set, core.NewInvariantViolation("patch %s: nil updater", set.Context)
	}
	i := set.index(memberID)
	if i < 0 {
		return set, core.NewNotFoundError("member", memberID)
	}

	patched := MergedSet[S]{
		Context: set.Context,
		Entries: make([]MergedEntry[S], len(set.Entries)),
		Orphans: set.Orphans,
	}
	copy(patched.Entries, set.Entries)
	patched.Entries[i].Payload = updater(patched.Entries[i].Payload)
	return patched, nil
}

// Set returns an updater that replaces the payload with p.
func Set[S any](p S) func(S) S {
	return func(S) S { return p }
}

func recordKey[S any](r Record[S]) string { return r.MemberID }

func recordPayload[S any](r Record[S]) S { return r.Payload }
