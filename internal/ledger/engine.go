package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/okarim/dayledger/internal/registry"
	"github.com/okarim/dayledger/internal/store"
)

// Outcome reports what Submit or Resolve did.
type Outcome int

const (
	OutcomeNone Outcome = iota
	// OutcomeInserted means the record was appended to its month partition.
	OutcomeInserted
	// OutcomeConflict means a record for the same date exists; nothing was
	// written and a confirmation is pending.
	OutcomeConflict
	// OutcomeUpdated means a confirmed overwrite replaced the existing record.
	OutcomeUpdated
	// OutcomeDeleted means a confirmed category deletion went through.
	OutcomeDeleted
	// OutcomeDiscarded means the pending operation was declined.
	OutcomeDiscarded
)

// ErrNoPending is returned by Resolve when no confirmation is outstanding.
var ErrNoPending = errors.New("ledger: no pending confirmation")

// Prompt describes a pending yes/no confirmation for the UI. The UI must
// answer each prompt instance exactly once via Resolve.
type Prompt struct {
	Token  string
	Title  string
	Detail string
}

type pendingKind int

const (
	pendingNone pendingKind = iota
	pendingSave
	pendingDelete
)

// pending is the single confirmation slot. There is deliberately no queue:
// a second submission before resolution replaces the slot, so the last
// pending submission wins.
type pending struct {
	kind      pendingKind
	record    DailyRecord   // pendingSave
	partition []DailyRecord // pendingSave: partition loaded at Submit time
	index     int           // pendingSave: position of the conflicting record
	name      string        // pendingDelete
}

// Engine reconciles computed daily records against the persisted month
// partitions. Not safe for overlapping submissions; there is exactly one
// logical user session.
type Engine struct {
	store   store.Store
	reg     *registry.Registry
	pending pending
}

func NewEngine(s store.Store, reg *registry.Registry) *Engine {
	return &Engine{store: s, reg: reg}
}

// Submit persists rec into its month partition when the date is new, or
// pends a confirmation when a record for the same date already exists.
// On conflict nothing is written until Resolve(true).
func (e *Engine) Submit(ctx context.Context, rec DailyRecord) (Outcome, *Prompt, error) {
	partition, err := e.loadPartition(ctx, rec.Month)
	if err != nil {
		return OutcomeNone, nil, err
	}

	for i, existing := range partition {
		if existing.Date == rec.Date {
			e.pending = pending{kind: pendingSave, record: rec, partition: partition, index: i}
			return OutcomeConflict, &Prompt{
				Token:  uuid.NewString(),
				Title:  fmt.Sprintf("Data for %s already exists.", rec.Date),
				Detail: fmt.Sprintf("Saving will overwrite the existing entry for %s. Proceed?", rec.Date),
			}, nil
		}
	}

	partition = append(partition, rec)
	if err := e.savePartition(ctx, rec.Month, partition); err != nil {
		return OutcomeNone, nil, err
	}
	return OutcomeInserted, nil, nil
}

// RequestDelete pends a category deletion confirmation.
func (e *Engine) RequestDelete(name string) *Prompt {
	e.pending = pending{kind: pendingDelete, name: name}
	return &Prompt{
		Token:  uuid.NewString(),
		Title:  "Are you sure?",
		Detail: fmt.Sprintf("Delete %q from your categories?", name),
	}
}

// HasPending reports whether a confirmation is outstanding.
func (e *Engine) HasPending() bool { return e.pending.kind != pendingNone }

// Resolve answers the outstanding confirmation. Declining drops the slot
// without touching storage; agreeing performs the pended overwrite or
// deletion. The slot is cleared either way.
func (e *Engine) Resolve(ctx context.Context, agree bool) (Outcome, error) {
	p := e.pending
	e.pending = pending{}

	switch p.kind {
	case pendingSave:
		if !agree {
			return OutcomeDiscarded, nil
		}
		p.partition[p.index] = p.record
		if err := e.savePartition(ctx, p.record.Month, p.partition); err != nil {
			return OutcomeNone, err
		}
		return OutcomeUpdated, nil
	case pendingDelete:
		if !agree {
			return OutcomeDiscarded, nil
		}
		removed, err := e.reg.Remove(ctx, p.name)
		if err != nil {
			return OutcomeNone, err
		}
		if !removed {
			return OutcomeDiscarded, nil
		}
		return OutcomeDeleted, nil
	default:
		return OutcomeNone, ErrNoPending
	}
}

// LoadMonth returns the records stored for a month key, in insertion order.
// An absent partition is an empty month, not an error.
func (e *Engine) LoadMonth(ctx context.Context, month string) ([]DailyRecord, error) {
	return e.loadPartition(ctx, month)
}

func (e *Engine) loadPartition(ctx context.Context, month string) ([]DailyRecord, error) {
	data, err := e.store.Get(ctx, month)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var records []DailyRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (e *Engine) savePartition(ctx context.Context, month string, records []DailyRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return e.store.Set(ctx, month, data)
}
