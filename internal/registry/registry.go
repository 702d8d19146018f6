// Package registry owns the user's named income/expense category
// definitions. The whole list is persisted as one JSON unit under the
// reserved preferences key; every mutation is a read-modify-write of the
// full list.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/okarim/dayledger/internal/store"
)

// PreferencesKey is the reserved store key holding the category list.
// Month partitions never use this key shape, so the two never collide.
const PreferencesKey = "preferences"

// Kind classifies a category as money in or money out.
type Kind string

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

// Category is a user-defined income or expense line. The JSON field names
// match the persisted preference format.
type Category struct {
	Name string `json:"name"`
	Kind Kind   `json:"toggle"`
}

var (
	ErrEmptyName     = errors.New("registry: category name is empty")
	ErrDuplicateName = errors.New("registry: category name already exists")
	ErrKindUnset     = errors.New("registry: category kind not selected")
)

// Registry provides CRUD over the persisted category list.
type Registry struct {
	store store.Store
}

func New(s store.Store) *Registry {
	return &Registry{store: s}
}

// List loads the persisted categories. A never-written key is an empty
// list; storage failures degrade to an empty list plus the error so the
// caller can keep rendering while reporting it.
func (r *Registry) List(ctx context.Context) ([]Category, error) {
	data, err := r.store.Get(ctx, PreferencesKey)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cats []Category
	if err := json.Unmarshal(data, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// Add appends a new category and persists the full list. Names are trimmed
// and must be unique case-insensitively.
func (r *Registry) Add(ctx context.Context, name string, kind Kind) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrEmptyName
	}
	if kind != KindExpense && kind != KindIncome {
		return ErrKindUnset
	}
	cats, err := r.List(ctx)
	if err != nil {
		return err
	}
	for _, c := range cats {
		if strings.EqualFold(c.Name, trimmed) {
			return ErrDuplicateName
		}
	}
	cats = append(cats, Category{Name: trimmed, Kind: kind})
	return r.save(ctx, cats)
}

// Remove filters the list by exact name match and persists only when the
// length changed. It reports whether a deletion occurred.
func (r *Registry) Remove(ctx context.Context, name string) (bool, error) {
	cats, err := r.List(ctx)
	if err != nil {
		return false, err
	}
	kept := cats[:0:0]
	for _, c := range cats {
		if c.Name != name {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(cats) {
		return false, nil
	}
	if err := r.save(ctx, kept); err != nil {
		return false, err
	}
	return true, nil
}

// Suggest returns existing category names within levenshtein distance 2 of
// name, ignoring case. Used for "did you mean" hints on near-duplicates;
// a case variant of an existing name suggests the canonical spelling.
func (r *Registry) Suggest(ctx context.Context, name string) []string {
	cats, err := r.List(ctx)
	if err != nil {
		return nil
	}
	trimmed := strings.TrimSpace(name)
	target := strings.ToLower(trimmed)
	var out []string
	for _, c := range cats {
		if c.Name == trimmed {
			continue
		}
		if levenshtein.ComputeDistance(target, strings.ToLower(c.Name)) <= 2 {
			out = append(out, c.Name)
		}
	}
	return out
}

func (r *Registry) save(ctx context.Context, cats []Category) error {
	if cats == nil {
		cats = []Category{}
	}
	data, err := json.Marshal(cats)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, PreferencesKey, data)
}
