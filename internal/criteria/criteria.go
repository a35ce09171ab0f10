package criteria

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownCriterion = errors.New("unknown criterion")
	ErrEmptyName        = errors.New("criterion name required")
)

// Entry is a named rubric injected into prompts to steer the model.
type Entry struct {
	Name        string `json:"name"`
	Explanation string `json:"explanation"`
}

// Store holds the editable criterion explanations. Implementations must be
// safe for concurrent use.
type Store interface {
	// List returns all entries in display order.
	List(ctx context.Context) ([]Entry, error)

	// Get returns a single entry or ErrUnknownCriterion.
	Get(ctx context.Context, name string) (Entry, error)

	// Put replaces the explanation of an entry, appending it when the name is new.
	Put(ctx context.Context, entry Entry) error

	// Reset restores the built-in defaults.
	Reset(ctx context.Context) error

	Close() error
}

// Set is an immutable snapshot of the criteria used for one run.
type Set struct {
	entries []Entry
	byName  map[string]string
}

// NewSet builds a snapshot. Later duplicates of a name replace earlier ones in place.
func NewSet(entries []Entry) Set {
	s := Set{byName: make(map[string]string, len(entries))}
	for _, e := range entries {
		if _, ok := s.byName[e.Name]; ok {
			for i := range s.entries {
				if s.entries[i].Name == e.Name {
					s.entries[i] = e
				}
			}
		} else {
			s.entries = append(s.entries, e)
		}
		s.byName[e.Name] = e.Explanation
	}
	return s
}

// Snapshot reads the store into a Set.
func Snapshot(ctx context.Context, st Store) (Set, error) {
	entries, err := st.List(ctx)
	if err != nil {
		return Set{}, fmt.Errorf("list criteria: %w", err)
	}
	return NewSet(entries), nil
}

// Entries returns a copy of the entries in order.
func (s Set) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Explanation looks up a criterion by name.
func (s Set) Explanation(name string) (string, bool) {
	e, ok := s.byName[name]
	return e, ok
}

// Assemble joins the explanations of the selected criteria, in selection
// order, followed by the custom criterion. Blank parts are skipped, so an empty
// selection with no custom text yields "".
func Assemble(selected []string, set Set, custom string) (string, error) {
	parts := make([]string, 0, len(selected)+1)
	for _, name := range selected {
		explanation, ok := set.Explanation(name)
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrUnknownCriterion, name)
		}
		if explanation != "" {
			parts = append(parts, explanation)
		}
	}
	if custom = strings.TrimSpace(custom); custom != "" {
		parts = append(parts, custom)
	}
	return strings.Join(parts, "\n"), nil
}

func validate(e Entry) error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}
	return nil
}
