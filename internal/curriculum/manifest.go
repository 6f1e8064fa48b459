package curriculum

import (
	"fmt"
	"slices"

	pyerrors "github.com/zellyn/pylearn/internal/errors"
)

// Manifest is a validated, immutable course description. Values are only
// obtained through New (or the loaders built on it), so holding a *Manifest
// means the id and chain invariants hold.
type Manifest struct {
	title   string
	modules []Module
	entries []Entry
	index   map[string]int
}

// New copies modules, stamps each lesson with its module name and validates the
// result. The caller's slices are not retained.
func New(title string, modules []Module) (*Manifest, error) {
	m := &Manifest{
		title:   title,
		modules: make([]Module, len(modules)),
	}
	for i, mod := range modules {
		lessons := make([]Entry, len(mod.Lessons))
		for j, e := range mod.Lessons {
			e.Module = mod.Name
			lessons[j] = e
		}
		m.modules[i] = Module{Name: mod.Name, Lessons: lessons}
		m.entries = append(m.entries, lessons...)
	}

	if err := Validate(m.modules); err != nil {
		return nil, err
	}

	m.index = make(map[string]int, len(m.entries))
	for i, e := range m.entries {
		m.index[e.ID] = i
	}
	return m, nil
}

// Validate checks the manifest invariants: at least one lesson, non-empty
// unique ids, and a single linear prev/next chain across all modules that
// starts and ends at RootID.
func Validate(modules []Module) error {
	if len(modules) == 0 {
		return pyerrors.NewValidationError("modules", "", "manifest has no modules")
	}

	var entries []Entry
	for i, mod := range modules {
		if len(mod.Lessons) == 0 {
			return pyerrors.NewValidationError(fmt.Sprintf("modules[%d]", i), mod.Name, "module has no lessons")
		}
		entries = append(entries, mod.Lessons...)
	}

	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		if e.ID == "" {
			return pyerrors.NewValidationError(fmt.Sprintf("lessons[%d].id", i), "", "empty lesson id")
		}
		if e.ID == RootID {
			return pyerrors.NewValidationError(fmt.Sprintf("lessons[%d].id", i), e.ID, "id is reserved for the course root")
		}
		if seen[e.ID] {
			return pyerrors.NewValidationError(fmt.Sprintf("lessons[%d].id", i), e.ID, "duplicate lesson id")
		}
		seen[e.ID] = true
	}

	if first := entries[0]; first.PrevID != RootID {
		return pyerrors.NewValidationError(first.ID+".prev", first.PrevID, "first lesson must link back to "+RootID)
	}
	if last := entries[len(entries)-1]; last.NextID != RootID {
		return pyerrors.NewValidationError(last.ID+".next", last.NextID, "last lesson must link forward to "+RootID)
	}
	for i := 0; i+1 < len(entries); i++ {
		cur, next := entries[i], entries[i+1]
		if cur.NextID != next.ID {
			return pyerrors.NewValidationError(cur.ID+".next", cur.NextID, "expected "+next.ID)
		}
		if next.PrevID != cur.ID {
			return pyerrors.NewValidationError(next.ID+".prev", next.PrevID, "expected "+cur.ID)
		}
	}
	return nil
}

// Link returns a copy of modules with PrevID/NextID rewritten to follow
// manifest order.
func Link(modules []Module) []Module {
	out := make([]Module, len(modules))
	var prev *Entry
	for i, mod := range modules {
		lessons := slices.Clone(mod.Lessons)
		for j := range lessons {
			e := &lessons[j]
			e.PrevID = RootID
			e.NextID = RootID
			if prev != nil {
				e.PrevID = prev.ID
				prev.NextID = e.ID
			}
			prev = e
		}
		out[i] = Module{Name: mod.Name, Lessons: lessons}
	}
	return out
}

// Title is the course title, possibly empty.
func (m *Manifest) Title() string {
	return m.title
}

// Modules returns the modules in display order.
func (m *Manifest) Modules() []Module {
	out := make([]Module, len(m.modules))
	for i, mod := range m.modules {
		out[i] = Module{Name: mod.Name, Lessons: slices.Clone(mod.Lessons)}
	}
	return out
}

// Entries returns every lesson in manifest order.
func (m *Manifest) Entries() []Entry {
	return slices.Clone(m.entries)
}

// Len is the number of lessons.
func (m *Manifest) Len() int {
	return len(m.entries)
}

// Lookup finds a lesson by id.
func (m *Manifest) Lookup(id string) (Entry, bool) {
	i, ok := m.index[id]
	if !ok {
		return Entry{}, false
	}
	return m.entries[i], true
}
