// Package floorplan implements the admin floor-plan editor state. Tables
// added from the palette are pending (identified by a process-local
// counter) until a save persists them and the server assigns their real
// identity; the two states are a tagged union, so an entry is always
// identified by exactly one of the two.
package floorplan

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/restaurant-table-reservation/internal/client"
)

// RefKind tags a TableRef as pending or persisted.
type RefKind uint8

const (
	// Pending identifies a table that exists only in the editor; ID is a
	// local counter value that never crosses the network.
	Pending RefKind = iota + 1
	// Persisted identifies a table stored on the server; ID is the
	// server-assigned identity.
	Persisted
)

// TableRef identifies one table in the editor. The zero value means "no
// table". Refs are comparable, so callers can hold on to one across moves.
type TableRef struct {
	Kind RefKind
	ID   uint64
}

// PendingRef builds a reference to an unsaved table.
func PendingRef(localID uint64) TableRef { return TableRef{Kind: Pending, ID: localID} }

// PersistedRef builds a reference to a server-assigned table.
func PersistedRef(serverID uint64) TableRef { return TableRef{Kind: Persisted, ID: serverID} }

// Entry is one table held by the editor.
type Entry struct {
	Ref    TableRef
	Left   int
	Top    int
	Size   int
	Inside bool
}

// Editor holds the in-memory floor-plan session: the mixed collection of
// pending and persisted tables, the local-id counter, the current
// selection and the active layout view. It is not safe for concurrent
// use; the editor models a single admin session.
type Editor struct {
	api         *client.Client
	tables      []Entry
	nextLocalID uint64
	selected    TableRef
	insideView  bool
}

// NewEditor returns an empty editor showing the inside view.
func NewEditor(api *client.Client) *Editor {
	return &Editor{api: api, nextLocalID: 1, insideView: true}
}

// Load replaces the editor's contents with the persisted floor plan.
func (e *Editor) Load(ctx context.Context) error {
	tables, err := e.api.Tables(ctx)
	if err != nil {
		return err
	}
	e.tables = e.tables[:0]
	for _, t := range tables {
		e.tables = append(e.tables, Entry{
			Ref:    PersistedRef(t.ID),
			Left:   t.Left,
			Top:    t.Top,
			Size:   t.Size,
			Inside: t.Inside,
		})
	}
	e.selected = TableRef{}
	return nil
}

// Add appends a pending table from the palette at the default position
// (0,0) and selects it. The returned reference is unique among all entries
// the editor holds.
func (e *Editor) Add(size int, inside bool) TableRef {
	ref := PendingRef(e.nextLocalID)
	e.nextLocalID++
	e.tables = append(e.tables, Entry{Ref: ref, Size: size, Inside: inside})
	e.selected = ref
	return ref
}

// Move updates the position of the referenced table. It reports whether
// the reference matched an entry.
func (e *Editor) Move(ref TableRef, left, top int) bool {
	for i := range e.tables {
		if e.tables[i].Ref == ref {
			e.tables[i].Left = left
			e.tables[i].Top = top
			return true
		}
	}
	return false
}

// Delete removes the referenced table. Persisted tables are deleted on the
// server first and removed from the editor only when that succeeds;
// pending tables are removed locally without any network call.
func (e *Editor) Delete(ctx context.Context, ref TableRef) error {
	idx := -1
	for i := range e.tables {
		if e.tables[i].Ref == ref {
			idx = i
			break
		}
	}
	if idx < 0 {
		return errors.New("no such table in editor")
	}
	if ref.Kind == Persisted {
		if err := e.api.DeleteTable(ctx, ref.ID); err != nil {
			return err
		}
	}
	e.tables = append(e.tables[:idx], e.tables[idx+1:]...)
	if e.selected == ref {
		e.selected = TableRef{}
	}
	return nil
}

// SetView switches between the inside and outside layout views.
func (e *Editor) SetView(inside bool) { e.insideView = inside }

// Visible returns the tables belonging to the active layout view.
func (e *Editor) Visible() []Entry {
	out := make([]Entry, 0, len(e.tables))
	for _, t := range e.tables {
		if t.Inside == e.insideView {
			out = append(out, t)
		}
	}
	return out
}

// Tables returns a copy of every entry, pending and persisted mixed.
func (e *Editor) Tables() []Entry {
	out := make([]Entry, len(e.tables))
	copy(out, e.tables)
	return out
}

// Selected returns the currently selected table, if any.
func (e *Editor) Selected() (TableRef, bool) {
	return e.selected, e.selected != TableRef{}
}

// Save persists the whole session through the atomic layout endpoint:
// every persisted table's position and every pending table commit together
// or not at all. On success pending entries are promoted in place to their
// server-assigned identities, and a held selection follows the promotion.
func (e *Editor) Save(ctx context.Context) error {
	layout := client.Layout{Updates: []client.PositionUpdate{}, Creates: []client.NewTable{}}
	pendingIdx := make([]int, 0)
	for i, t := range e.tables {
		switch t.Ref.Kind {
		case Persisted:
			layout.Updates = append(layout.Updates, client.PositionUpdate{ID: t.Ref.ID, Left: t.Left, Top: t.Top})
		case Pending:
			layout.Creates = append(layout.Creates, client.NewTable{Left: t.Left, Top: t.Top, Size: t.Size, Inside: t.Inside})
			pendingIdx = append(pendingIdx, i)
		}
	}
	ids, err := e.api.SaveLayout(ctx, layout)
	if err != nil {
		return err
	}
	if len(ids) != len(pendingIdx) {
		return fmt.Errorf("layout save returned %d ids for %d new tables", len(ids), len(pendingIdx))
	}
	for n, i := range pendingIdx {
		old := e.tables[i].Ref
		e.tables[i].Ref = PersistedRef(ids[n])
		if e.selected == old {
			e.selected = e.tables[i].Ref
		}
	}
	return nil
}
