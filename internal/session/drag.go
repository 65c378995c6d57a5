package session

import "github.com/lotas/fenster/internal/applog"

// TabRect is one tab's horizontal extent in the rendered strip, in the
// same units as pointer coordinates (terminal cells for the TUI).
type TabRect struct {
	ID string
	X  int // left edge
	W  int // width
}

// Drag tracks a single in-progress drag-reorder gesture. Each pointer
// move that crosses a same-partition neighbor's midpoint swaps positions
// through Store.Reorder immediately, so the canonical order is always
// current and release has nothing left to commit.
type Drag struct {
	store *Store

	active bool
	id     string
	startX int
	lastX  int
}

// NewDrag creates a controller bound to the store.
func NewDrag(store *Store) *Drag {
	return &Drag{store: store}
}

// Active reports whether a drag is in progress.
func (d *Drag) Active() bool {
	return d.active
}

// ID returns the dragged tab id, or "" when idle.
func (d *Drag) ID() string {
	if !d.active {
		return ""
	}
	return d.id
}

// Offset returns the live visual offset from the dragged tab's current
// slot, so the element renders attached to the pointer.
func (d *Drag) Offset() int {
	if !d.active {
		return 0
	}
	return d.lastX - d.startX
}

// Start begins dragging the tab under the pointer. Starting while a drag
// is already active is rejected.
func (d *Drag) Start(id string, x int) bool {
	if d.active || d.store.Tab(id) == nil {
		return false
	}
	d.active = true
	d.id = id
	d.startX = x
	d.lastX = x
	applog.Info("drag.start", "id", id)
	return true
}

// Move updates the gesture with a new pointer x. rects must describe the
// current strip layout in session order. When the pointer crosses the
// midpoint of the neighbor in the drag direction and that neighbor shares
// the dragged tab's pin partition, the two swap slots and the visual
// offset re-bases to zero so the tab never snaps backward.
func (d *Drag) Move(x int, rects []TabRect) {
	if !d.active {
		return
	}
	d.lastX = x

	idx := -1
	for i, r := range rects {
		if r.ID == d.id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	offset := x - d.startX
	var neighbor int
	switch {
	case offset > 0 && idx+1 < len(rects):
		neighbor = idx + 1
		mid := rects[neighbor].X + rects[neighbor].W/2
		if x <= mid {
			return
		}
	case offset < 0 && idx > 0:
		neighbor = idx - 1
		mid := rects[neighbor].X + rects[neighbor].W/2
		if x >= mid {
			return
		}
	default:
		return
	}

	if !d.samePartition(rects[neighbor].ID) {
		return
	}

	if err := d.store.Reorder(d.id, neighbor); err != nil {
		return
	}
	// The slot changed under the pointer; re-base so the rendered offset
	// stays continuous.
	d.startX = x
}

// Release ends the gesture. All intermediate positions were committed as
// they happened, so this only clears drag state.
func (d *Drag) Release() {
	if !d.active {
		return
	}
	applog.Info("drag.end", "id", d.id)
	d.active = false
	d.id = ""
	d.startX = 0
	d.lastX = 0
}

func (d *Drag) samePartition(otherID string) bool {
	a := d.store.Tab(d.id)
	b := d.store.Tab(otherID)
	return a != nil && b != nil && a.IsPinned == b.IsPinned
}
