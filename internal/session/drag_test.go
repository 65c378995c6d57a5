package session

import (
	"testing"
)

const tabWidth = 10

// stripRects lays the session's tabs out side by side, tabWidth cells each.
func stripRects(s *Store) []TabRect {
	rects := make([]TabRect, 0, s.Len())
	x := 0
	for _, tab := range s.Tabs() {
		rects = append(rects, TabRect{ID: tab.ID, X: x, W: tabWidth})
		x += tabWidth
	}
	return rects
}

func TestDragStartRequiresIdleController(t *testing.T) {
	s, _ := newSession(t, 2)
	d := NewDrag(s)

	if !d.Start("t1", 3) {
		t.Fatal("Start on idle controller failed")
	}
	if d.Start("t2", 12) {
		t.Error("second Start while dragging should be rejected")
	}
	if d.ID() != "t1" {
		t.Errorf("dragged id = %q, want t1", d.ID())
	}
}

func TestDragStartUnknownTab(t *testing.T) {
	s, _ := newSession(t, 1)
	d := NewDrag(s)

	if d.Start("ghost", 0) {
		t.Error("Start on unknown tab should be rejected")
	}
}

func TestDragSwapsOnMidpointCrossing(t *testing.T) {
	s, _ := newSession(t, 3)
	d := NewDrag(s)

	// Grab t1 in the middle of its cell.
	d.Start("t1", 5)

	// Moving short of t2's midpoint (15) does nothing.
	d.Move(14, stripRects(s))
	wantOrder(t, s, "t1", "t2", "t3")
	if d.Offset() != 9 {
		t.Errorf("offset = %d, want 9 before any swap", d.Offset())
	}

	// Crossing the midpoint swaps and re-bases the offset.
	d.Move(16, stripRects(s))
	wantOrder(t, s, "t2", "t1", "t3")
	if d.Offset() != 0 {
		t.Errorf("offset = %d, want 0 after re-base", d.Offset())
	}
	checkInvariants(t, s)
}

func TestDragAcrossWholeStrip(t *testing.T) {
	s, _ := newSession(t, 3)
	d := NewDrag(s)

	d.Start("t1", 5)
	d.Move(16, stripRects(s)) // past t2's midpoint
	d.Move(26, stripRects(s)) // past t3's midpoint
	wantOrder(t, s, "t2", "t3", "t1")

	// And back one slot to the left.
	d.Move(14, stripRects(s))
	wantOrder(t, s, "t2", "t1", "t3")

	d.Release()
	wantOrder(t, s, "t2", "t1", "t3")
	checkInvariants(t, s)
}

func TestDragStopsAtPinBoundary(t *testing.T) {
	s, _ := newSession(t, 3)
	s.TogglePin("t1")
	// [t1*, t2, t3].
	d := NewDrag(s)

	// Dragging unpinned t2 leftward toward the pinned t1 never swaps.
	d.Start("t2", 15)
	d.Move(2, stripRects(s))
	wantOrder(t, s, "t1", "t2", "t3")

	// But it still swaps freely within its own partition.
	d.Move(15, stripRects(s))
	d.Move(26, stripRects(s))
	wantOrder(t, s, "t1", "t3", "t2")
	checkInvariants(t, s)
}

func TestDragReleaseClearsState(t *testing.T) {
	s, _ := newSession(t, 2)
	d := NewDrag(s)

	d.Start("t1", 5)
	d.Move(8, stripRects(s))
	d.Release()

	if d.Active() || d.ID() != "" || d.Offset() != 0 {
		t.Errorf("controller not cleared: active=%v id=%q offset=%d", d.Active(), d.ID(), d.Offset())
	}

	// A fresh drag can start immediately.
	if !d.Start("t2", 15) {
		t.Error("Start after Release failed")
	}
}

func TestDragMoveWhileIdleIsNoop(t *testing.T) {
	s, _ := newSession(t, 2)
	d := NewDrag(s)

	d.Move(25, stripRects(s))
	wantOrder(t, s, "t1", "t2")
}
