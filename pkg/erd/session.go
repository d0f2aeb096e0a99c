package erd

// Session is the editing state around a graph: the current selection and
// the observers interested in selection changes.
type Session struct {
	Graph *Graph

	selection Selection
	observers []func(Selection)
}

// NewSession wraps g in a session with nothing selected.
func NewSession(g *Graph) *Session {
	return &Session{Graph: g}
}

// Selection returns the current selection.
func (s *Session) Selection() Selection {
	return s.selection
}

// Select replaces the selection, notifying observers when it changed.
func (s *Session) Select(sel Selection) {
	if sameSelection(s.selection, sel) {
		return
	}
	s.selection = sel
	for _, fn := range s.observers {
		fn(sel)
	}
}

// ClearSelection selects nothing.
func (s *Session) ClearSelection() {
	s.Select(Selection{})
}

// OnSelect registers a selection-change observer.
func (s *Session) OnSelect(fn func(Selection)) {
	s.observers = append(s.observers, fn)
}

// SelectedNode returns the selected node, or nil when the selection is
// not a single node.
func (s *Session) SelectedNode() *Node {
	if s.selection.Kind != SelectNode {
		return nil
	}
	return s.Graph.Node(s.selection.Node)
}

// DeleteSelection removes the selected entities, clears the selection and
// notifies graph observers.
func (s *Session) DeleteSelection() {
	if s.selection.IsNone() {
		return
	}
	s.Graph.Delete(s.selection)
	s.ClearSelection()
	s.Graph.Changed()
}

// MoveSelection translates the selection and notifies graph observers.
func (s *Session) MoveSelection(dx, dy float64) {
	if s.selection.IsNone() {
		return
	}
	s.selection.MoveBy(s.Graph, dx, dy)
	s.Graph.Changed()
}

func sameSelection(a, b Selection) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case SelectNode:
		return a.Node == b.Node
	case SelectConnection:
		return a.Conn == b.Conn
	case SelectMulti:
		return a.Multi == b.Multi
	}
	return true
}
