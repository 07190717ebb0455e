package document

import "sync"

// SetMarker keeps processed elements in an identity-keyed set.
type SetMarker struct {
	mu     sync.Mutex
	marked map[Element]struct{}
}

// NewSetMarker returns an empty SetMarker.
func NewSetMarker() *SetMarker {
	return &SetMarker{marked: make(map[Element]struct{})}
}

func (m *SetMarker) Marked(el Element) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.marked[el]
	return ok
}

func (m *SetMarker) Mark(el Element) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.marked[el] = struct{}{}
}

func (m *SetMarker) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.marked)
}

// ClassMarker stores the mark as the ProcessedClass CSS class on the element,
// so a rendered and re-loaded document keeps its marks.
type ClassMarker struct {
	doc *HTML
}

// NewClassMarker returns a marker writing into doc.
func NewClassMarker(doc *HTML) *ClassMarker {
	return &ClassMarker{doc: doc}
}

func (m *ClassMarker) Marked(el Element) bool {
	if el.node == nil {
		return false
	}
	m.doc.mu.RLock()
	defer m.doc.mu.RUnlock()
	return hasClass(el.node, ProcessedClass)
}

func (m *ClassMarker) Mark(el Element) {
	if el.node == nil {
		return
	}
	m.doc.mu.Lock()
	defer m.doc.mu.Unlock()
	addClass(el.node, ProcessedClass)
}

// Count walks the tree and counts marked elements.
func (m *ClassMarker) Count() int {
	m.doc.mu.RLock()
	defer m.doc.mu.RUnlock()
	return m.doc.doc.Find("." + ProcessedClass).Length()
}

var _ Marker = (*SetMarker)(nil)
var _ Marker = (*ClassMarker)(nil)
var _ Document = (*HTML)(nil)
