package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrDetached is returned when a badge target has no parent to insert into.
var ErrDetached = errors.New("element is not attached to the document")

var skippedTags = map[string]struct{}{
	"script":   {},
	"style":    {},
	"noscript": {},
	"template": {},
	"textarea": {},
}

// HTML is a Document over a parsed HTML tree. It is safe for concurrent use.
type HTML struct {
	mu  sync.RWMutex
	doc *goquery.Document

	obsMu     sync.Mutex
	observers map[uint64]func()
	nextObs   uint64
}

// Load parses an HTML document from r.
func Load(r io.Reader) (*HTML, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &HTML{doc: doc, observers: make(map[uint64]func())}, nil
}

// Parse parses an HTML document from s.
func Parse(s string) (*HTML, error) {
	return Load(strings.NewReader(s))
}

// TextNodes implements Document.
func (h *HTML) TextNodes() []TextNode {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var out []TextNode
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skip(n) {
			return
		}
		if n.Type == html.TextNode && n.Parent != nil && strings.TrimSpace(n.Data) != "" {
			out = append(out, TextNode{Text: n.Data, Parent: Element{node: n.Parent}})
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, root := range h.doc.Nodes {
		walk(root)
	}
	return out
}

func skip(n *html.Node) bool {
	if _, ok := skippedTags[n.Data]; ok {
		return true
	}
	return hasClass(n, BadgeClass)
}

// InsertBadge implements Document. The badge is inserted as the next sibling
// of after.
func (h *HTML) InsertBadge(after Element, label string) error {
	h.mu.Lock()
	if after.node == nil || after.node.Parent == nil {
		h.mu.Unlock()
		return ErrDetached
	}
	badge := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Span,
		Data:     "span",
		Attr: []html.Attribute{
			{Key: "class", Val: BadgeClass},
			{Key: "style", Val: BadgeStyle},
		},
	}
	badge.AppendChild(&html.Node{Type: html.TextNode, Data: label})
	after.node.Parent.InsertBefore(badge, after.node.NextSibling)
	h.mu.Unlock()

	h.notify()
	return nil
}

// AppendHTML parses fragment and appends it to every element matching
// selector. Observers are notified once the tree is unlocked.
func (h *HTML) AppendHTML(selector, fragment string) error {
	h.mu.Lock()
	sel := h.doc.Find(selector)
	if sel.Length() == 0 {
		h.mu.Unlock()
		return fmt.Errorf("no element matches %q", selector)
	}
	sel.AppendHtml(fragment)
	h.mu.Unlock()

	h.notify()
	return nil
}

// Observe implements Document.
func (h *HTML) Observe(fn func()) (cancel func()) {
	h.obsMu.Lock()
	id := h.nextObs
	h.nextObs++
	h.observers[id] = fn
	h.obsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.obsMu.Lock()
			delete(h.observers, id)
			h.obsMu.Unlock()
		})
	}
}

// Observers returns the number of registered observers.
func (h *HTML) Observers() int {
	h.obsMu.Lock()
	defer h.obsMu.Unlock()
	return len(h.observers)
}

func (h *HTML) notify() {
	h.obsMu.Lock()
	fns := make([]func(), 0, len(h.observers))
	for _, fn := range h.observers {
		fns = append(fns, fn)
	}
	h.obsMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Lang returns the lang attribute of the root html element.
func (h *HTML) Lang() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return strings.TrimSpace(h.doc.Find("html").AttrOr("lang", ""))
}

// Badges returns the labels of all inserted badges in document order.
func (h *HTML) Badges() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var labels []string
	h.doc.Find("span." + BadgeClass).Each(func(_ int, s *goquery.Selection) {
		labels = append(labels, s.Text())
	})
	return labels
}

// Render writes the document as HTML.
func (h *HTML) Render(w io.Writer) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, n := range h.doc.Nodes {
		if err := html.Render(w, n); err != nil {
			return fmt.Errorf("failed to render HTML: %w", err)
		}
	}
	return nil
}

// String renders the document, returning an empty string on failure.
func (h *HTML) String() string {
	var buf bytes.Buffer
	if err := h.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" && slices.Contains(strings.Fields(a.Val), class) {
			return true
		}
	}
	return false
}

func addClass(n *html.Node, class string) {
	for i, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		if !slices.Contains(strings.Fields(a.Val), class) {
			n.Attr[i].Val = strings.TrimSpace(a.Val + " " + class)
		}
		return
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: class})
}
