package document

import (
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html lang="de"><head><title>Shop</title><style>.p{content:"$5"}</style></head>
<body>
  <p id="a">Price: $20</p>
  <script>var price = "€ 10";</script>
  <div><span>12,50 €</span> and <b>more</b></div>
  <textarea>$ 99</textarea>
</body></html>`

func texts(nodes []TextNode) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, strings.TrimSpace(n.Text))
	}
	return out
}

func TestTextNodes(t *testing.T) {
	doc, err := Parse(page)
	require.NoError(t, err)

	nodes := doc.TextNodes()
	assert.Equal(t, []string{"Shop", "Price: $20", "12,50 €", "and", "more"}, texts(nodes))
	assert.Equal(t, "p", nodes[1].Parent.Tag())
	assert.Equal(t, "span", nodes[2].Parent.Tag())
}

func TestTextNodes_SnapshotIsStable(t *testing.T) {
	doc, err := Parse(page)
	require.NoError(t, err)

	before := doc.TextNodes()
	require.NoError(t, doc.AppendHTML("body", "<p>£5</p>"))

	assert.Len(t, before, 5)
	assert.Len(t, doc.TextNodes(), 6)
}

func TestInsertBadge(t *testing.T) {
	doc, err := Parse(page)
	require.NoError(t, err)

	target := doc.TextNodes()[1].Parent
	require.NoError(t, doc.InsertBadge(target, "2 hours 30 minutes"))

	assert.Equal(t, []string{"2 hours 30 minutes"}, doc.Badges())
	assert.NotContains(t, texts(doc.TextNodes()), "2 hours 30 minutes")

	out := doc.String()
	assert.Contains(t, out, `<p id="a">Price: $20</p><span class="money-is-time-badge" style="margin-left: 4px;`)
	assert.Contains(t, out, ">2 hours 30 minutes</span>")

	assert.ErrorIs(t, doc.InsertBadge(Element{}, "x"), ErrDetached)
}

func TestAppendHTML(t *testing.T) {
	doc, err := Parse(page)
	require.NoError(t, err)

	require.NoError(t, doc.AppendHTML("div", "<i>CHF 80</i>"))
	assert.Contains(t, texts(doc.TextNodes()), "CHF 80")

	assert.Error(t, doc.AppendHTML("aside", "<i>x</i>"))
}

func TestObserve(t *testing.T) {
	doc, err := Parse(page)
	require.NoError(t, err)

	var calls atomic.Int32
	cancel := doc.Observe(func() {
		// the tree is unlocked while observers run
		_ = doc.TextNodes()
		calls.Add(1)
	})
	assert.Equal(t, 1, doc.Observers())

	require.NoError(t, doc.AppendHTML("body", "<p>1</p>"))
	require.NoError(t, doc.InsertBadge(doc.TextNodes()[1].Parent, "x"))
	assert.Equal(t, int32(2), calls.Load())

	cancel()
	cancel()
	assert.Equal(t, 0, doc.Observers())

	require.NoError(t, doc.AppendHTML("body", "<p>2</p>"))
	assert.Equal(t, int32(2), calls.Load())
}

func TestLang(t *testing.T) {
	doc, err := Parse(page)
	require.NoError(t, err)
	assert.Equal(t, "de", doc.Lang())

	bare, err := Parse("<p>hi</p>")
	require.NoError(t, err)
	assert.Equal(t, "", bare.Lang())
}

func TestConcurrentMutation(t *testing.T) {
	doc, err := Parse(page)
	require.NoError(t, err)
	target := doc.TextNodes()[1].Parent

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = doc.InsertBadge(target, "b")
		}()
		go func() {
			defer wg.Done()
			_ = doc.TextNodes()
		}()
	}
	wg.Wait()

	assert.Len(t, doc.Badges(), 20)
}
