package htmldom

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><body>
<div class="card"><i class="fas fa-shopping-cart text-light"></i>
<button class="add-to-cart btn" data-recipe-id="3"><span>Add</span></button></div>
<div class="toast hidden"><div class="toast-body">old</div></div>
</body></html>`

func TestElementClassMutation(t *testing.T) {
	t.Parallel()
	doc, err := ParseString(page)
	require.NoError(t, err)

	icon, ok := doc.Query(".fa-shopping-cart")
	require.True(t, ok)
	icon.AddClass("text-secondary")
	icon.RemoveClass("text-light")

	class, _ := icon.Attr("class")
	assert.Equal(t, "fas fa-shopping-cart text-secondary", class)
	assert.True(t, icon.HasClass("text-secondary"))
	assert.False(t, icon.HasClass("text-light"))
}

func TestElementParentStopsAtHTML(t *testing.T) {
	t.Parallel()
	doc, err := ParseString(page)
	require.NoError(t, err)

	el, ok := doc.Query("html")
	require.True(t, ok)
	_, ok = el.Parent()
	assert.False(t, ok)
}

func TestElementAttrAndText(t *testing.T) {
	t.Parallel()
	doc, err := ParseString(page)
	require.NoError(t, err)

	btn, ok := doc.Query(".add-to-cart")
	require.True(t, ok)
	id, ok := btn.Attr("data-recipe-id")
	assert.True(t, ok)
	assert.Equal(t, "3", id)
	_, ok = btn.Attr("data-missing")
	assert.False(t, ok)

	body, ok := doc.Query(".toast-body")
	require.True(t, ok)
	assert.Equal(t, "old", body.Text())
	body.SetText("<b>new</b>")
	assert.Equal(t, "<b>new</b>", body.Text())
	assert.True(t, strings.Contains(doc.String(), "&lt;b&gt;new&lt;/b&gt;"))
}

func TestElementQueryScopesToDescendants(t *testing.T) {
	t.Parallel()
	doc, err := ParseString(page)
	require.NoError(t, err)

	card, ok := doc.Query(".card")
	require.True(t, ok)
	_, ok = card.Query(".toast-body")
	assert.False(t, ok)
	assert.Len(t, card.QueryAll("i, button"), 2)
	assert.Len(t, doc.QueryAll(".toast"), 1)
}

func TestConcurrentMutationIsSerialized(t *testing.T) {
	t.Parallel()
	doc, err := ParseString(page)
	require.NoError(t, err)
	body, ok := doc.Query(".toast-body")
	require.True(t, ok)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body.SetText("msg")
			_ = body.Text()
		}()
	}
	wg.Wait()
	assert.Equal(t, "msg", body.Text())
}
