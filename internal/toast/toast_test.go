package toast

import (
	"errors"
	"sync"
	"testing"

	"groceryhelper/internal/dom/htmldom"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findToast(t *testing.T, src string, opts ...Option) (*Toast, *htmldom.Document) {
	t.Helper()
	doc, err := htmldom.ParseString(src)
	require.NoError(t, err)
	body, ok := doc.Body()
	require.True(t, ok)
	tt, err := Find(body, opts...)
	require.NoError(t, err)
	return tt, doc
}

const page = `<html><body><div class="toast hidden bg-danger"><div class="toast-body"></div></div></body></html>`

func TestSuccessStylesAndShows(t *testing.T) {
	t.Parallel()
	shown := 0
	tt, doc := findToast(t, page, WithShow(func() { shown++ }))

	tt.Success("Added!")

	root, _ := doc.Query(Selector)
	body, _ := doc.Query(BodySelector)
	assert.Equal(t, "Added!", body.Text())
	assert.True(t, root.HasClass(SuccessClass))
	assert.False(t, root.HasClass(FailureClass))
	assert.False(t, root.HasClass(HiddenClass))
	assert.Equal(t, 1, shown)
}

func TestFailureReplacesSuccess(t *testing.T) {
	t.Parallel()
	tt, doc := findToast(t, page)

	tt.Success("ok")
	tt.Failure("Not found")

	root, _ := doc.Query(Selector)
	body, _ := doc.Query(BodySelector)
	assert.Equal(t, "Not found", body.Text())
	assert.True(t, root.HasClass(FailureClass))
	assert.False(t, root.HasClass(SuccessClass))
	assert.False(t, root.HasClass(HiddenClass))
}

func TestFindRequiresExactlyOne(t *testing.T) {
	t.Parallel()
	for name, src := range map[string]string{
		"none":    `<html><body><p>nothing</p></body></html>`,
		"two":     `<html><body><div class="toast"><div class="toast-body"></div></div><div class="toast"></div></body></html>`,
		"no body": `<html><body><div class="toast"></div></body></html>`,
	} {
		t.Run(name, func(t *testing.T) {
			doc, err := htmldom.ParseString(src)
			require.NoError(t, err)
			body, _ := doc.Body()
			_, err = Find(body)
			assert.Error(t, err)
		})
	}

	doc, err := htmldom.ParseString(`<html><body></body></html>`)
	require.NoError(t, err)
	body, _ := doc.Body()
	_, err = Find(body)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestConcurrentCallsKeepTextAndStyleTogether(t *testing.T) {
	t.Parallel()
	tt, doc := findToast(t, page)
	root, _ := doc.Query(Selector)
	body, _ := doc.Query(BodySelector)

	for round := 0; round < 50; round++ {
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if i%2 == 0 {
					tt.Success("saved")
				} else {
					tt.Failure("failed")
				}
			}()
		}
		wg.Wait()

		switch body.Text() {
		case "saved":
			require.True(t, root.HasClass(SuccessClass), "round %d", round)
			require.False(t, root.HasClass(FailureClass), "round %d", round)
		case "failed":
			require.True(t, root.HasClass(FailureClass), "round %d", round)
			require.False(t, root.HasClass(SuccessClass), "round %d", round)
		default:
			t.Fatalf("unexpected toast text %q", body.Text())
		}
	}
}
