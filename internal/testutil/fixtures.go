package testutil

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/wagiedev/pizzaz-mcp-go/internal/assets"
	"github.com/wagiedev/pizzaz-mcp-go/internal/catalog"
)

// ListHTML is the body served for the pizza-list widget by AssetsFS.
const ListHTML = `<div id="pizzaz-list-root"></div><script type="module" src="pizzaz-list.js"></script>`

// AssetsFS returns an in-memory asset directory covering the default widgets.
// The list widget only exists in a content-hashed form.
func AssetsFS() fstest.MapFS {
	return fstest.MapFS{
		"pizzaz.html":               {Data: []byte(`<div id="pizzaz-root"></div>`)},
		"pizzaz-carousel.html":      {Data: []byte(`<div id="pizzaz-carousel-root"></div>`)},
		"pizzaz-albums.html":        {Data: []byte(`<div id="pizzaz-albums-root"></div>`)},
		"pizzaz-list-00000000.html": {Data: []byte(`<div>stale</div>`)},
		"pizzaz-list-3f9c2ab1.html": {Data: []byte(ListHTML)},
	}
}

// Catalog loads the default widget catalog over AssetsFS.
func Catalog(t testing.TB) *catalog.Catalog {
	t.Helper()

	cat, err := catalog.Load(assets.NewFSLoader(AssetsFS(), "assets"), catalog.DefaultDefinitions())
	require.NoError(t, err)

	return cat
}
