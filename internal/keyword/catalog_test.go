package keyword

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	cat := DefaultCatalog()
	require.NoError(t, cat.Validate())

	url, ok := cat.DocURL("Google Sheet")
	assert.True(t, ok)
	assert.Contains(t, url, "google-sheets")
}

func TestParseCatalog(t *testing.T) {
	t.Run("keeps file order", func(t *testing.T) {
		cat, err := ParseCatalog([]byte(`
connectors:
  - name: zuora
    doc_url: https://docs/zuora
  - name: postgres
    doc_url: https://docs/pg
`))
		require.NoError(t, err)
		require.Len(t, cat, 2)
		assert.Equal(t, "zuora", cat[0].Name)
		assert.Equal(t, "postgres", cat[1].Name)
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		_, err := ParseCatalog([]byte(`
connectors:
  - name: postgres
    doc_url: https://docs/pg
  - name: Postgres
    doc_url: https://docs/pg2
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate")
	})

	t.Run("rejects missing url", func(t *testing.T) {
		_, err := ParseCatalog([]byte("connectors:\n  - name: postgres\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "doc_url")
	})

	t.Run("rejects empty", func(t *testing.T) {
		_, err := ParseCatalog([]byte("connectors: []\n"))
		assert.Error(t, err)
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		_, err := ParseCatalog([]byte("connectors: [\n"))
		assert.Error(t, err)
	})
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("connectors:\n  - name: stripe\n    doc_url: https://docs/stripe\n"), 0644))

	cat, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, Catalog{{Name: "stripe", DocURL: "https://docs/stripe"}}, cat)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
