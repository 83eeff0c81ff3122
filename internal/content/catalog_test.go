//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func TestDefault_IsValid(t *testing.T) {
	t.Parallel()

	c, err := Default()
	require.NoError(t, err)
	require.NotEmpty(t, c.Banners)
	require.NotEmpty(t, c.Careers)

	cr, ok := c.FindCareer("agronomist")
	require.True(t, ok)
	require.NotNil(t, cr.Course)
	assert.Positive(t, cr.Course.PricePaise)
	assert.Contains(t, cr.Detail, "# Agronomist")
}

func TestParse_YAMLAssignsIDs(t *testing.T) {
	t.Parallel()

	c, err := Parse("c.yaml", []byte(`
banners:
  - image: " a.png "
    caption: hello
careers:
  - title: Beekeeper
    body: Keep bees.
`))
	require.NoError(t, err)
	require.Len(t, c.Banners, 1)
	assert.Equal(t, "a.png", c.Banners[0].Image)
	_, err = uuid.Parse(c.Banners[0].ID)
	require.NoError(t, err)
	_, err = uuid.Parse(c.Careers[0].ID)
	require.NoError(t, err)
}

func TestParse_JSON(t *testing.T) {
	t.Parallel()

	c, err := Parse("c.json", []byte(`{"banners":[{"id":"b1","image":"https://cdn.example.com/b1.png"}],"careers":[]}`))
	require.NoError(t, err)
	assert.Equal(t, "b1", c.Banners[0].ID)
}

func TestParse_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		body string
	}{
		{name: "case collision", path: "c.json", body: `{"banners":[],"Banners":[]}`},
		{name: "nested case collision", path: "c.json", body: `{"careers":[{"title":"a","Title":"b","body":"x"}]}`},
		{name: "missing image", path: "c.yaml", body: "banners:\n  - id: x\n"},
		{name: "bad image scheme", path: "c.yaml", body: "banners:\n  - id: x\n    image: ftp://h/x.png\n"},
		{name: "missing title", path: "c.yaml", body: "careers:\n  - id: x\n    body: y\n"},
		{name: "negative price", path: "c.yaml", body: "careers:\n  - {id: x, title: t, body: b, course: {name: n, price_paise: -1}}\n"},
		{name: "unknown format", path: "c.toml", body: "x = 1"},
		{name: "syntax", path: "c.json", body: `{"banners":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(tt.path, []byte(tt.body))
			require.Error(t, err)
		})
	}

	_, err := Parse("c.toml", nil)
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoad_TooLarge(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "big.yaml")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(maxCatalogSize+1))
	require.NoError(t, f.Close())

	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestLoadDir_MergesInPathOrder(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "10-base.yaml"), `
version: 1
banners:
  - {id: b1, image: one.png, caption: first}
  - {id: b2, image: two.png}
careers:
  - {id: c1, title: Agronomist, body: Crops.}
`)
	writeFile(t, filepath.Join(root, "20-override.json"), `{
  "version": 2,
  "banners": [{"id": "b1", "image": "one-v2.png", "caption": "updated"}, {"id": "b3", "image": "three.png"}]
}`)
	writeFile(t, filepath.Join(root, "notes.txt"), "ignored")
	writeFile(t, filepath.Join(root, ".hidden", "x.yaml"), "banners: [{id: hidden, image: h.png}]")
	writeFile(t, filepath.Join(root, "season", "30-kharif.yml"), `
careers:
  - {id: c2, title: Seed Technologist, body: Seeds.}
`)

	c, err := LoadDir(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Version)

	var ids []string
	for _, b := range c.Banners {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []string{"b1", "b2", "b3"}, ids)
	assert.Equal(t, "updated", c.Banners[0].Caption)
	require.Len(t, c.Careers, 2)
	assert.Equal(t, "c2", c.Careers[1].ID)
}

func TestLoadDir_Empty(t *testing.T) {
	t.Parallel()

	_, err := LoadDir(context.Background(), t.TempDir())
	require.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestLoadDir_PropagatesInvalidFragment(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "ok.yaml"), "banners: [{id: a, image: a.png}]")
	writeFile(t, filepath.Join(root, "bad.yaml"), "careers: [{id: x}]")

	_, err := LoadDir(context.Background(), root)
	require.Error(t, err)
}

func TestResolve(t *testing.T) {
	t.Parallel()

	c, err := Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, c.Empty())

	path := filepath.Join(t.TempDir(), "one.yaml")
	writeFile(t, path, "careers: [{id: c, title: T, body: B}]")
	c, err = Resolve(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, c.Careers, 1)
	assert.Empty(t, c.Banners)

	_, err = Resolve(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestResolve_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	prev := homedir.DisableCache
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = prev })

	writeFile(t, filepath.Join(home, "catalog.yaml"), "careers: [{id: c, title: T, body: B}]")
	c, err := Resolve(context.Background(), "~/catalog.yaml")
	require.NoError(t, err)
	assert.Len(t, c.Careers, 1)

	writeFile(t, filepath.Join(home, "agripath", "catalog", "10.yaml"), "banners: [{image: a.png}]")
	c, err = Resolve(context.Background(), "~/agripath/catalog")
	require.NoError(t, err)
	assert.Len(t, c.Banners, 1)

	_, err = Resolve(context.Background(), "~kisan/catalog.yaml")
	require.Error(t, err)
}

func TestCatalog_Empty(t *testing.T) {
	t.Parallel()

	var c *Catalog
	assert.True(t, c.Empty())
	assert.True(t, (&Catalog{}).Empty())
}
