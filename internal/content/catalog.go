// Package content loads the banner and career catalog shown by the carousels.
package content

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/google/uuid"
	"github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/agripath/agripath/internal/validate"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

// ErrEmptyCatalog is returned when a directory holds no catalog files.
var ErrEmptyCatalog = errors.New("no catalog files found")

// Default returns the catalog bundled with the binary.
func Default() (*Catalog, error) {
	return Parse("default_catalog.yaml", defaultCatalog)
}

// Parse decodes, normalizes and validates a catalog. path only selects the
// decoder.
func Parse(path string, data []byte) (*Catalog, error) {
	var c Catalog
	if err := unmarshal(path, data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if err := Finalize(&c); err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return &c, nil
}

// Finalize normalizes and validates a catalog decoded elsewhere, such as
// one received from the content feed.
func Finalize(c *Catalog) error {
	c.normalize()
	return validate.Struct(c)
}

// Load reads a single catalog file.
func Load(path string) (*Catalog, error) {
	logrus.Debug("Loading catalog from: ", path)
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(path, data)
}

// LoadDir loads every catalog fragment under root and merges them in path
// order, so later files override earlier ones with the same ids.
func LoadDir(ctx context.Context, root string) (*Catalog, error) {
	paths, err := discover(ctx, root)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrEmptyCatalog, root)
	}

	parts := make([]*Catalog, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c, err := Load(p)
			if err != nil {
				return err
			}
			parts[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return Merge(parts...), nil
}

// Resolve loads path as a file or directory. An empty path yields the
// bundled catalog; a leading ~ is the home directory.
func Resolve(ctx context.Context, path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if st.IsDir() {
		return LoadDir(ctx, path)
	}
	return Load(path)
}

// Merge combines catalogs. Items keep the position of their first
// appearance; a later item with the same id replaces the earlier one.
func Merge(parts ...*Catalog) *Catalog {
	out := &Catalog{}
	bannerAt := map[string]int{}
	careerAt := map[string]int{}
	for _, p := range parts {
		if p == nil {
			continue
		}
		out.Version = max(out.Version, p.Version)
		for _, b := range p.Banners {
			if i, ok := bannerAt[b.ID]; ok {
				out.Banners[i] = b
				continue
			}
			bannerAt[b.ID] = len(out.Banners)
			out.Banners = append(out.Banners, b)
		}
		for _, c := range p.Careers {
			if i, ok := careerAt[c.ID]; ok {
				out.Careers[i] = c
				continue
			}
			careerAt[c.ID] = len(out.Careers)
			out.Careers = append(out.Careers, c)
		}
	}
	return out
}

// normalize trims text fields and assigns ids to items that have none.
func (c *Catalog) normalize() {
	for i := range c.Banners {
		b := &c.Banners[i]
		b.ID = strings.TrimSpace(b.ID)
		b.Image = strings.TrimSpace(b.Image)
		b.Caption = strings.TrimSpace(b.Caption)
		if b.ID == "" {
			b.ID = uuid.NewString()
		}
	}
	for i := range c.Careers {
		cr := &c.Careers[i]
		cr.ID = strings.TrimSpace(cr.ID)
		cr.Title = strings.TrimSpace(cr.Title)
		cr.Body = strings.TrimSpace(cr.Body)
		if cr.ID == "" {
			cr.ID = uuid.NewString()
		}
	}
}

// discover walks root for catalog files and returns them sorted.
func discover(ctx context.Context, root string) ([]string, error) {
	var (
		paths []string
		mu    sync.Mutex
	)
	// fastwalk invokes the callback from several goroutines.
	conf := fastwalk.DefaultConfig
	err := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip unreadable entries.
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if !IsCatalogFile(path) {
			return nil
		}
		mu.Lock()
		paths = append(paths, path)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}
