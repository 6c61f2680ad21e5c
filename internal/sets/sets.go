package sets

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/conorfennell/kanadrill/internal/domain"
	"github.com/conorfennell/kanadrill/internal/parser"
)

//go:embed assets/*.csv
var assetFiles embed.FS

const (
	Hiragana = "hiragana"
	Katakana = "katakana"
)

// Provider supplies the items of one named vocabulary set.
type Provider interface {
	Name() string
	Load() ([]domain.Item, error)
}

// bundledSet is a vocabulary set compiled into the binary.
type bundledSet struct {
	name  string
	file  string
	order parser.ColumnOrder
	fsys  fs.FS
}

func (b bundledSet) Name() string { return b.name }

func (b bundledSet) Load() ([]domain.Item, error) {
	f, err := b.fsys.Open(b.file)
	if err != nil {
		return nil, fmt.Errorf("bundled set %s: %w", b.name, err)
	}
	defer f.Close()

	items, err := parser.Parse(f, b.order)
	if err != nil {
		return nil, fmt.Errorf("bundled set %s: %w", b.name, err)
	}
	return items, nil
}

// dirSet is a vocabulary set read from a CSV file on disk.
type dirSet struct {
	name string
	path string
}

func (d dirSet) Name() string { return d.name }

func (d dirSet) Load() ([]domain.Item, error) {
	return parser.ParseFile(d.path, parser.FrontBack)
}

// Registry maps set identifiers to their providers.
type Registry struct {
	providers map[string]Provider
	bundled   []string
	external  []string
}

// NewRegistry returns a registry holding the bundled hiragana and katakana sets.
func NewRegistry() *Registry {
	return newRegistry(assetFiles)
}

func newRegistry(fsys fs.FS) *Registry {
	r := &Registry{providers: make(map[string]Provider)}
	// The two bundled files store their columns in opposite orders.
	for _, b := range []bundledSet{
		{name: Hiragana, file: "assets/hiragana.csv", order: parser.BackFront, fsys: fsys},
		{name: Katakana, file: "assets/katakana.csv", order: parser.FrontBack, fsys: fsys},
	} {
		r.providers[b.name] = b
		r.bundled = append(r.bundled, b.name)
	}
	return r
}

// AddDir registers every <name>.csv file in dir as a set called <name>.
// Names that are already registered are skipped with a warning.
func (r *Registry) AddDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read set directory %s: %w", dir, err)
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		name := e.Name()[:len(e.Name())-len(".csv")]
		if _, exists := r.providers[name]; exists {
			slog.Warn("set already registered, skipping file", "set", name, "path", filepath.Join(dir, e.Name()))
			continue
		}
		r.providers[name] = dirSet{name: name, path: filepath.Join(dir, e.Name())}
		r.external = append(r.external, name)
	}
	sort.Strings(r.external)
	return nil
}

// Lookup returns the provider registered under name.
func (r *Registry) Lookup(name string) (Provider, bool) {
	p, ok := r.providers[name]
	return p, ok
}

// Names lists the bundled sets followed by the external ones in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.bundled)+len(r.external))
	names = append(names, r.bundled...)
	return append(names, r.external...)
}

func (r *Registry) isBundled(name string) bool {
	for _, b := range r.bundled {
		if b == name {
			return true
		}
	}
	return false
}

// Build concatenates the items of the named sets in the order given.
// Unknown names are logged and skipped. A bundled set that cannot be loaded
// is a packaging error and is returned; an external set that cannot be
// loaded is logged and skipped.
func (r *Registry) Build(names []string) (domain.Store, error) {
	var store domain.Store
	for _, name := range names {
		p, ok := r.Lookup(name)
		if !ok {
			slog.Warn("set not found", "set", name)
			continue
		}

		items, err := p.Load()
		if err != nil {
			if r.isBundled(name) {
				return domain.Store{}, err
			}
			slog.Warn("failed to load set, skipping", "set", name, "error", err)
			continue
		}

		store.Sets = append(store.Sets, p.Name())
		store.Items = append(store.Items, items...)
	}
	return store, nil
}

// SplitNames splits a comma separated list of set identifiers.
func SplitNames(list string) []string {
	if list == "" {
		return nil
	}
	return strings.Split(list, ",")
}
