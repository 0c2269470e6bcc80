// Package catalog loads the premium-app catalog: a YAML file mapping item
// names to their emoji and link. The file is read at startup and can be
// reloaded on command; no lifecycle logic depends on its contents.
package catalog

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// Item is one catalog entry.
type Item struct {
	Name  string `yaml:"-"`
	Emoji string `yaml:"emoji"`
	Link  string `yaml:"link"`
}

// Catalog serves the current item set. Reload swaps the whole set
// atomically, so readers never observe a partial file.
type Catalog struct {
	mu    sync.RWMutex
	path  string
	items map[string]Item
}

// Load reads the catalog file at path.
func Load(path string) (*Catalog, error) {
	c := &Catalog{path: path, items: map[string]Item{}}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload re-reads the backing file, replacing the item set on success and
// leaving it untouched on failure.
func (c *Catalog) Reload() error {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("read catalog %s: %w", c.path, err)
	}

	parsed := map[string]Item{}
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("parse catalog %s: %w", c.path, err)
	}
	for name, item := range parsed {
		item.Name = name
		parsed[name] = item
	}

	c.mu.Lock()
	c.items = parsed
	c.mu.Unlock()
	return nil
}

// Get returns one item by name.
func (c *Catalog) Get(name string) (Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[name]
	return item, ok
}

// Items returns all entries sorted by name.
func (c *Catalog) Items() []Item {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Item, 0, len(c.items))
	for _, item := range c.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
