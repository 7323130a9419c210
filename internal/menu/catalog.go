package menu

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Item is a single orderable catalog entry.
type Item struct {
	Name  string
	Price decimal.Decimal
}

// Catalog is the read-only item -> unit price mapping shown to users.
// It is loaded once at startup; changing the menu requires a redeploy.
type Catalog struct {
	items []Item
	index map[string]decimal.Decimal
}

// New builds a catalog from the given items, preserving their order.
func New(items []Item) (*Catalog, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("menu: catalog must contain at least one item")
	}
	c := &Catalog{
		items: make([]Item, 0, len(items)),
		index: make(map[string]decimal.Decimal, len(items)),
	}
	for _, it := range items {
		if it.Name == "" {
			return nil, fmt.Errorf("menu: item with empty name")
		}
		if !it.Price.IsPositive() {
			return nil, fmt.Errorf("menu: item %q has non-positive price %s", it.Name, it.Price)
		}
		if _, dup := c.index[it.Name]; dup {
			return nil, fmt.Errorf("menu: duplicate item %q", it.Name)
		}
		c.items = append(c.items, it)
		c.index[it.Name] = it.Price
	}
	return c, nil
}

// Default returns the built-in catalog used when no menu file is configured.
func Default() *Catalog {
	c, err := New([]Item{
		{Name: "Pizza", Price: decimal.RequireFromString("10.99")},
		{Name: "Burger", Price: decimal.RequireFromString("7.99")},
		{Name: "Pasta", Price: decimal.RequireFromString("8.99")},
		{Name: "Salad", Price: decimal.RequireFromString("5.99")},
	})
	if err != nil {
		panic(err)
	}
	return c
}

type menuFile struct {
	Items []struct {
		Name  string `yaml:"name"`
		Price string `yaml:"price"`
	} `yaml:"items"`
}

// Load reads a YAML catalog from path. An empty path selects the built-in menu.
// Prices are given as strings and parsed exactly, never through floats.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("menu: read %s: %w", path, err)
	}
	var mf menuFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("menu: parse %s: %w", path, err)
	}

	items := make([]Item, 0, len(mf.Items))
	for _, raw := range mf.Items {
		price, err := decimal.NewFromString(raw.Price)
		if err != nil {
			return nil, fmt.Errorf("menu: item %q has invalid price %q: %w", raw.Name, raw.Price, err)
		}
		items = append(items, Item{Name: raw.Name, Price: price})
	}
	return New(items)
}

// Price returns the unit price for an exact item name.
func (c *Catalog) Price(name string) (decimal.Decimal, bool) {
	price, ok := c.index[name]
	return price, ok
}

// Has reports whether the catalog contains the exact item name.
func (c *Catalog) Has(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Items returns the catalog entries in listing order.
func (c *Catalog) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.items)
}
