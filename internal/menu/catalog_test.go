package menu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	assert.Equal(t, 4, c.Len())

	price, ok := c.Price("Pizza")
	require.True(t, ok)
	assert.Equal(t, "10.99", price.StringFixed(2))

	assert.True(t, c.Has("Salad"))
	assert.False(t, c.Has("Sushi"))
	assert.False(t, c.Has("pizza"), "item lookup is case sensitive")

	items := c.Items()
	require.Len(t, items, 4)
	assert.Equal(t, "Pizza", items[0].Name)
	assert.Equal(t, "Salad", items[3].Name)
}

func TestNewValidation(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New([]Item{{Name: "", Price: decimal.RequireFromString("1.00")}})
	assert.Error(t, err)

	_, err = New([]Item{{Name: "Pizza", Price: decimal.Zero}})
	assert.Error(t, err)

	_, err = New([]Item{
		{Name: "Pizza", Price: decimal.RequireFromString("10.99")},
		{Name: "Pizza", Price: decimal.RequireFromString("12.99")},
	})
	assert.Error(t, err)
}

func TestItemsReturnsCopy(t *testing.T) {
	c := Default()
	items := c.Items()
	items[0].Name = "Tampered"
	assert.Equal(t, "Pizza", c.Items()[0].Name)
}

func TestLoadEmptyPathSelectsDefault(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 4, c.Len())
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.yaml")
	data := `items:
  - name: Ramen
    price: "12.50"
  - name: Gyoza
    price: "6.00"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	price, ok := c.Price("Ramen")
	require.True(t, ok)
	assert.Equal(t, "12.50", price.StringFixed(2))
}

func TestLoadRejectsBadInput(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad-price.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("items:\n  - name: Ramen\n    price: cheap\n"), 0o600))
	_, err = Load(bad)
	assert.Error(t, err)

	free := filepath.Join(dir, "free.yaml")
	require.NoError(t, os.WriteFile(free, []byte("items:\n  - name: Ramen\n    price: \"0\"\n"), 0o600))
	_, err = Load(free)
	assert.Error(t, err)
}
