package catalog

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Len(t, c.TimeSlots, 8)
	assert.Len(t, c.ServiceTypes, 8)
	assert.Len(t, c.Contacts, 2)
}

func TestModelsForKeepsLookupOrder(t *testing.T) {
	c := Default()
	assert.Equal(t, []string{"Swift", "Baleno", "Dzire", "Brezza"}, c.ModelsFor("Maruti"))
	assert.Nil(t, c.ModelsFor(""))
	assert.Empty(t, c.ModelsFor("Ferrari"))
}

func TestFuelTypesForAlwaysOffersCNG(t *testing.T) {
	c := Default()
	assert.Equal(t, []FuelType{FuelPetrol, FuelDiesel, FuelCNG}, c.FuelTypesFor("Honda", "City"))
	assert.Equal(t, []FuelType{FuelPetrol, FuelCNG}, c.FuelTypesFor("Maruti", "Swift"))
	assert.Equal(t, []FuelType{FuelCNG}, c.FuelTypesFor("Honda", "Civic"))
	assert.Nil(t, c.FuelTypesFor("Honda", ""))
}

func TestLookups(t *testing.T) {
	c := Default()

	cat, ok := c.Category("battery")
	require.True(t, ok)
	item, ok := cat.Item("bat-check")
	require.True(t, ok)
	assert.Equal(t, 499, item.Price)

	_, ok = cat.Item("svc-basic")
	assert.False(t, ok, "items are scoped to their category")

	_, ok = c.Category("nope")
	assert.False(t, ok)

	item, ok = c.Item("ac", "ac-gas")
	require.True(t, ok)
	assert.Equal(t, 2299, item.Price)
	_, ok = c.Item("nope", "ac-gas")
	assert.False(t, ok)

	st, ok := c.ServiceType("ac")
	require.True(t, ok)
	assert.Equal(t, "AC Service", st.Name)

	assert.True(t, c.HasSlot("12:00 PM"))
	assert.False(t, c.HasSlot("01:00 PM"))
	assert.True(t, c.HasBrand("Tata"))
	assert.False(t, c.HasBrand("tata"))
}

func TestLoad(t *testing.T) {
	t.Run("empty path uses defaults", func(t *testing.T) {
		c, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default().Brands, c.Brands)
	})

	t.Run("reads json file", func(t *testing.T) {
		src := Default()
		src.Brands = []string{"Kia"}
		data, err := json.Marshal(src)
		require.NoError(t, err)
		path := filepath.Join(t.TempDir(), "catalog.json")
		require.NoError(t, os.WriteFile(path, data, 0o600))

		c, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"Kia"}, c.Brands)
	})

	t.Run("rejects incomplete data", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"brands":["Kia"]}`), 0o600))

		_, err := Load(path)
		assert.True(t, errors.Is(err, ErrEmptyCatalog))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
		assert.Error(t, err)
	})
}
