package models_test

import (
	"encoding/json"
	"testing"

	"catalog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	for _, c := range models.Categories() {
		parsed, err := models.ParseCategory(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}

	_, err := models.ParseCategory("GARDEN")
	require.Error(t, err)
	assert.True(t, models.IsDataValidation(err))
}

func TestCategory_ValueAndScan(t *testing.T) {
	v, err := models.CategoryHousewares.Value()
	require.NoError(t, err)
	assert.Equal(t, "HOUSEWARES", v)

	var c models.Category
	require.NoError(t, c.Scan([]byte("FOOD")))
	assert.Equal(t, models.CategoryFood, c)

	assert.Error(t, c.Scan(12))
	assert.Error(t, c.Scan("NOPE"))

	_, err = models.Category(42).Value()
	assert.Error(t, err)
}

func TestCategory_JSON(t *testing.T) {
	b, err := json.Marshal(models.CategoryAutomotive)
	require.NoError(t, err)
	assert.JSONEq(t, `"AUTOMOTIVE"`, string(b))

	var c models.Category
	require.NoError(t, json.Unmarshal([]byte(`"TOOLS"`), &c))
	assert.Equal(t, models.CategoryTools, c)
	assert.Error(t, json.Unmarshal([]byte(`3`), &c))
}
