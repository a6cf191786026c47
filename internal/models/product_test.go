package models_test

import (
	"encoding/json"
	"testing"

	"catalog/internal/factories"
	"catalog/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduct_NewDraft(t *testing.T) {
	product := &models.Product{
		Name:        "Fedora",
		Description: "A red hat",
		Price:       decimal.RequireFromString("12.50"),
		Available:   true,
		Category:    models.CategoryCloths,
	}

	assert.Equal(t, "<Product Fedora id=[]>", product.String())
	assert.False(t, product.Persisted())
	assert.Equal(t, uint(0), product.ID)
	assert.Equal(t, "Fedora", product.Name)
	assert.Equal(t, "A red hat", product.Description)
	assert.True(t, product.Available)
	assert.True(t, product.Price.Equal(decimal.NewFromFloat(12.5)))
	assert.Equal(t, models.CategoryCloths, product.Category)

	product.ID = 7
	assert.Equal(t, "<Product Fedora id=[7]>", product.String())
}

func TestProduct_Serialize(t *testing.T) {
	product := factories.NewProduct()

	serialized := product.Serialize()
	assert.Nil(t, serialized["id"])
	assert.Equal(t, product.Name, serialized["name"])
	assert.Equal(t, product.Description, serialized["description"])
	assert.Equal(t, product.Available, serialized["available"])
	assert.Equal(t, product.Category.String(), serialized["category"])

	price, ok := serialized["price"].(string)
	require.True(t, ok, "price should serialize as text")
	assert.True(t, decimal.RequireFromString(price).Equal(product.Price))

	product.ID = 3
	assert.Equal(t, uint(3), product.Serialize()["id"])
}

func TestProduct_DeserializeRoundTrip(t *testing.T) {
	original := factories.NewProduct()

	product, err := (&models.Product{}).Deserialize(original.Serialize())
	require.NoError(t, err)

	assert.False(t, product.Persisted())
	assert.Equal(t, original.Name, product.Name)
	assert.Equal(t, original.Description, product.Description)
	assert.True(t, original.Price.Equal(product.Price))
	assert.Equal(t, original.Available, product.Available)
	assert.Equal(t, original.Category, product.Category)
}

func TestProduct_DeserializeFromJSON(t *testing.T) {
	body := []byte(`{"name":"Hammer","description":"Claw","price":19.99,"available":false,"category":"TOOLS"}`)
	var data any
	require.NoError(t, json.Unmarshal(body, &data))

	product, err := (&models.Product{}).Deserialize(data)
	require.NoError(t, err)
	assert.Equal(t, "Hammer", product.Name)
	assert.True(t, product.Price.Equal(decimal.RequireFromString("19.99")))
	assert.False(t, product.Available)
	assert.Equal(t, models.CategoryTools, product.Category)
}

func TestProduct_DeserializeReturnsReceiver(t *testing.T) {
	product := &models.Product{}
	got, err := product.Deserialize(factories.NewProduct().Serialize())
	require.NoError(t, err)
	assert.Same(t, product, got)
}

func TestProduct_DeserializeErrors(t *testing.T) {
	valid := func() map[string]any {
		return map[string]any{
			"name":        "Shirt",
			"description": "Plain",
			"price":       "9.99",
			"available":   true,
			"category":    "CLOTHS",
		}
	}

	tests := []struct {
		name   string
		data   any
		substr string
	}{
		{"not a bool", with(valid(), "available", "TOTALLY REAL BOOL"), "boolean"},
		{"bool as int", with(valid(), "available", 1), "boolean"},
		{"unknown category", with(valid(), "category", "WEAPONS"), "category"},
		{"lower case category", with(valid(), "category", "tools"), "category"},
		{"bad price", with(valid(), "price", "apple"), "price"},
		{"price wrong type", with(valid(), "price", []int{1}), "price"},
		{"missing name", without(valid(), "name"), "missing name"},
		{"missing available", without(valid(), "available"), "missing available"},
		{"name not string", with(valid(), "name", 42), "name"},
		{"list", []any{}, "bad or no data"},
		{"nil", nil, "bad or no data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product := &models.Product{Name: "Untouched"}
			got, err := product.Deserialize(tt.data)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.True(t, models.IsDataValidation(err))
			assert.Contains(t, err.Error(), tt.substr)
			assert.Equal(t, "Untouched", product.Name)
		})
	}
}

func TestProduct_Validate(t *testing.T) {
	assert.NoError(t, factories.NewProduct().Validate())

	product := factories.NewProduct()
	product.Name = ""
	err := product.Validate()
	require.Error(t, err)
	assert.True(t, models.IsDataValidation(err))
	assert.Contains(t, err.Error(), "name is required")

	product = factories.NewProduct()
	product.Category = models.Category(99)
	err = product.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "category")

	product = factories.NewProduct()
	product.Price = decimal.NewFromInt(-1)
	assert.Error(t, product.Validate())
}

func TestProduct_ValidatePrice(t *testing.T) {
	tests := []struct {
		price  string
		substr string
	}{
		{"0", ""},
		{"12.5", ""},
		{"12.500", ""},
		{"99999999.99", ""},
		{"-0.01", "must not be negative"},
		{"12.345", "more than 2 decimal places"},
		{"100000000", "must be less than"},
	}

	for _, tt := range tests {
		t.Run(tt.price, func(t *testing.T) {
			product := factories.NewProduct()
			product.Price = decimal.RequireFromString(tt.price)

			err := product.Validate()
			if tt.substr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, models.IsDataValidation(err))
			assert.Contains(t, err.Error(), tt.substr)
		})
	}
}

func with(m map[string]any, key string, v any) map[string]any {
	m[key] = v
	return m
}

func without(m map[string]any, key string) map[string]any {
	delete(m, key)
	return m
}
