// Package factories builds randomized, valid catalog records for tests.
package factories

import (
	"fmt"
	"math/rand/v2"

	"catalog/internal/models"

	"github.com/shopspring/decimal"
)

var productNames = []string{
	"Hat", "Pants", "Shirt", "Apple", "Banana", "Pots",
	"Towels", "Ford", "Chevy", "Hammer", "Wrench",
}

var adjectives = []string{
	"sturdy", "bright", "soft", "classic", "compact", "fresh", "heavy", "light",
}

// NewProduct returns a draft product with random field values.
func NewProduct() *models.Product {
	cats := models.Categories()
	cents := 50 + rand.IntN(200000-50)
	return &models.Product{
		Name:        productNames[rand.IntN(len(productNames))],
		Description: fmt.Sprintf("A %s item, lot %d", adjectives[rand.IntN(len(adjectives))], rand.IntN(10000)),
		Price:       decimal.New(int64(cents), -2),
		Available:   rand.IntN(2) == 1,
		Category:    cats[rand.IntN(len(cats))],
	}
}

// NewProducts returns n draft products.
func NewProducts(n int) []*models.Product {
	out := make([]*models.Product, n)
	for i := range out {
		out[i] = NewProduct()
	}
	return out
}
