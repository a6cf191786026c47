package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog. A zero ID marks a draft that
// has not been created in the store yet; the store is the only source of IDs.
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string          `json:"name" gorm:"type:varchar(100);not null" validate:"required,max=100"`
	Description string          `json:"description" gorm:"type:varchar(250)" validate:"max=250"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Available   bool            `json:"available" gorm:"not null"`
	Category    Category        `json:"category" gorm:"type:varchar(32);not null;index" validate:"category"`
}

// TableName returns the table name for Product.
func (Product) TableName() string {
	return "products"
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	err := v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		c, ok := fl.Field().Interface().(Category)
		return ok && c.Valid()
	})
	if err != nil {
		panic(err)
	}
	return v
}

// Persisted reports whether the product has been assigned an ID by the store.
func (p *Product) Persisted() bool {
	return p.ID != 0
}

func (p *Product) String() string {
	if !p.Persisted() {
		return fmt.Sprintf("<Product %s id=[]>", p.Name)
	}
	return fmt.Sprintf("<Product %s id=[%d]>", p.Name, p.ID)
}

// Validate checks the field constraints enforced before a write.
func (p *Product) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return p.validatePrice()
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &DataValidationError{Message: "Invalid product: " + err.Error()}
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		switch e.Tag() {
		case "required":
			msgs = append(msgs, e.Field()+" is required")
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param()))
		case "category":
			msgs = append(msgs, fmt.Sprintf("%s %v is not a known category", e.Field(), e.Value()))
		default:
			msgs = append(msgs, e.Field()+" is invalid")
		}
	}
	return &DataValidationError{Message: "Invalid product: " + strings.Join(msgs, "; ")}
}

// maxPrice is the first value that does not fit the decimal(10,2) column.
var maxPrice = decimal.New(1, 8)

func (p *Product) validatePrice() error {
	switch {
	case p.Price.IsNegative():
		return &DataValidationError{Message: "Invalid product: price must not be negative"}
	case !p.Price.Equal(p.Price.Round(2)):
		return &DataValidationError{
			Message: fmt.Sprintf("Invalid product: price %s has more than 2 decimal places", p.Price),
		}
	case p.Price.GreaterThanOrEqual(maxPrice):
		return &DataValidationError{
			Message: fmt.Sprintf("Invalid product: price %s must be less than %s", p.Price, maxPrice),
		}
	}
	return nil
}

// Serialize converts the product into a plain map. The price is rendered as
// text so no precision is lost on the way through JSON.
func (p *Product) Serialize() map[string]any {
	var id any
	if p.Persisted() {
		id = p.ID
	}
	return map[string]any{
		"id":          id,
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price.String(),
		"available":   p.Available,
		"category":    p.Category.String(),
	}
}

// Deserialize populates the product from a map produced by Serialize or
// decoded from a JSON body. The receiver is left untouched on error. Any id
// in data is ignored.
func (p *Product) Deserialize(data any) (*Product, error) {
	m, ok := data.(map[string]any)
	if !ok {
		return nil, &DataValidationError{
			Message: fmt.Sprintf("Invalid product: body of request contained bad or no data (%T)", data),
		}
	}

	name, err := stringField(m, "name")
	if err != nil {
		return nil, err
	}
	description, err := stringField(m, "description")
	if err != nil {
		return nil, err
	}

	raw, err := requireField(m, "price")
	if err != nil {
		return nil, err
	}
	price, err := ParsePrice(raw)
	if err != nil {
		return nil, err
	}

	raw, err = requireField(m, "available")
	if err != nil {
		return nil, err
	}
	available, ok := raw.(bool)
	if !ok {
		return nil, &DataValidationError{
			Message: fmt.Sprintf("Invalid type for boolean [available]: %T", raw),
		}
	}

	catName, err := stringField(m, "category")
	if err != nil {
		return nil, err
	}
	category, err := ParseCategory(catName)
	if err != nil {
		return nil, err
	}

	p.Name = name
	p.Description = description
	p.Price = price
	p.Available = available
	p.Category = category
	return p, nil
}

func requireField(m map[string]any, key string) (any, error) {
	v, ok := m[key]
	if !ok {
		return nil, &DataValidationError{Message: "Invalid product: missing " + key}
	}
	return v, nil
}

func stringField(m map[string]any, key string) (string, error) {
	v, err := requireField(m, key)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", &DataValidationError{
			Message: fmt.Sprintf("Invalid type for string [%s]: %T", key, v),
		}
	}
	return s, nil
}
