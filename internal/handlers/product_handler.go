package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
	log     *logrus.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, log *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the product routes. Reads are public; writes go
// through protect when it is not nil.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, protect fiber.Handler) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/:id", h.HandleGetProduct)

	writes := []fiber.Handler{}
	if protect != nil {
		writes = append(writes, protect)
	}
	productRoutes.Post("/", append(writes, h.HandleCreateProduct)...)
	productRoutes.Put("/:id", append(writes, h.HandleUpdateProduct)...)
	productRoutes.Delete("/:id", append(writes, h.HandleDeleteProduct)...)
}

// HandleListProducts returns all products, optionally filtered by one of
// the name, category, available or price query parameters.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	filter := services.ProductFilter{
		Name:  c.Query("name"),
		Price: c.Query("price"),
	}
	if raw := c.Query("category"); raw != "" {
		category, err := models.ParseCategory(strings.ToUpper(raw))
		if err != nil {
			return h.fail(c, err)
		}
		filter.Category = &category
	}
	if raw := c.Query("available"); raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			return h.fail(c, &models.DataValidationError{
				Message: fmt.Sprintf("Invalid attribute: available %q is not a boolean", raw),
			})
		}
		filter.Available = &available
	}

	products, err := h.service.ListProducts(c.UserContext(), filter)
	if err != nil {
		return h.fail(c, err)
	}

	out := make([]map[string]any, 0, len(products))
	for i := range products {
		out = append(out, products[i].Serialize())
	}
	return c.JSON(out)
}

// HandleGetProduct returns a single product.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return h.fail(c, err)
	}
	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(product.Serialize())
}

// HandleCreateProduct creates a product from a JSON body.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	data, ok, err := decodeJSON(c)
	if !ok {
		return err
	}
	product, err := h.service.CreateProduct(c.UserContext(), data)
	if err != nil {
		return h.fail(c, err)
	}
	c.Location(fmt.Sprintf("%s/%d", strings.TrimSuffix(c.Path(), "/"), product.ID))
	return c.Status(fiber.StatusCreated).JSON(product.Serialize())
}

// HandleUpdateProduct replaces a product with the JSON body.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return h.fail(c, err)
	}
	data, ok, err := decodeJSON(c)
	if !ok {
		return err
	}
	product, err := h.service.UpdateProduct(c.UserContext(), id, data)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(product.Serialize())
}

// HandleDeleteProduct deletes a product. Unknown ids also return 204.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return h.fail(c, err)
	}
	if err := h.service.DeleteProduct(c.UserContext(), id); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ProductHandler) fail(c *fiber.Ctx, err error) error {
	switch {
	case models.IsDataValidation(err):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product data",
			"error":   err.Error(),
		})
	case errors.Is(err, repositories.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Product with id '%s' was not found.", c.Params("id")),
		})
	default:
		h.log.WithError(err).WithField("path", c.Path()).Error("product request failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not process product request",
			"error":   err.Error(),
		})
	}
}

func productID(c *fiber.Ctx) (uint, error) {
	raw := c.Params("id")
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || id == 0 {
		return 0, &models.DataValidationError{Message: fmt.Sprintf("Invalid product id %q", raw)}
	}
	return uint(id), nil
}

// decodeJSON keeps numbers as json.Number so prices keep their exact
// decimal text. When ok is false the 415/400 response has already been
// written and err is the result of writing it.
func decodeJSON(c *fiber.Ctx) (data any, ok bool, err error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		return nil, false, c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
			"message": fmt.Sprintf("Content-Type must be %s", fiber.MIMEApplicationJSON),
		})
	}

	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.UseNumber()
	if err := dec.Decode(&data); err != nil {
		return nil, false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	return data, true, nil
}
