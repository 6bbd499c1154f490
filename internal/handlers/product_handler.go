package handlers

import (
	"net/url"
	"strconv"

	"mercearia/internal/apperrors"
	"mercearia/internal/models"
	"mercearia/internal/services"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/produtos")
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/buscar/:name", h.HandleSearchProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req models.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return WriteError(c, invalidBody(err))
	}

	product, err := h.service.CreateProduct(c.UserContext(), req)
	if err != nil {
		return WriteError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleListProducts returns a page of products. limit is clamped to 1000.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	skip, err := queryInt(c, "skip", 0)
	if err != nil {
		return WriteError(c, err)
	}
	limit, err := queryInt(c, "limit", defaultListLimit)
	if err != nil {
		return WriteError(c, err)
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	products, err := h.service.ListProducts(c.UserContext(), skip, limit)
	if err != nil {
		return WriteError(c, err)
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return WriteError(c, err)
	}

	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return WriteError(c, err)
	}
	return c.JSON(product)
}

// HandleUpdateProduct applies a partial update to a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return WriteError(c, err)
	}

	var req models.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return WriteError(c, invalidBody(err))
	}

	product, err := h.service.UpdateProduct(c.UserContext(), id, req)
	if err != nil {
		return WriteError(c, err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return WriteError(c, err)
	}

	result, err := h.service.DeleteProduct(c.UserContext(), id)
	if err != nil {
		return WriteError(c, err)
	}
	return c.JSON(result)
}

// HandleSearchProducts finds products whose name contains the path term.
func (h *ProductHandler) HandleSearchProducts(c *fiber.Ctx) error {
	// Params are returned raw; decode %20 and friends.
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return WriteError(c, apperrors.InvalidArgument("name", "name must be a valid URL-encoded string"))
	}

	products, err := h.service.SearchProducts(c.UserContext(), name)
	if err != nil {
		return WriteError(c, err)
	}
	return c.JSON(products)
}

func productID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, apperrors.InvalidArgument("id", "id must be an integer")
	}
	return id, nil
}

func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.InvalidArgument(key, key+" must be an integer")
	}
	if n < 0 {
		return 0, apperrors.InvalidArgument(key, key+" must be non-negative")
	}
	return n, nil
}

func invalidBody(err error) error {
	return &apperrors.InvalidArgumentError{Violations: []apperrors.Violation{
		{Field: "body", Message: "invalid request body: " + err.Error()},
	}}
}
