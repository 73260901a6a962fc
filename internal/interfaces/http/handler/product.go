package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/opencrm/backend/internal/application/catalog"
)

// ProductHandler handles product-related API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// RegisterRoutes registers product routes on the given group
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	products.POST("", h.Create)
	products.GET("", h.List)
	products.GET("/:id", h.GetByID)
	products.PUT("/:id", h.Update)
	products.DELETE("/:id", h.Delete)
}

// Create godoc
// @ID           createProduct
// @Summary      Create a new product
// @Description  Create a new product with a positive price
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateProductRequest true "Product creation request"
// @Success      201 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.CreatedWithMessage(c, product, "Product created successfully")
}

// GetByID godoc
// @ID           getProductById
// @Summary      Get product by ID
// @Description  Retrieve a product by its ID
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, product)
}

// List godoc
// @ID           listProducts
// @Summary      List products
// @Description  Retrieve a paginated list of products with optional search
// @Tags         products
// @Produce      json
// @Param        search query string false "Search term (name)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(created_at)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	products, total, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateProduct
// @Summary      Update a product
// @Description  Update an existing product's name, price, or stock
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.UpdateProductRequest true "Product update request"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req catalogapp.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.productService.Update(c.Request.Context(), productID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, product)
}

// Delete godoc
// @ID           deleteProduct
// @Summary      Delete a product
// @Description  Delete a product by ID
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	if err := h.productService.Delete(c.Request.Context(), productID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
