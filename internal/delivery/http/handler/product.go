package handler

import (
	"errors"
	"net/http"

	"github.com/shopspire/backend/internal/delivery/http/request"
	"github.com/shopspire/backend/internal/delivery/http/response"
	"github.com/shopspire/backend/internal/domain"
	"github.com/shopspire/backend/internal/pkg/logger"
	"github.com/shopspire/backend/internal/usecase/product"
)

// ProductHandler handles HTTP requests for the catalog
type ProductHandler struct {
	service *product.Service
	logger  *logger.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *product.Service, log *logger.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  log,
	}
}

// CreateProductRequest represents the request body for creating a product
type CreateProductRequest struct {
	Model       string  `json:"model" validate:"required,min=1,max=255"`
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	Description *string `json:"description,omitempty"`
	Price       float64 `json:"price" validate:"required,gte=0"`
}

// Create handles POST /api/v1/products
// @Summary Create a product
// @Description Add a product to the catalog. The model string must be unique.
// @Tags Products
// @Accept json
// @Produce json
// @Param product body CreateProductRequest true "Product details"
// @Success 201 {object} map[string]interface{} "Product created"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 409 {object} map[string]string "Model already exists"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products [post]
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product := &domain.Product{
		Model:       req.Model,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	}

	if err := h.service.Create(r.Context(), product); err != nil {
		h.handleError(w, err)
		return
	}

	response.Created(w, product)
}

// GetByModel handles GET /api/v1/products/{model}
// @Summary Get a product
// @Description Get a single catalog entry by model.
// @Tags Products
// @Produce json
// @Param model path string true "Product model"
// @Success 200 {object} map[string]interface{} "Product"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products/{model} [get]
func (h *ProductHandler) GetByModel(w http.ResponseWriter, r *http.Request) {
	model, err := request.GetStringParam(r, "model")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product model")
		return
	}

	product, err := h.service.GetByModel(r.Context(), model)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, product)
}

// List handles GET /api/v1/products
// @Summary List products
// @Description Get a paginated list of catalog entries.
// @Tags Products
// @Produce json
// @Param limit query int false "Number of items per page (max 100)" default(20)
// @Param offset query int false "Number of items to skip" default(0)
// @Success 200 {object} map[string]interface{} "Paginated list of products"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products [get]
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := request.GetPaginationParams(r)

	products, total, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Paginated(w, products, total, limit, offset)
}

// Delete handles DELETE /api/v1/products/{model}
// @Summary Delete a product
// @Description Remove a product and all of its reviews from the store.
// @Tags Products
// @Produce json
// @Param model path string true "Product model"
// @Success 204 "Product deleted"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products/{model} [delete]
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	model, err := request.GetStringParam(r, "model")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product model")
		return
	}

	if err := h.service.Delete(r.Context(), model); err != nil {
		h.handleError(w, err)
		return
	}

	response.NoContent(w)
}

// handleError maps service layer errors to HTTP responses
func (h *ProductHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		response.Error(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, domain.ErrExistingProduct):
		response.Error(w, http.StatusConflict, "Product model already exists")
	case errors.Is(err, domain.ErrInvalidInput):
		response.Error(w, http.StatusBadRequest, "Invalid input")
	default:
		h.logger.Error("Internal error in product handler", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
