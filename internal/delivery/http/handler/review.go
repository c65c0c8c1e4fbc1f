package handler

import (
	"errors"
	"net/http"

	"github.com/shopspire/backend/internal/delivery/http/request"
	"github.com/shopspire/backend/internal/delivery/http/response"
	"github.com/shopspire/backend/internal/domain"
	"github.com/shopspire/backend/internal/pkg/logger"
	"github.com/shopspire/backend/internal/pkg/validator"
	"github.com/shopspire/backend/internal/usecase/review"
)

// ReviewHandler handles HTTP requests for reviews
type ReviewHandler struct {
	service *review.Service
	logger  *logger.Logger
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(service *review.Service, log *logger.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		logger:  log,
	}
}

// CreateReviewRequest represents the request body for creating a review.
// Score bounds are enforced here, at the boundary; the store persists
// whatever integer reaches it.
type CreateReviewRequest struct {
	User    string `json:"user" validate:"required,min=1,max=100"`
	Score   int    `json:"score" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=5000"`
}

// Create handles POST /api/v1/products/{model}/reviews
// @Summary Create a review
// @Description Create a review for a product. One review per user per product; the creation date is server-assigned.
// @Tags Reviews
// @Accept json
// @Produce json
// @Param model path string true "Product model"
// @Param review body CreateReviewRequest true "Review details"
// @Success 201 {object} map[string]interface{} "Review created"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 409 {object} map[string]string "Review already exists"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products/{model}/reviews [post]
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	model, err := request.GetStringParam(r, "model")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product model")
		return
	}

	var req CreateReviewRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validator.Get().Struct(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if err := h.service.AddReview(r.Context(), model, req.User, req.Score, req.Comment); err != nil {
		h.handleError(w, err)
		return
	}

	response.Created(w, map[string]string{
		"model": model,
		"user":  req.User,
	})
}

// GetByModel handles GET /api/v1/products/{model}/reviews
// @Summary List reviews for a product
// @Description Get all reviews for a product. Results are cached.
// @Tags Reviews
// @Produce json
// @Param model path string true "Product model"
// @Success 200 {object} map[string]interface{} "List of reviews"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products/{model}/reviews [get]
func (h *ReviewHandler) GetByModel(w http.ResponseWriter, r *http.Request) {
	model, err := request.GetStringParam(r, "model")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product model")
		return
	}

	reviews, err := h.service.GetProductReviews(r.Context(), model)
	if err != nil {
		h.handleError(w, err)
		return
	}

	if reviews == nil {
		reviews = []*domain.Review{}
	}

	response.Success(w, reviews)
}

// Delete handles DELETE /api/v1/products/{model}/reviews/{user}
// @Summary Delete a review
// @Description Delete one user's review of a product.
// @Tags Reviews
// @Produce json
// @Param model path string true "Product model"
// @Param user path string true "Reviewing user"
// @Success 204 "Review deleted"
// @Failure 404 {object} map[string]string "Product or review not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products/{model}/reviews/{user} [delete]
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	model, err := request.GetStringParam(r, "model")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product model")
		return
	}

	user, err := request.GetStringParam(r, "user")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid user")
		return
	}

	if err := h.service.DeleteReview(r.Context(), model, user); err != nil {
		h.handleError(w, err)
		return
	}

	response.NoContent(w)
}

// DeleteByModel handles DELETE /api/v1/products/{model}/reviews
// @Summary Delete all reviews for a product
// @Description Delete every review of a product. A product with no reviews deletes trivially.
// @Tags Reviews
// @Produce json
// @Param model path string true "Product model"
// @Success 204 "Reviews deleted"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products/{model}/reviews [delete]
func (h *ReviewHandler) DeleteByModel(w http.ResponseWriter, r *http.Request) {
	model, err := request.GetStringParam(r, "model")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product model")
		return
	}

	if err := h.service.DeleteReviewsOfProduct(r.Context(), model); err != nil {
		h.handleError(w, err)
		return
	}

	response.NoContent(w)
}

// DeleteAll handles DELETE /api/v1/reviews
// @Summary Delete all reviews
// @Description Delete every review in the store. Admin only.
// @Tags Reviews
// @Produce json
// @Security BearerAuth
// @Success 204 "Reviews deleted"
// @Failure 401 {object} map[string]string "Missing or invalid token"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /reviews [delete]
func (h *ReviewHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteAllReviews(r.Context()); err != nil {
		h.handleError(w, err)
		return
	}

	response.NoContent(w)
}

// handleError maps service layer errors to HTTP responses
func (h *ReviewHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		response.Error(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, domain.ErrNoReviewForProduct):
		response.Error(w, http.StatusNotFound, "Review not found")
	case errors.Is(err, domain.ErrExistingReview):
		response.Error(w, http.StatusConflict, "Review already exists for this product and user")
	case errors.Is(err, domain.ErrInvalidInput):
		response.Error(w, http.StatusBadRequest, "Invalid input")
	default:
		h.logger.Error("Internal error in review handler", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
