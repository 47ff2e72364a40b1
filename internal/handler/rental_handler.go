package handler

import (
	"strconv"

	"github.com/antarakost/service-rental/internal/application"
	"github.com/antarakost/service-rental/internal/domain/rental"
	"github.com/antarakost/service-rental/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RentalHandler handles HTTP requests for rental lifecycle operations.
type RentalHandler struct {
	service *application.RentalService
}

// NewRentalHandler creates a new RentalHandler.
func NewRentalHandler(service *application.RentalService) *RentalHandler {
	return &RentalHandler{service: service}
}

// RegisterRoutes registers all rental routes on the given router group.
func (h *RentalHandler) RegisterRoutes(r *gin.RouterGroup) {
	rentals := r.Group("/api/v1/rentals")
	{
		rentals.POST("", h.CreateRental)
		rentals.GET("", h.ListRentals)
		rentals.GET("/stats", h.GetStats)
		rentals.GET("/:id", h.GetRental)
		rentals.POST("/:id/transition/:action", h.Transition)
		rentals.PATCH("/:id", h.EditFields)
		rentals.GET("/:id/fields/:field/missing", h.FieldMissing)
		rentals.DELETE("/:id", h.DeleteRental)
	}
}

// CreateRental handles POST /api/v1/rentals.
func (h *RentalHandler) CreateRental(c *gin.Context) {
	var req application.CreateRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateRental(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// ListRentals handles GET /api/v1/rentals.
func (h *RentalHandler) ListRentals(c *gin.Context) {
	page, limit := parsePagination(c)

	items, total, err := h.service.ListRentals(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, items, total, page, limit)
}

// GetStats handles GET /api/v1/rentals/stats.
func (h *RentalHandler) GetStats(c *gin.Context) {
	result, err := h.service.GetRentalStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetRental handles GET /api/v1/rentals/:id.
func (h *RentalHandler) GetRental(c *gin.Context) {
	rentalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid rental ID")
		return
	}

	result, err := h.service.GetRental(c.Request.Context(), rentalID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Transition handles POST /api/v1/rentals/:id/transition/:action. The
// action is one of approve, reject, cancel or reactivate. A gated approval
// that fails validation comes back 200 with success=false and the
// missing-field labels.
func (h *RentalHandler) Transition(c *gin.Context) {
	rentalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid rental ID")
		return
	}

	action, err := application.ParseTransitionAction(c.Param("action"))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Transition(c.Request.Context(), rentalID, action)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// EditFields handles PATCH /api/v1/rentals/:id.
func (h *RentalHandler) EditFields(c *gin.Context) {
	rentalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid rental ID")
		return
	}

	var patch rental.EditPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.EditFields(c.Request.Context(), rentalID, patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// FieldMissing handles GET /api/v1/rentals/:id/fields/:field/missing, for
// live per-field completeness indicators in the back office.
func (h *RentalHandler) FieldMissing(c *gin.Context) {
	rentalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid rental ID")
		return
	}

	field := rental.Field(c.Param("field"))
	missing, err := h.service.IsFieldMissing(c.Request.Context(), rentalID, field)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"field": field, "missing": missing})
}

// DeleteRental handles DELETE /api/v1/rentals/:id.
func (h *RentalHandler) DeleteRental(c *gin.Context) {
	rentalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid rental ID")
		return
	}

	if err := h.service.DeleteRental(c.Request.Context(), rentalID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// parsePagination extracts page and limit query parameters with defaults.
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
