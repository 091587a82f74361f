package handler

import (
	"context"

	cultivationapp "github.com/agrotrace/backend/internal/application/cultivation"
	"github.com/gin-gonic/gin"
)

// BatchService is the application surface used by BatchHandler
type BatchService interface {
	List(ctx context.Context) ([]cultivationapp.BatchResponse, error)
	GetByID(ctx context.Context, id int64) (*cultivationapp.BatchResponse, error)
	GetByTrackingCode(ctx context.Context, code string) (*cultivationapp.BatchResponse, error)
	Create(ctx context.Context, req cultivationapp.BatchRequest) (*cultivationapp.BatchResponse, error)
	Update(ctx context.Context, id int64, req cultivationapp.BatchRequest) (*cultivationapp.BatchResponse, error)
	Delete(ctx context.Context, id int64) error
}

// BatchHandler handles batch endpoints
type BatchHandler struct {
	BaseHandler
	batchService BatchService
}

// NewBatchHandler creates a new BatchHandler
func NewBatchHandler(batchService BatchService) *BatchHandler {
	return &BatchHandler{batchService: batchService}
}

// List godoc
// @Summary      List batches
// @Tags         batches
// @Produce      json
// @Success      200 {array} cultivationapp.BatchResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /batches [get]
func (h *BatchHandler) List(c *gin.Context) {
	batches, err := h.batchService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batches)
}

// GetByID godoc
// @Summary      Get a batch
// @Tags         batches
// @Produce      json
// @Param        id path int true "Batch ID"
// @Success      200 {object} cultivationapp.BatchResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /batches/{id} [get]
func (h *BatchHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	batch, err := h.batchService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batch)
}

// GetByTrackingCode godoc
// @Summary      Get a batch by tracking code
// @Tags         batches
// @Produce      json
// @Param        code path string true "Tracking code"
// @Success      200 {object} cultivationapp.BatchResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /batches/tracking/{code} [get]
func (h *BatchHandler) GetByTrackingCode(c *gin.Context) {
	batch, err := h.batchService.GetByTrackingCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batch)
}

// Create godoc
// @Summary      Create a batch
// @Description  Assigns a fresh 12-character tracking code. The batch date must not be earlier than the crop planting date.
// @Tags         batches
// @Accept       json
// @Produce      json
// @Param        request body cultivationapp.BatchRequest true "Batch"
// @Success      200 {object} cultivationapp.BatchResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /batches [post]
func (h *BatchHandler) Create(c *gin.Context) {
	var req cultivationapp.BatchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	batch, err := h.batchService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batch)
}

// Update godoc
// @Summary      Update a batch
// @Description  The tracking code is kept.
// @Tags         batches
// @Accept       json
// @Produce      json
// @Param        id path int true "Batch ID"
// @Param        request body cultivationapp.BatchRequest true "Batch"
// @Success      200 {object} cultivationapp.BatchResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /batches/{id} [put]
func (h *BatchHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req cultivationapp.BatchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	batch, err := h.batchService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batch)
}

// Delete godoc
// @Summary      Delete a batch
// @Description  Responds with null.
// @Tags         batches
// @Produce      json
// @Param        id path int true "Batch ID"
// @Success      200 {object} nil
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /batches/{id} [delete]
func (h *BatchHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.batchService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Deleted(c)
}
