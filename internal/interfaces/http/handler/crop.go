package handler

import (
	"context"

	cultivationapp "github.com/agrotrace/backend/internal/application/cultivation"
	"github.com/gin-gonic/gin"
)

// CropService is the application surface used by CropHandler
type CropService interface {
	List(ctx context.Context) ([]cultivationapp.CropResponse, error)
	GetByID(ctx context.Context, id int64) (*cultivationapp.CropResponse, error)
	Create(ctx context.Context, req cultivationapp.CropRequest) (*cultivationapp.CropResponse, error)
	Update(ctx context.Context, id int64, req cultivationapp.CropRequest) (*cultivationapp.CropResponse, error)
	Delete(ctx context.Context, id int64) error
	ListBatches(ctx context.Context, id int64) ([]cultivationapp.BatchResponse, error)
}

// CropHandler handles crop endpoints
type CropHandler struct {
	BaseHandler
	cropService CropService
}

// NewCropHandler creates a new CropHandler
func NewCropHandler(cropService CropService) *CropHandler {
	return &CropHandler{cropService: cropService}
}

// List godoc
// @Summary      List crops
// @Tags         crops
// @Produce      json
// @Success      200 {array} cultivationapp.CropResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /crops [get]
func (h *CropHandler) List(c *gin.Context) {
	crops, err := h.cropService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, crops)
}

// GetByID godoc
// @Summary      Get a crop
// @Tags         crops
// @Produce      json
// @Param        id path int true "Crop ID"
// @Success      200 {object} cultivationapp.CropResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /crops/{id} [get]
func (h *CropHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	crop, err := h.cropService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, crop)
}

// Create godoc
// @Summary      Create a crop
// @Description  Harvest date, when present, must not be earlier than the planting date.
// @Tags         crops
// @Accept       json
// @Produce      json
// @Param        request body cultivationapp.CropRequest true "Crop"
// @Success      200 {object} cultivationapp.CropResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /crops [post]
func (h *CropHandler) Create(c *gin.Context) {
	var req cultivationapp.CropRequest
	if !h.BindJSON(c, &req) {
		return
	}

	crop, err := h.cropService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, crop)
}

// Update godoc
// @Summary      Update a crop
// @Description  Fails with 400 while any batch references the crop.
// @Tags         crops
// @Accept       json
// @Produce      json
// @Param        id path int true "Crop ID"
// @Param        request body cultivationapp.CropRequest true "Crop"
// @Success      200 {object} cultivationapp.CropResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /crops/{id} [put]
func (h *CropHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req cultivationapp.CropRequest
	if !h.BindJSON(c, &req) {
		return
	}

	crop, err := h.cropService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, crop)
}

// Delete godoc
// @Summary      Delete a crop
// @Description  Fails with 400 while any batch references the crop. Responds with null.
// @Tags         crops
// @Produce      json
// @Param        id path int true "Crop ID"
// @Success      200 {object} nil
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /crops/{id} [delete]
func (h *CropHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.cropService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Deleted(c)
}

// ListBatches godoc
// @Summary      List the batches of a crop
// @Tags         crops
// @Produce      json
// @Param        id path int true "Crop ID"
// @Success      200 {array} cultivationapp.BatchResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /crops/{id}/batches [get]
func (h *CropHandler) ListBatches(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	batches, err := h.cropService.ListBatches(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batches)
}
