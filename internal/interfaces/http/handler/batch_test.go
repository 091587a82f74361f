package handler

import (
	"net/http"
	"testing"

	cultivationapp "github.com/agrotrace/backend/internal/application/cultivation"
	"github.com/agrotrace/backend/internal/domain/shared"
	"github.com/agrotrace/backend/internal/domain/shared/valueobject"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func batchRoutes(svc BatchService) func(r *gin.Engine) {
	return func(r *gin.Engine) {
		h := NewBatchHandler(svc)
		r.GET("/batches", h.List)
		r.POST("/batches", h.Create)
		r.GET("/batches/tracking/:code", h.GetByTrackingCode)
		r.GET("/batches/:id", h.GetByID)
		r.PUT("/batches/:id", h.Update)
		r.DELETE("/batches/:id", h.Delete)
	}
}

func sampleBatch() *cultivationapp.BatchResponse {
	grade := "A"
	return &cultivationapp.BatchResponse{
		ID:             3,
		Crop:           1,
		Classification: &grade,
		Packing:        "Crate",
		Quantity:       decimal.RequireFromString("40"),
		TrackingCode:   "AB12cd34EF56",
		Date:           valueobject.MustParseDate("2024-06-10"),
	}
}

const sampleBatchJSON = `{"id":3,"crop":1,"classification":"A","processing":null,"packing":"Crate","quantity":40,"trackingCode":"AB12cd34EF56","date":"2024-06-10"}`

func TestBatchHandler_List(t *testing.T) {
	svc := new(MockBatchService)
	svc.On("List", mock.Anything).Return([]cultivationapp.BatchResponse{*sampleBatch()}, nil)

	w := serve(t, batchRoutes(svc), http.MethodGet, "/batches", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "["+sampleBatchJSON+"]", w.Body.String())
}

func TestBatchHandler_GetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := new(MockBatchService)
		svc.On("GetByID", mock.Anything, int64(3)).Return(sampleBatch(), nil)

		w := serve(t, batchRoutes(svc), http.MethodGet, "/batches/3", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, sampleBatchJSON, w.Body.String())
	})

	t.Run("non-integer id", func(t *testing.T) {
		svc := new(MockBatchService)

		w := serve(t, batchRoutes(svc), http.MethodGet, "/batches/x1", "")

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestBatchHandler_GetByTrackingCode(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := new(MockBatchService)
		svc.On("GetByTrackingCode", mock.Anything, "AB12cd34EF56").Return(sampleBatch(), nil)

		w := serve(t, batchRoutes(svc), http.MethodGet, "/batches/tracking/AB12cd34EF56", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, sampleBatchJSON, w.Body.String())
	})

	t.Run("unknown code", func(t *testing.T) {
		svc := new(MockBatchService)
		svc.On("GetByTrackingCode", mock.Anything, "ZZZZZZZZZZZZ").
			Return(nil, shared.NewNotFoundError("Batch with tracking code ZZZZZZZZZZZZ not found"))

		w := serve(t, batchRoutes(svc), http.MethodGet, "/batches/tracking/ZZZZZZZZZZZZ", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"message":"Batch with tracking code ZZZZZZZZZZZZ not found"}`, w.Body.String())
	})
}

func TestBatchHandler_Create(t *testing.T) {
	t.Run("valid body", func(t *testing.T) {
		svc := new(MockBatchService)
		svc.On("Create", mock.Anything, mock.MatchedBy(func(req cultivationapp.BatchRequest) bool {
			return req.CropID != nil && *req.CropID == 1 &&
				req.Classification != nil && *req.Classification == "A" &&
				req.Processing == nil &&
				req.Packing != nil && *req.Packing == "Crate" &&
				req.Quantity != nil && req.Quantity.String() == "40" &&
				req.Date.String() == "2024-06-10"
		})).Return(sampleBatch(), nil)

		w := serve(t, batchRoutes(svc), http.MethodPost, "/batches",
			`{"cropId":1,"classification":"A","packing":"Crate","quantity":40,"date":"2024-06-10"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, sampleBatchJSON, w.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("missing crop", func(t *testing.T) {
		svc := new(MockBatchService)

		w := serve(t, batchRoutes(svc), http.MethodPost, "/batches", `{"quantity":40,"date":"2024-06-10"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "cropId")
		assert.Contains(t, w.Body.String(), "packing")
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown crop", func(t *testing.T) {
		svc := new(MockBatchService)
		svc.On("Create", mock.Anything, mock.Anything).Return(nil, shared.NewNotFoundError("Crop with ID 99 not found"))

		w := serve(t, batchRoutes(svc), http.MethodPost, "/batches", `{"cropId":99,"packing":"Crate","quantity":40,"date":"2024-06-10"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBatchHandler_Update(t *testing.T) {
	svc := new(MockBatchService)
	svc.On("Update", mock.Anything, int64(3), mock.Anything).Return(sampleBatch(), nil)

	w := serve(t, batchRoutes(svc), http.MethodPut, "/batches/3",
		`{"cropId":1,"classification":"A","packing":"Crate","quantity":40,"date":"2024-06-10"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, sampleBatchJSON, w.Body.String())
}

func TestBatchHandler_Delete(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		svc := new(MockBatchService)
		svc.On("Delete", mock.Anything, int64(3)).Return(nil)

		w := serve(t, batchRoutes(svc), http.MethodDelete, "/batches/3", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "null", w.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(MockBatchService)
		svc.On("Delete", mock.Anything, int64(4)).Return(shared.NewNotFoundError("Batch with ID 4 not found"))

		w := serve(t, batchRoutes(svc), http.MethodDelete, "/batches/4", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"message":"Batch with ID 4 not found"}`, w.Body.String())
	})
}
