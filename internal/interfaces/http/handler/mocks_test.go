package handler

import (
	"context"

	cultivationapp "github.com/agrotrace/backend/internal/application/cultivation"
	"github.com/agrotrace/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/mock"
)

type MockCropService struct {
	mock.Mock
}

func (m *MockCropService) List(ctx context.Context) ([]cultivationapp.CropResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cultivationapp.CropResponse), args.Error(1)
}

func (m *MockCropService) GetByID(ctx context.Context, id int64) (*cultivationapp.CropResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cultivationapp.CropResponse), args.Error(1)
}

func (m *MockCropService) Create(ctx context.Context, req cultivationapp.CropRequest) (*cultivationapp.CropResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cultivationapp.CropResponse), args.Error(1)
}

func (m *MockCropService) Update(ctx context.Context, id int64, req cultivationapp.CropRequest) (*cultivationapp.CropResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cultivationapp.CropResponse), args.Error(1)
}

func (m *MockCropService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCropService) ListBatches(ctx context.Context, id int64) ([]cultivationapp.BatchResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cultivationapp.BatchResponse), args.Error(1)
}

type MockBatchService struct {
	mock.Mock
}

func (m *MockBatchService) List(ctx context.Context) ([]cultivationapp.BatchResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cultivationapp.BatchResponse), args.Error(1)
}

func (m *MockBatchService) GetByID(ctx context.Context, id int64) (*cultivationapp.BatchResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cultivationapp.BatchResponse), args.Error(1)
}

func (m *MockBatchService) GetByTrackingCode(ctx context.Context, code string) (*cultivationapp.BatchResponse, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cultivationapp.BatchResponse), args.Error(1)
}

func (m *MockBatchService) Create(ctx context.Context, req cultivationapp.BatchRequest) (*cultivationapp.BatchResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cultivationapp.BatchResponse), args.Error(1)
}

func (m *MockBatchService) Update(ctx context.Context, id int64, req cultivationapp.BatchRequest) (*cultivationapp.BatchResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cultivationapp.BatchResponse), args.Error(1)
}

func (m *MockBatchService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockDatabaseHealth struct {
	mock.Mock
}

func (m *MockDatabaseHealth) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockDatabaseHealth) Stats() (persistence.ConnectionStats, error) {
	args := m.Called()
	return args.Get(0).(persistence.ConnectionStats), args.Error(1)
}

var (
	_ CropService    = (*MockCropService)(nil)
	_ BatchService   = (*MockBatchService)(nil)
	_ DatabaseHealth = (*MockDatabaseHealth)(nil)
)
