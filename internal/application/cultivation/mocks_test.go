package cultivation

import (
	"context"
	"sync"

	"github.com/agrotrace/backend/internal/domain/cultivation"
	"github.com/stretchr/testify/mock"
)

type MockCropRepository struct {
	mock.Mock
}

func (m *MockCropRepository) FindAll(ctx context.Context) ([]cultivation.Crop, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cultivation.Crop), args.Error(1)
}

func (m *MockCropRepository) FindByID(ctx context.Context, id int64) (*cultivation.Crop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cultivation.Crop), args.Error(1)
}

func (m *MockCropRepository) Create(ctx context.Context, crop *cultivation.Crop) error {
	args := m.Called(ctx, crop)
	return args.Error(0)
}

func (m *MockCropRepository) Update(ctx context.Context, crop *cultivation.Crop) error {
	args := m.Called(ctx, crop)
	return args.Error(0)
}

func (m *MockCropRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockBatchRepository struct {
	mock.Mock
}

func (m *MockBatchRepository) ExistsByTrackingCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockBatchRepository) FindAll(ctx context.Context) ([]cultivation.Batch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cultivation.Batch), args.Error(1)
}

func (m *MockBatchRepository) FindByID(ctx context.Context, id int64) (*cultivation.Batch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cultivation.Batch), args.Error(1)
}

func (m *MockBatchRepository) FindByTrackingCode(ctx context.Context, code string) (*cultivation.Batch, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cultivation.Batch), args.Error(1)
}

func (m *MockBatchRepository) FindByCropID(ctx context.Context, cropID int64) ([]cultivation.Batch, error) {
	args := m.Called(ctx, cropID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cultivation.Batch), args.Error(1)
}

func (m *MockBatchRepository) CountByCropID(ctx context.Context, cropID int64) (int64, error) {
	args := m.Called(ctx, cropID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBatchRepository) Create(ctx context.Context, batch *cultivation.Batch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockBatchRepository) Update(ctx context.Context, batch *cultivation.Batch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockBatchRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCropUsageChecker struct {
	mock.Mock
}

func (m *MockCropUsageChecker) IsCropInUse(ctx context.Context, cropID int64) (bool, error) {
	args := m.Called(ctx, cropID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCropUsageChecker) ListByCropID(ctx context.Context, cropID int64) ([]BatchResponse, error) {
	args := m.Called(ctx, cropID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]BatchResponse), args.Error(1)
}

// recordingLocker grants every lock and remembers the keys it was asked for
type recordingLocker struct {
	mu       sync.Mutex
	keys     []string
	released int
	err      error
}

func (l *recordingLocker) Lock(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	l.keys = append(l.keys, key)
	return func() {
		l.mu.Lock()
		l.released++
		l.mu.Unlock()
	}, nil
}

type recordingMetrics struct {
	created    int
	attempts   []int
	exhausted  int
	rejections []string
}

func (m *recordingMetrics) BatchCreated(context.Context) { m.created++ }
func (m *recordingMetrics) TrackingCodeGenerated(_ context.Context, attempts int) {
	m.attempts = append(m.attempts, attempts)
}
func (m *recordingMetrics) TrackingCodeExhausted(context.Context) { m.exhausted++ }
func (m *recordingMetrics) CropInUseRejected(_ context.Context, op string) {
	m.rejections = append(m.rejections, op)
}
