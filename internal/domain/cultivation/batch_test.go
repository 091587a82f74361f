package cultivation

import (
	"errors"
	"strings"
	"testing"

	"github.com/agrotrace/backend/internal/domain/shared"
	"github.com/agrotrace/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func testCrop() Crop {
	return Crop{
		ID:          1,
		Name:        "North field",
		Area:        decimal.NewFromInt(10),
		Cultivation: "Soy",
		PlantedAt:   valueobject.MustParseDate("2024-03-01"),
	}
}

func TestNewBatch(t *testing.T) {
	date := valueobject.MustParseDate("2024-04-01")

	t.Run("creates batch without tracking code", func(t *testing.T) {
		batch, err := NewBatch(testCrop(), strPtr("A"), nil, "Box", decimal.NewFromInt(100), date)

		require.NoError(t, err)
		assert.Equal(t, int64(1), batch.CropID())
		assert.Equal(t, "A", *batch.Classification)
		assert.Nil(t, batch.Processing)
		assert.Equal(t, "Box", batch.Packing)
		assert.Empty(t, batch.TrackingCode)
		assert.Equal(t, date, batch.Date)
	})

	tests := []struct {
		name           string
		classification *string
		processing     *string
		packing        string
		quantity       decimal.Decimal
		date           valueobject.Date
	}{
		{"classification too long", strPtr(strings.Repeat("x", 256)), nil, "Box", decimal.Zero, date},
		{"processing too long", nil, strPtr(strings.Repeat("x", 256)), "Box", decimal.Zero, date},
		{"packing too long", nil, nil, strings.Repeat("x", 256), decimal.Zero, date},
		{"negative quantity", nil, nil, "Box", decimal.NewFromFloat(-0.5), date},
		{"future date", nil, nil, "Box", decimal.Zero, valueobject.Today().AddDays(1)},
		{"missing date", nil, nil, "Box", decimal.Zero, valueobject.Date{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch, err := NewBatch(testCrop(), tt.classification, tt.processing, tt.packing, tt.quantity, tt.date)

			assert.Nil(t, batch)
			assert.True(t, errors.Is(err, shared.ErrValidation))
		})
	}
}

func TestBatch_CheckDate(t *testing.T) {
	t.Run("before planting", func(t *testing.T) {
		batch := &Batch{Crop: testCrop(), Date: valueobject.MustParseDate("2024-02-28")}

		err := batch.CheckDate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrBadRequest))
		assert.Contains(t, err.Error(), "28/02/2024")
		assert.Contains(t, err.Error(), "01/03/2024")
	})

	t.Run("on planting day", func(t *testing.T) {
		batch := &Batch{Crop: testCrop(), Date: valueobject.MustParseDate("2024-03-01")}
		assert.NoError(t, batch.CheckDate())
	})
}

func TestBatch_AssignTrackingCode(t *testing.T) {
	t.Run("assigns valid code once", func(t *testing.T) {
		batch := &Batch{}
		require.NoError(t, batch.AssignTrackingCode("AbCdEf123456"))
		assert.Equal(t, "AbCdEf123456", batch.TrackingCode)

		err := batch.AssignTrackingCode("ZZZZZZZZZZZZ")
		assert.True(t, errors.Is(err, shared.ErrBadRequest))
		assert.Equal(t, "AbCdEf123456", batch.TrackingCode)
	})

	t.Run("rejects malformed code", func(t *testing.T) {
		batch := &Batch{}
		assert.Error(t, batch.AssignTrackingCode("short"))
		assert.Error(t, batch.AssignTrackingCode("ABCDEF-12345"))
		assert.Empty(t, batch.TrackingCode)
	})
}
