package valueobject

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Run("valid date", func(t *testing.T) {
		d, err := ParseDate("2024-03-01")
		require.NoError(t, err)
		assert.Equal(t, NewDate(2024, time.March, 1), d)
		assert.Equal(t, "2024-03-01", d.String())
		assert.Equal(t, "01/03/2024", d.Display())
	})

	t.Run("rejects other layouts", func(t *testing.T) {
		for _, s := range []string{"01/03/2024", "2024-3-1", "2024-02-30", ""} {
			_, err := ParseDate(s)
			assert.Error(t, err, s)
		}
	})
}

func TestDateOf(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*60*60)
	ts := time.Date(2024, time.January, 31, 23, 30, 0, 0, loc)

	assert.Equal(t, NewDate(2024, time.January, 31), DateOf(ts))
	assert.True(t, DateOf(time.Time{}).IsZero())
}

func TestDate_Comparisons(t *testing.T) {
	a := MustParseDate("2024-01-01")
	b := MustParseDate("2024-01-10")

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.True(t, a.Equal(MustParseDate("2024-01-01")))
	assert.Equal(t, b, a.AddDays(9))
	assert.False(t, Today().IsFuture())
	assert.True(t, Today().AddDays(1).IsFuture())
}

func TestDate_JSON(t *testing.T) {
	type payload struct {
		Date     Date  `json:"date"`
		Optional *Date `json:"optional"`
	}

	t.Run("round trip", func(t *testing.T) {
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-05-06","optional":null}`), &p))
		assert.Equal(t, NewDate(2024, time.May, 6), p.Date)
		assert.Nil(t, p.Optional)

		out, err := json.Marshal(p)
		require.NoError(t, err)
		assert.JSONEq(t, `{"date":"2024-05-06","optional":null}`, string(out))
	})

	t.Run("invalid value", func(t *testing.T) {
		var p payload
		assert.Error(t, json.Unmarshal([]byte(`{"date":"06/05/2024"}`), &p))
		assert.Error(t, json.Unmarshal([]byte(`{"date":20240506}`), &p))
	})
}
