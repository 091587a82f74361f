package cultivation

import (
	"context"
	"errors"
	"testing"

	"github.com/agrotrace/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	taken map[string]bool
	calls int
	err   error
}

func (s *stubChecker) ExistsByTrackingCode(_ context.Context, code string) (bool, error) {
	s.calls++
	if s.err != nil {
		return false, s.err
	}
	return s.taken[code], nil
}

type alwaysTaken struct{ calls int }

func (a *alwaysTaken) ExistsByTrackingCode(context.Context, string) (bool, error) {
	a.calls++
	return true, nil
}

func TestNewTrackingCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		code, err := NewTrackingCode()
		require.NoError(t, err)
		assert.Len(t, code, TrackingCodeLength)
		assert.True(t, IsValidTrackingCode(code), code)
		seen[code] = true
	}
	assert.Len(t, seen, 1000)
}

func TestIsValidTrackingCode(t *testing.T) {
	assert.True(t, IsValidTrackingCode("abcXYZ012789"))
	assert.False(t, IsValidTrackingCode("abcXYZ01278"))
	assert.False(t, IsValidTrackingCode("abcXYZ0127890"))
	assert.False(t, IsValidTrackingCode("abcXYZ01278_"))
	assert.False(t, IsValidTrackingCode("abcXYZ01278é"))
}

func TestTrackingCodeGenerator_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("returns first unused candidate", func(t *testing.T) {
		candidates := []string{"AAAAAAAAAAAA", "BBBBBBBBBBBB", "CCCCCCCCCCCC"}
		next := 0
		source := func() (string, error) {
			c := candidates[next]
			next++
			return c, nil
		}
		checker := &stubChecker{taken: map[string]bool{"AAAAAAAAAAAA": true, "BBBBBBBBBBBB": true}}

		gen := NewTrackingCodeGenerator(checker, WithCodeSource(source))
		code, attempts, err := gen.Generate(ctx)

		require.NoError(t, err)
		assert.Equal(t, "CCCCCCCCCCCC", code)
		assert.Equal(t, 3, attempts)
		assert.Equal(t, 3, checker.calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		checker := &alwaysTaken{}
		gen := NewTrackingCodeGenerator(checker)

		code, attempts, err := gen.Generate(ctx)

		assert.Empty(t, code)
		assert.Equal(t, DefaultMaxCodeAttempts, attempts)
		assert.Equal(t, DefaultMaxCodeAttempts, checker.calls)
		assert.ErrorIs(t, err, ErrTrackingCodeExhausted)
		assert.True(t, errors.Is(err, shared.ErrBadRequest))
		assert.Equal(t, "could not generate a tracking code", err.Error())
	})

	t.Run("custom attempt bound", func(t *testing.T) {
		checker := &alwaysTaken{}
		gen := NewTrackingCodeGenerator(checker, WithMaxAttempts(3))

		_, _, err := gen.Generate(ctx)

		assert.ErrorIs(t, err, ErrTrackingCodeExhausted)
		assert.Equal(t, 3, checker.calls)
		assert.Equal(t, 3, gen.MaxAttempts())
	})

	t.Run("store error aborts", func(t *testing.T) {
		checker := &stubChecker{err: errors.New("connection refused")}
		gen := NewTrackingCodeGenerator(checker)

		_, attempts, err := gen.Generate(ctx)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
		assert.Equal(t, 1, attempts)
		assert.Equal(t, 1, checker.calls)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		checker := &stubChecker{}

		_, _, err := NewTrackingCodeGenerator(checker).Generate(cctx)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, checker.calls)
	})
}
