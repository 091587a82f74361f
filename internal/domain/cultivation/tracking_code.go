package cultivation

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/agrotrace/backend/internal/domain/shared"
)

const (
	// TrackingCodeLength is the number of characters in a tracking code
	TrackingCodeLength = 12

	// DefaultMaxCodeAttempts bounds the number of candidates tried before giving up
	DefaultMaxCodeAttempts = 500

	trackingCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// ErrTrackingCodeExhausted is returned when every attempt produced a code already in use
var ErrTrackingCodeExhausted = shared.NewBadRequestError("could not generate a tracking code")

// NewTrackingCode returns a random candidate code. Each character is drawn
// uniformly from A-Z, a-z and 0-9.
func NewTrackingCode() (string, error) {
	// 248 is the largest multiple of 62 that fits in a byte
	const limit = 256 - 256%len(trackingCodeAlphabet)

	code := make([]byte, 0, TrackingCodeLength)
	buf := make([]byte, TrackingCodeLength*2)
	for len(code) < TrackingCodeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			code = append(code, trackingCodeAlphabet[int(b)%len(trackingCodeAlphabet)])
			if len(code) == TrackingCodeLength {
				break
			}
		}
	}
	return string(code), nil
}

// IsValidTrackingCode reports whether code has the tracking code shape
func IsValidTrackingCode(code string) bool {
	if len(code) != TrackingCodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		isAlnum := (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
		if !isAlnum {
			return false
		}
	}
	return true
}

// TrackingCodeChecker reports whether a tracking code is already taken
type TrackingCodeChecker interface {
	ExistsByTrackingCode(ctx context.Context, code string) (bool, error)
}

// TrackingCodeGenerator produces tracking codes that are not yet used by any batch
type TrackingCodeGenerator struct {
	checker     TrackingCodeChecker
	maxAttempts int
	source      func() (string, error)
}

// TrackingCodeOption configures a TrackingCodeGenerator
type TrackingCodeOption func(*TrackingCodeGenerator)

// WithMaxAttempts overrides DefaultMaxCodeAttempts
func WithMaxAttempts(n int) TrackingCodeOption {
	return func(g *TrackingCodeGenerator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// WithCodeSource replaces the random candidate source
func WithCodeSource(source func() (string, error)) TrackingCodeOption {
	return func(g *TrackingCodeGenerator) {
		if source != nil {
			g.source = source
		}
	}
}

// NewTrackingCodeGenerator creates a generator checking candidates against checker
func NewTrackingCodeGenerator(checker TrackingCodeChecker, opts ...TrackingCodeOption) *TrackingCodeGenerator {
	g := &TrackingCodeGenerator{
		checker:     checker,
		maxAttempts: DefaultMaxCodeAttempts,
		source:      NewTrackingCode,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// MaxAttempts returns the configured attempt bound
func (g *TrackingCodeGenerator) MaxAttempts() int {
	return g.maxAttempts
}

// Generate returns the first unused candidate together with the number of
// candidates tried. After MaxAttempts collisions it returns
// ErrTrackingCodeExhausted. Store errors abort generation immediately.
func (g *TrackingCodeGenerator) Generate(ctx context.Context) (string, int, error) {
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", attempt - 1, err
		}
		code, err := g.source()
		if err != nil {
			return "", attempt, err
		}
		exists, err := g.checker.ExistsByTrackingCode(ctx, code)
		if err != nil {
			return "", attempt, fmt.Errorf("check tracking code: %w", err)
		}
		if !exists {
			return code, attempt, nil
		}
	}
	return "", g.maxAttempts, ErrTrackingCodeExhausted
}
