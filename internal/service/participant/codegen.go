package participant

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/amiculto/backend/internal/apperrors"
)

const (
	defaultCodeDigits = 8
	maxCodeAttempts   = 100
)

// ExistsFunc reports whether a code is already taken
type ExistsFunc func(ctx context.Context, code string) (bool, error)

// CodeGenerator draws random numeric codes of a fixed digit count
// Randomness source is injectable so the retry loop tests without a database
type CodeGenerator struct {
	digits      int
	maxAttempts int

	// uniform random integer in [0, n)
	randInt func(n int64) int64
}

func NewCodeGenerator(digits int) CodeGenerator {
	if digits <= 0 {
		digits = defaultCodeDigits
	}

	return CodeGenerator{
		digits:      digits,
		maxAttempts: maxCodeAttempts,
		randInt:     rand.Int64N,
	}
}

// Generate returns a code of exactly the configured digit count that the
// exists predicate does not know yet
// Gives up with apperrors wrapped ErrCodeExhausted after maxAttempts taken draws
func (g CodeGenerator) Generate(ctx context.Context, exists ExistsFunc) (string, error) {
	// Draw from [10^(digits-1), 10^digits - 1] so the decimal form always
	// has the exact length and never a leading zero
	low := pow10(g.digits - 1)
	span := 9 * low

	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		code := strconv.FormatInt(low+g.randInt(span), 10)

		taken, err := exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("error while checking code uniqueness. Err: %w", err)
		}

		if !taken {
			return code, nil
		}
	}

	return "", fmt.Errorf("could not generate a unique %d-digit code after %d attempts: %w",
		g.digits, g.maxAttempts, apperrors.ErrCodeExhausted)
}

func pow10(n int) int64 {
	result := int64(1)
	for range n {
		result *= 10
	}
	return result
}
