package synth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alovak/cardsynth/internal/cardgen"
	"github.com/alovak/cardsynth/internal/expiry"
)

const (
	minPrefixLen = 6
	maxPrefixLen = 12
)

var (
	ErrInvalidPrefix = errors.New("prefix must be 6-12 digits")
	ErrInvalidExpiry = errors.New("expiry must be MM|YY with month 01-12")
	ErrInvalidCvv    = errors.New("cvv length does not match card network")
)

// ValidationError carries the offending field and unwraps to one of the Err* sentinels.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// CardSpec describes what to generate. Empty Expiry or CVV means random.
type CardSpec struct {
	Prefix string
	Expiry string
	CVV    string
}

// ParseSpec reads "prefix|MM|YY|cvv". Month and year are both-or-neither.
func ParseSpec(raw string) CardSpec {
	parts := strings.Split(raw, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	field := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}

	spec := CardSpec{Prefix: field(0), CVV: field(3)}
	if mm, yy := field(1), field(2); mm != "" && yy != "" {
		spec.Expiry = mm + "|" + yy
	}
	return spec
}

// RequiredCvvLength is 4 for prefixes starting with 34 or 37, else 3.
func RequiredCvvLength(prefix string) int {
	return cardgen.CVVLength(prefix)
}

// Validate checks prefix, then expiry, then cvv, and returns the first failure.
func Validate(spec CardSpec) error {
	if l := len(spec.Prefix); l < minPrefixLen || l > maxPrefixLen || !cardgen.IsDigits(spec.Prefix) {
		return &ValidationError{Field: "prefix", Value: spec.Prefix, Err: ErrInvalidPrefix}
	}
	if spec.Expiry != "" {
		if _, err := expiry.Parse(spec.Expiry); err != nil {
			return &ValidationError{Field: "expiry", Value: spec.Expiry, Err: ErrInvalidExpiry}
		}
	}
	if spec.CVV != "" {
		if !cardgen.IsDigits(spec.CVV) || len(spec.CVV) != RequiredCvvLength(spec.Prefix) {
			return &ValidationError{Field: "cvv", Value: spec.CVV, Err: ErrInvalidCvv}
		}
	}
	return nil
}
