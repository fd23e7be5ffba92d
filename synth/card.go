package synth

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/alovak/cardsynth/internal/cardgen"
	"github.com/alovak/cardsynth/internal/expiry"
)

var (
	ErrInvalidNumber = errors.New("number fails length or luhn check")
	ErrExpired       = errors.New("expiry is in the past")
)

// GeneratedCard is one synthesized entry. Expiry is formatted MM|YY.
type GeneratedCard struct {
	Number string `json:"number"`
	Expiry string `json:"expiry"`
	CVV    string `json:"cvv"`
}

// String returns "number|MM|YY|cvv".
func (c GeneratedCard) String() string {
	return c.Number + "|" + c.Expiry + "|" + c.CVV
}

// FormatBatch serializes entries one per line.
func FormatBatch(cards []GeneratedCard) string {
	lines := make([]string, len(cards))
	for i, c := range cards {
		lines[i] = c.String()
	}
	return strings.Join(lines, "\n")
}

var entryPattern = regexp.MustCompile(`(\d{15,16})\|?(\d{1,2})\|?(\d{2,4})\|?(\d{3,4})`)

// ExtractCards finds every entry in free text. "/" is accepted as a separator,
// single-digit months and four-digit years are normalized where possible.
func ExtractCards(text string) []GeneratedCard {
	text = strings.ReplaceAll(text, "/", "|")
	matches := entryPattern.FindAllStringSubmatch(text, -1)
	cards := make([]GeneratedCard, 0, len(matches))
	for _, m := range matches {
		exp := m[2] + "|" + m[3]
		if e, err := expiry.Normalize(m[2], m[3]); err == nil {
			exp = e.String()
		}
		cards = append(cards, GeneratedCard{Number: m[1], Expiry: exp, CVV: m[4]})
	}
	return cards
}

// CheckCard verifies an entry the way Generate would have produced it.
// Expiry is judged in now's location.
func CheckCard(c GeneratedCard, now time.Time) error {
	if !cardgen.ValidLuhn(c.Number) || len(c.Number) != cardgen.TargetLength(c.Number) {
		return &ValidationError{Field: "number", Value: cardgen.MaskPAN(c.Number), Err: ErrInvalidNumber}
	}
	e, err := expiry.Parse(c.Expiry)
	if err != nil {
		return &ValidationError{Field: "expiry", Value: c.Expiry, Err: ErrInvalidExpiry}
	}
	if e.IsExpired(now) {
		return &ValidationError{Field: "expiry", Value: c.Expiry, Err: ErrExpired}
	}
	if !cardgen.IsDigits(c.CVV) || len(c.CVV) != cardgen.CVVLength(c.Number) {
		return &ValidationError{Field: "cvv", Value: c.CVV, Err: ErrInvalidCvv}
	}
	return nil
}
