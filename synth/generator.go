package synth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alovak/cardsynth/internal/cardgen"
	"github.com/alovak/cardsynth/internal/expiry"
)

const defaultUniqueRetries = 10

var ErrExhausted = errors.New("could not generate enough distinct numbers")

// Generator synthesizes entries from a validated CardSpec.
// It is safe for concurrent use; calls share the random source under a lock.
type Generator struct {
	mu  sync.Mutex
	src cardgen.Source
	now func() time.Time
}

// NewGenerator defaults a nil src to crypto/rand and a nil clock to time.Now.
func NewGenerator(src cardgen.Source, now func() time.Time) *Generator {
	if src == nil {
		src = cardgen.CryptoSource{}
	}
	if now == nil {
		now = time.Now
	}
	return &Generator{src: src, now: now}
}

// Generate returns count entries. spec must have passed Validate.
func (g *Generator) Generate(spec CardSpec, count int) []GeneratedCard {
	if count <= 0 {
		return []GeneratedCard{}
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	cards := make([]GeneratedCard, 0, count)
	for i := 0; i < count; i++ {
		cards = append(cards, g.next(spec, now))
	}
	return cards
}

// GenerateUnique is Generate without repeated numbers. Each entry gets up to
// maxRetries redraws (defaulting to 10) before ErrExhausted.
func (g *Generator) GenerateUnique(spec CardSpec, count, maxRetries int) ([]GeneratedCard, error) {
	if count <= 0 {
		return []GeneratedCard{}, nil
	}
	if maxRetries <= 0 {
		maxRetries = defaultUniqueRetries
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	seen := make(map[string]struct{}, count)
	cards := make([]GeneratedCard, 0, count)
	for len(cards) < count {
		var (
			card GeneratedCard
			ok   bool
		)
		for attempt := 0; attempt <= maxRetries; attempt++ {
			card = g.next(spec, now)
			if _, dup := seen[card.Number]; !dup {
				ok = true
				break
			}
		}
		if !ok {
			return nil, fmt.Errorf("%d of %d after %d retries: %w", len(cards), count, maxRetries, ErrExhausted)
		}
		seen[card.Number] = struct{}{}
		cards = append(cards, card)
	}
	return cards, nil
}

func (g *Generator) next(spec CardSpec, now time.Time) GeneratedCard {
	card := GeneratedCard{
		Number: cardgen.Complete(g.src, spec.Prefix, cardgen.TargetLength(spec.Prefix)),
		Expiry: spec.Expiry,
		CVV:    spec.CVV,
	}
	if card.CVV == "" {
		card.CVV = cardgen.RandomDigits(g.src, RequiredCvvLength(spec.Prefix))
	}
	if card.Expiry == "" {
		card.Expiry = expiry.Random(g.src, now).String()
	}
	return card
}
