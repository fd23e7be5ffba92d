package synth

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

var ErrInvalidCount = errors.New("count out of range")

// GenerateRequest is one raw input line plus batch options.
type GenerateRequest struct {
	Input  string `json:"input"`
	Count  int    `json:"count,omitempty"`
	Unique bool   `json:"unique,omitempty"`
}

// Batch is the result of one generation request. The caller owns it.
type Batch struct {
	ID        string          `json:"batch_id"`
	Prefix    string          `json:"prefix"`
	Cards     []GeneratedCard `json:"cards"`
	CreatedAt time.Time       `json:"created_at"`
}

// CheckResult reports on one entry found by Check.
type CheckResult struct {
	Entry string `json:"entry"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
	Err   error  `json:"-"`
}

type Service struct {
	gen    *Generator
	cfg    *Config
	logger *slog.Logger
}

func NewService(gen *Generator, cfg *Config, logger *slog.Logger) *Service {
	if gen == nil {
		gen = NewGenerator(nil, nil)
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		gen:    gen,
		cfg:    cfg,
		logger: logger,
	}
}

// IsValidation reports whether err comes from bad caller input.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) || errors.Is(err, ErrInvalidCount)
}

func (s *Service) Generate(req GenerateRequest) (*Batch, error) {
	count := req.Count
	if count == 0 {
		count = s.cfg.DefaultCount
	}
	if count < 1 || count > s.cfg.MaxCount {
		return nil, fmt.Errorf("count %d not in 1..%d: %w", count, s.cfg.MaxCount, ErrInvalidCount)
	}

	spec := ParseSpec(req.Input)
	if err := Validate(spec); err != nil {
		s.logger.Info("rejected generate request", slog.Any("err", err))
		return nil, fmt.Errorf("validating input: %w", err)
	}

	var cards []GeneratedCard
	if req.Unique {
		var err error
		cards, err = s.gen.GenerateUnique(spec, count, s.cfg.UniqueRetries)
		if err != nil {
			return nil, fmt.Errorf("generating unique batch: %w", err)
		}
	} else {
		cards = s.gen.Generate(spec, count)
	}

	batch := &Batch{
		ID:        uuid.New().String(),
		Prefix:    spec.Prefix,
		Cards:     cards,
		CreatedAt: time.Now().UTC(),
	}
	s.logger.Info("generated batch",
		slog.String("batch_id", batch.ID),
		slog.String("prefix", spec.Prefix),
		slog.Int("count", len(cards)),
		slog.Bool("fixed_expiry", spec.Expiry != ""),
		slog.Bool("fixed_cvv", spec.CVV != ""),
	)
	return batch, nil
}

// Check validates every entry ExtractCards finds in text.
func (s *Service) Check(text string) []CheckResult {
	now := s.gen.now()
	cards := ExtractCards(text)
	results := make([]CheckResult, 0, len(cards))
	invalid := 0
	for _, c := range cards {
		r := CheckResult{Entry: c.String(), Valid: true}
		if err := CheckCard(c, now); err != nil {
			r.Valid, r.Err, r.Error = false, err, err.Error()
			invalid++
		}
		results = append(results, r)
	}
	s.logger.Info("checked entries", slog.Int("total", len(results)), slog.Int("invalid", invalid))
	return results
}
