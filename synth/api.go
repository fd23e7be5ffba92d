package synth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

const maxCheckBody = 1 << 20

// API is a HTTP API for the synth service
type API struct {
	synth *Service
}

func NewAPI(synth *Service) *API {
	return &API{
		synth: synth,
	}
}

func (a *API) AppendRoutes(r chi.Router) {
	r.Route("/cards", func(r chi.Router) {
		r.Post("/generate", a.generate)
		r.Post("/check", a.check)
	})
}

// BatchResponse is a Batch plus its newline-joined text form.
type BatchResponse struct {
	*Batch
	Text string `json:"text"`
}

func (a *API) generate(w http.ResponseWriter, r *http.Request) {
	req := GenerateRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	batch, err := a.synth.Generate(req)
	if err != nil {
		switch {
		case IsValidation(err):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrExhausted):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	text := FormatBatch(batch.Cards)
	if strings.Contains(r.Header.Get("Accept"), "text/plain") {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, text+"\n")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(BatchResponse{Batch: batch, Text: text})
}

func (a *API) check(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxCheckBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, fmt.Sprintf("body exceeds %d bytes", tooLarge.Limit), http.StatusRequestEntityTooLarge)
		} else {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}

	results := a.synth.Check(string(body))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(results)
}
