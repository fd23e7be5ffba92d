package synth_test

import (
	"bytes"
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"github.com/alovak/cardsynth/internal/cardgen"
	"github.com/alovak/cardsynth/synth"
)

func newRouter() chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gen := synth.NewGenerator(rand.New(rand.NewSource(1)), func() time.Time {
		return time.Date(2026, time.October, 14, 0, 0, 0, 0, time.UTC)
	})
	api := synth.NewAPI(synth.NewService(gen, synth.DefaultConfig(), logger))
	r := chi.NewRouter()
	api.AppendRoutes(r)
	return r
}

func TestAPI(t *testing.T) {
	router := newRouter()

	t.Run("generate batch", func(t *testing.T) {
		jsonReq, _ := json.Marshal(synth.GenerateRequest{Input: "424242", Count: 5})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/cards/generate", bytes.NewBuffer(jsonReq))
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)

		var resp synth.BatchResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Batch)
		require.NotEmpty(t, resp.ID)
		require.Len(t, resp.Cards, 5)
		for _, c := range resp.Cards {
			require.Len(t, c.Number, 16)
			require.True(t, cardgen.ValidLuhn(c.Number))
		}
		require.Equal(t, synth.FormatBatch(resp.Cards), resp.Text)
	})

	t.Run("generate plain text", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/cards/generate", strings.NewReader(`{"input":"340000|01|30|1234","count":3}`))
		req.Header.Set("Accept", "text/plain")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
		require.Len(t, lines, 3)
		for _, l := range lines {
			require.True(t, strings.HasSuffix(l, "|01|30|1234"), l)
			require.Len(t, strings.SplitN(l, "|", 2)[0], 15)
		}
	})

	t.Run("invalid prefix", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/cards/generate", strings.NewReader(`{"input":"123|12|25|999","count":1}`))
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Contains(t, w.Body.String(), "prefix")
	})

	t.Run("malformed body", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/cards/generate", strings.NewReader(`{`))
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("exhausted unique batch", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/cards/generate", strings.NewReader(`{"input":"340000000000","count":101,"unique":true}`))
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("check body too large", func(t *testing.T) {
		w := httptest.NewRecorder()
		body := strings.Repeat("4242424242424242|10|26|123\n", (1<<20)/27+1)
		req := httptest.NewRequest(http.MethodPost, "/cards/check", strings.NewReader(body))
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("check entries", func(t *testing.T) {
		w := httptest.NewRecorder()
		body := "4242424242424242|10|26|123\n378282246310005|01|30|123\n"
		req := httptest.NewRequest(http.MethodPost, "/cards/check", strings.NewReader(body))
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var results []synth.CheckResult
		require.NoError(t, json.NewDecoder(w.Body).Decode(&results))
		require.Len(t, results, 2)
		require.True(t, results[0].Valid)
		require.False(t, results[1].Valid)
		require.Contains(t, results[1].Error, "cvv")
	})
}
