package synthclient_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"github.com/alovak/cardsynth/internal/synthclient"
	"github.com/alovak/cardsynth/synth"
)

func TestClient(t *testing.T) {
	cfg := synth.DefaultConfig()
	app := synth.NewApp(slog.New(slog.NewTextHandler(io.Discard, nil)), cfg)
	srv := httptest.NewServer(app.Router())
	defer srv.Close()

	cli := synthclient.New(srv.URL+"/", srv.Client())
	ctx := context.Background()

	t.Run("generate", func(t *testing.T) {
		batch, err := cli.Generate(ctx, synth.GenerateRequest{Input: "424242", Count: 3})
		require.NoError(t, err)
		require.Len(t, batch.Cards, 3)
		require.Equal(t, synth.FormatBatch(batch.Cards), batch.Text)

		results, err := cli.Check(ctx, batch.Text)
		require.NoError(t, err)
		require.Len(t, results, 3)
		for _, r := range results {
			require.True(t, r.Valid, r.Error)
		}
	})

	t.Run("validation error", func(t *testing.T) {
		_, err := cli.Generate(ctx, synth.GenerateRequest{Input: "123", Count: 1})
		var se *synthclient.StatusError
		require.True(t, errors.As(err, &se))
		require.Equal(t, http.StatusBadRequest, se.Code)
	})
}
