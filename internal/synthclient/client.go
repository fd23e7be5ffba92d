package synthclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alovak/cardsynth/synth"
)

// Client talks to a running synth HTTP API.
type Client struct {
	Base string
	HTTP *http.Client
}

func New(base string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{Base: strings.TrimRight(base, "/"), HTTP: hc}
}

func (c *Client) Generate(ctx context.Context, req synth.GenerateRequest) (*synth.BatchResponse, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+"/cards/generate", bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var out synth.BatchResponse
	if err := c.do(httpReq, http.StatusCreated, &out); err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	return &out, nil
}

func (c *Client) Check(ctx context.Context, text string) ([]synth.CheckResult, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+"/cards/check", strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "text/plain")

	var out []synth.CheckResult
	if err := c.do(httpReq, http.StatusOK, &out); err != nil {
		return nil, fmt.Errorf("check: %w", err)
	}
	return out, nil
}

// StatusError is returned for any non-expected response status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status=%d body=%s", e.Code, e.Body)
}

func (c *Client) do(req *http.Request, want int, out any) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		b, _ := io.ReadAll(resp.Body)
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
