// Package inference provides implementations of the EmotionModel port: a
// remote HTTP client for a model-serving endpoint, and a deterministic stub
// for development and tests. The surrounding engine never knows which one it
// is talking to.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/vibesense/vibesense/internal/core/domain"
	"github.com/vibesense/vibesense/internal/core/ports"
)

const inputSize = 48

// Client talks to a remote model server exposing a /predict endpoint that
// accepts the flattened 48x48 input and returns one probability per label.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ ports.EmotionModel = (*Client)(nil)

type predictRequest struct {
	Image []float32 `json:"image"`
}

type predictResponse struct {
	Class       string             `json:"class"`
	Confidence  float32            `json:"confidence"`
	Predictions map[string]float64 `json:"predictions"`
	Error       string             `json:"error,omitempty"`
}

// NewClient constructs a remote model client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Classify sends the preprocessed face to the model server. Transport and
// server failures surface as ErrModelUnavailable so callers can distinguish
// "model gone" from a bad input.
func (c *Client) Classify(ctx context.Context, input []float32) (domain.Distribution, error) {
	if len(input) != inputSize*inputSize {
		return nil, fmt.Errorf("inference adapter: %w: got %d values, want %d", domain.ErrMalformedInput, len(input), inputSize*inputSize)
	}

	body, err := json.Marshal(predictRequest{Image: input})
	if err != nil {
		return nil, fmt.Errorf("inference adapter: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("inference adapter: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inference adapter: %w: %v", domain.ErrModelUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("inference adapter: %w: status %d", domain.ErrModelUnavailable, resp.StatusCode)
	}

	var parsed predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("inference adapter: decode response: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("inference adapter: server error: %s", parsed.Error)
	}
	if len(parsed.Predictions) == 0 {
		return nil, fmt.Errorf("inference adapter: empty prediction set")
	}

	// The server keys predictions by label name; rebuild the canonical
	// vector so unknown keys are dropped and missing labels read as zero.
	vector := make([]float64, 0, len(domain.Emotions()))
	for _, label := range domain.Emotions() {
		vector = append(vector, parsed.Predictions[string(label)])
	}
	return domain.DistributionFromVector(vector), nil
}

// Info describes the remote artifact.
func (c *Client) Info() ports.ModelInfo {
	return ports.ModelInfo{
		Kind:      "remote",
		InputSize: inputSize,
		Emotions:  domain.Emotions(),
		Loaded:    true,
	}
}
