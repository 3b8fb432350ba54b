package serving

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	domain "github.com/bryanwahyu/cancer-predict/internal/domain/predictions"
)

// Client talks to a TensorFlow-Serving style REST endpoint, e.g.
// http://host:8501/v1/models/cancer.
type Client struct {
	modelURL string
	http     *http.Client
}

type versionStatus struct {
	Version string `json:"version"`
	State   string `json:"state"`
}

// Load checks that the endpoint reports at least one AVAILABLE model version.
func Load(ctx context.Context, httpClient *http.Client, modelURL string) (*Client, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	modelURL = strings.TrimRight(strings.TrimSpace(modelURL), "/")
	if modelURL == "" {
		return nil, fmt.Errorf("serving url is empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, modelURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("model status: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model status: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		ModelVersionStatus []versionStatus `json:"model_version_status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("model status: %w", err)
	}
	for _, v := range body.ModelVersionStatus {
		if v.State == "AVAILABLE" {
			return &Client{modelURL: modelURL, http: httpClient}, nil
		}
	}
	return nil, fmt.Errorf("model status: no AVAILABLE version")
}

func (c *Client) Run(ctx context.Context, input domain.Tensor) ([]float32, error) {
	if len(input.Shape) < 2 {
		return nil, fmt.Errorf("%w: expected batched tensor, got shape %v", domain.ErrInference, input.Shape)
	}
	batch := int(input.Shape[0])
	if batch <= 0 || len(input.Data)%batch != 0 {
		return nil, fmt.Errorf("%w: invalid batch size %d for %d values", domain.ErrInference, batch, len(input.Data))
	}
	per := len(input.Data) / batch
	instances := make([]any, batch)
	for i := 0; i < batch; i++ {
		instances[i] = nest(input.Data[i*per:(i+1)*per], input.Shape[1:])
	}

	payload, err := json.Marshal(map[string]any{"instances": instances})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.modelURL+":predict", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("predict request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("predict response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(raw, &e)
		return nil, fmt.Errorf("predict: status %d: %s", resp.StatusCode, e.Error)
	}

	var out struct {
		Predictions any `json:"predictions"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("predict response: %w", err)
	}
	scores, err := flatten(out.Predictions, nil)
	if err != nil {
		return nil, err
	}
	return scores, nil
}

func (c *Client) Close() error { return nil }

// nest turns a flat slice into nested arrays following shape.
func nest(data []float32, shape []int64) any {
	if len(shape) == 1 {
		return data
	}
	n := int(shape[0])
	step := len(data) / n
	out := make([]any, n)
	for i := 0; i < n; i++ {
		out[i] = nest(data[i*step:(i+1)*step], shape[1:])
	}
	return out
}

func flatten(v any, acc []float32) ([]float32, error) {
	switch t := v.(type) {
	case float64:
		return append(acc, float32(t)), nil
	case []any:
		var err error
		for _, item := range t {
			if acc, err = flatten(item, acc); err != nil {
				return nil, err
			}
		}
		return acc, nil
	default:
		return nil, fmt.Errorf("unexpected prediction value %T", v)
	}
}
