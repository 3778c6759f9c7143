package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

const defaultBaseUrl = "https://api.cohere.com"

// NewCohereClient builds a Classifier backed by the Cohere classify endpoint.
// BaseUrl and Client may be swapped out before first use.
func NewCohereClient(token string, l *slog.Logger) *CohereClient {
	return &CohereClient{
		Client:  http.DefaultClient,
		BaseUrl: defaultBaseUrl,
		Token:   token,
		Logger:  l,
	}
}

type CohereClient struct {
	Client  *http.Client
	BaseUrl string
	Token   string
	Logger  *slog.Logger
}

type cohereRequest struct {
	Inputs   []string  `json:"inputs"`
	Examples []Example `json:"examples"`
}

type cohereClassification struct {
	Input      string  `json:"input"`
	Prediction string  `json:"prediction"`
	Confidence float64 `json:"confidence"`
}

type cohereResponse struct {
	Classifications []cohereClassification `json:"classifications"`
}

func (c *CohereClient) Classify(ctx context.Context, inputs []string, examples []Example) ([]Prediction, error) {
	body, err := json.Marshal(cohereRequest{Inputs: inputs, Examples: examples})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseUrl+"/v1/classify", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		bs, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.Logger.ErrorContext(ctx, "Classify call rejected",
			slog.Int("status", resp.StatusCode), slog.String("body", string(bs)))
		return nil, fmt.Errorf("classify: unexpected status %d", resp.StatusCode)
	}

	var parsed cohereResponse
	if err = json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	ret := make([]Prediction, 0, len(parsed.Classifications))
	for _, cl := range parsed.Classifications {
		ret = append(ret, Prediction{Input: cl.Input, Label: cl.Prediction, Confidence: cl.Confidence})
	}

	return ret, nil
}
