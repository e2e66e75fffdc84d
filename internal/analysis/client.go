// Package analysis wraps the remote language-model service behind four
// independent request/response operations over the same transcript.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"minuteshub/internal/fault"
	"minuteshub/pkg/circuitbreaker"
	"minuteshub/pkg/metrics"
)

// ActionItemDraft is an extracted item before the orchestrator assigns an id.
type ActionItemDraft struct {
	Text     string `json:"text"`
	Assignee string `json:"assignee,omitempty"`
	DueDate  string `json:"dueDate,omitempty"`
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		breaker: circuitbreaker.New(circuitbreaker.DefaultConfig()),
	}
}

// GenerateTitle produces a short title for the transcript.
func (c *Client) GenerateTitle(ctx context.Context, transcript string) (string, error) {
	var out struct {
		Title string `json:"title"`
	}
	if err := c.post(ctx, "title", map[string]string{"transcript": transcript}, &out); err != nil {
		return "", err
	}
	return out.Title, nil
}

// Summarize produces a summary in the transcript's own language. styleHint
// optionally names the template type the summary will be rendered into.
func (c *Client) Summarize(ctx context.Context, transcript, styleHint string) (string, error) {
	payload := map[string]string{"transcript": transcript}
	if styleHint != "" {
		payload["style"] = styleHint
	}
	var out struct {
		Summary string `json:"summary"`
	}
	if err := c.post(ctx, "summary", payload, &out); err != nil {
		return "", err
	}
	return out.Summary, nil
}

// ExtractActionItems returns extracted items without ids; the caller assigns
// a fresh unique id to each before persisting.
func (c *Client) ExtractActionItems(ctx context.Context, transcript string) ([]ActionItemDraft, error) {
	var out struct {
		ActionItems []ActionItemDraft `json:"actionItems"`
	}
	if err := c.post(ctx, "action-items", map[string]string{"transcript": transcript}, &out); err != nil {
		return nil, err
	}
	return out.ActionItems, nil
}

// SeparateSpeakers returns the same transcript annotated with speaker labels.
func (c *Client) SeparateSpeakers(ctx context.Context, transcript string) (string, error) {
	var out struct {
		SeparatedTranscript string `json:"separatedTranscript"`
	}
	if err := c.post(ctx, "separate-speakers", map[string]string{"transcript": transcript}, &out); err != nil {
		return "", err
	}
	return out.SeparatedTranscript, nil
}

func (c *Client) post(ctx context.Context, operation string, payload any, out any) error {
	start := time.Now()
	err := c.breaker.Execute(func() error {
		return c.doPost(ctx, operation, payload, out)
	})
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordAnalysisCall(operation, status, time.Since(start))

	if err != nil {
		return fault.Wrap(fault.KindAnalysis, operation+" failed", err)
	}
	return nil
}

func (c *Client) doPost(ctx context.Context, operation string, payload any, out any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/analyze/"+operation, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("analysis service error: %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
