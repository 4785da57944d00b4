// Package llm talks to an OpenAI-compatible chat completions API for
// article classification and daily summary generation. No retries: a
// failed call surfaces directly to the caller.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Factor is one criticality sub-factor returned by the model.
type Factor struct {
	Score       int    `json:"score"`
	Explanation string `json:"explanation"`
}

// Verdict is the structured classification result.
type Verdict struct {
	Classification string `json:"classification"`
	Explanation    string `json:"explanation"`
	Reasoning      string `json:"reasoning"`
	Advice         string `json:"advice"`
	Criticality    int    `json:"criticality"`
	Impact         Factor `json:"impact"`
	Likelihood     Factor `json:"likelihood"`
	Urgency        Factor `json:"urgency"`
	Scope          Factor `json:"scope"`
	Novelty        Factor `json:"novelty"`
	Actionability  Factor `json:"actionability"`

	// Raw is the verbatim message content the verdict was parsed from.
	Raw json.RawMessage `json:"-"`
}

type Client struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

func NewClient(endpoint, model, apiKey string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		model:    model,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Model returns the configured model identifier, recorded on generated
// summaries.
func (c *Client) Model() string {
	return c.model
}

const classifySystemPrompt = `You classify news articles for a specific company as "Threat", "Opportunity" or "Neutral".
Respond with a single JSON object with the keys: classification, explanation, reasoning, advice, criticality (0-100),
and impact, likelihood, urgency, scope, novelty, actionability (each an object with score 0-100 and explanation).
Respond with JSON only, no prose.`

// Classify sends one article plus the organization's context and parses
// the structured verdict out of the reply.
func (c *Client) Classify(ctx context.Context, title, body, orgContext string) (*Verdict, error) {
	user := fmt.Sprintf("Company context:\n%s\n\nArticle title: %s\n\nArticle text:\n%s", orgContext, title, body)
	content, err := c.complete(ctx, classifySystemPrompt, user)
	if err != nil {
		return nil, err
	}

	raw := stripFences(content)
	var verdict Verdict
	if err := json.Unmarshal([]byte(raw), &verdict); err != nil {
		return nil, fmt.Errorf("parse verdict: %w", err)
	}
	switch verdict.Classification {
	case "Threat", "Opportunity", "Neutral":
	default:
		return nil, fmt.Errorf("unexpected classification %q", verdict.Classification)
	}
	verdict.Raw = json.RawMessage(raw)
	return &verdict, nil
}

const summarizeSystemPrompt = `You write a short narrative briefing of the day's classified news for a specific company.
Cover the most critical threats and opportunities first. Plain text, no markdown.`

// Summarize produces a narrative over the day's classified headlines.
func (c *Client) Summarize(ctx context.Context, orgContext string, headlines []string) (string, error) {
	user := fmt.Sprintf("Company context:\n%s\n\nToday's classified articles:\n%s", orgContext, strings.Join(headlines, "\n"))
	return c.complete(ctx, summarizeSystemPrompt, user)
}

func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return "", fmt.Errorf("llm client misconfigured")
	}

	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send completion: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("llm error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty completion")
	}
	return parsed.Choices[0].Message.Content, nil
}

// stripFences trims markdown code fences models wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
