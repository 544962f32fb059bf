package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/planline/planline/pkg/models"
)

const (
	defaultTimeoutSeconds = 60
	defaultModel          = "gpt-4o"
	defaultRetryAttempts  = 2
	defaultRetryDelay     = 2 * time.Second
)

// Client is an HTTP Generator against an OpenAI-style chat-completions
// endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	retries    int
	retryDelay time.Duration
	logger     *slog.Logger
}

// NewClient creates a generation client. baseURL is the API root, e.g.
// "https://api.openai.com/v1".
func NewClient(baseURL, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		model:      defaultModel,
		httpClient: &http.Client{Timeout: defaultTimeoutSeconds * time.Second},
		retries:    defaultRetryAttempts,
		retryDelay: defaultRetryDelay,
		logger:     logger.With("module", "generation"),
	}
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate asks the model for a phased roadmap over the supplied ideas
// and validates the response against the roadmap schema. Transport
// errors and 5xx responses are retried; a schema-invalid payload is
// not, since the same prompt tends to produce the same shape.
func (c *Client) Generate(ctx context.Context, ideas []*models.Idea, projectName, projectType string) (*models.RoadmapAnalysis, error) {
	if len(ideas) == 0 {
		return nil, ErrNoIdeas
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt(ideas, projectName, projectType)},
		},
		ResponseFormat: &respFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generation request: %w", err)
	}

	var lastErr error

	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			c.logger.WarnContext(ctx, "retrying roadmap generation", "attempt", attempt, "error", lastErr)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}

		analysis, retryable, err := c.generateOnce(ctx, body)
		if err == nil {
			return analysis, nil
		}

		if !retryable {
			return nil, err
		}

		lastErr = err
	}

	return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, lastErr)
}

func (c *Client) generateOnce(ctx context.Context, body []byte) (*models.RoadmapAnalysis, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("failed to create generation request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("generation request failed: %w", err)
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("failed to close response body", "error", err)
		}
	}()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("failed to read generation response: %w", err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, true, fmt.Errorf("generation endpoint returned status %d", resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("%w: endpoint returned status %d", ErrGenerationFailed, resp.StatusCode)
	}

	var chat chatResponse
	if err := json.Unmarshal(payload, &chat); err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	if len(chat.Choices) == 0 {
		return nil, false, fmt.Errorf("%w: response contained no choices", ErrGenerationFailed)
	}

	document := []byte(chat.Choices[0].Message.Content)

	if err := validatePayload(document); err != nil {
		return nil, false, err
	}

	var analysis models.RoadmapAnalysis
	if err := json.Unmarshal(document, &analysis); err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	return &analysis, false, nil
}

const systemPrompt = `You are a product planning assistant. Given a list of prioritized ` +
	`product ideas, produce a phased delivery roadmap as a JSON object with keys ` +
	`"total_duration" and "phases". Each phase has "phase", "duration", "description", ` +
	`"risks", "success_criteria", and "epics". Each epic has "title", "description", ` +
	`"user_stories", "deliverables", "related_ideas", "priority", and "complexity". ` +
	`Respond with JSON only.`

func userPrompt(ideas []*models.Idea, projectName, projectType string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Project: %s (%s)\nIdeas:\n", projectName, projectType)

	for _, idea := range ideas {
		fmt.Fprintf(&b, "- %s (effort %d, impact %d): %s\n", idea.Title, idea.Effort, idea.Impact, idea.Description)
	}

	return b.String()
}
