package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"secwatch-reporting/internal/config"
	"secwatch-reporting/internal/domain"
)

// chatMessage is one turn of a completion-API conversation.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the completion-API request body.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// chatResponse is the completion-API response body.
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// InsightClient asks an external completion API for a short executive
// summary of a generated report. It implements report.NarrativeProvider.
type InsightClient struct {
	httpClient *resty.Client
	model      string
	logger     *zap.Logger
}

// NewInsightClient creates an insight client from configuration.
func NewInsightClient(cfg *config.InsightConfig, logger *zap.Logger) *InsightClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(2).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Bearer "+cfg.APIKey)

	return &InsightClient{
		httpClient: client,
		model:      cfg.Model,
		logger:     logger,
	}
}

// Narrative returns a few sentences summarizing the report for leadership.
func (c *InsightClient) Narrative(ctx context.Context, report *domain.ReportData) (string, error) {
	request := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{
				Role:    "system",
				Content: "You are a security operations analyst. Write a concise executive summary (3-5 sentences) of the report statistics you are given. Plain prose, no markdown.",
			},
			{
				Role:    "user",
				Content: summaryPrompt(report),
			},
		},
	}

	var response chatResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(request).
		SetResult(&response).
		Post("/v1/chat/completions")
	if err != nil {
		return "", fmt.Errorf("completion API request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("completion API returned status %d", resp.StatusCode())
	}
	if response.Error != nil {
		return "", fmt.Errorf("completion API error: %s", response.Error.Message)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("completion API returned no choices")
	}

	c.logger.Debug("generated report narrative", zap.String("title", report.Title))

	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}

// summaryPrompt flattens the report summary into a stable prompt.
func summaryPrompt(report *domain.ReportData) string {
	keys := make([]string, 0, len(report.Summary))
	for key := range report.Summary {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	fmt.Fprintf(&b, "Report: %s\n", report.Title)
	fmt.Fprintf(&b, "Period: %s to %s\n",
		report.DateRange.Start.UTC().Format("2006-01-02"),
		report.DateRange.End.UTC().Format("2006-01-02"))
	for _, key := range keys {
		fmt.Fprintf(&b, "%s: %v\n", key, report.Summary[key])
	}
	return b.String()
}
