package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"secwatch-reporting/internal/config"
	"secwatch-reporting/internal/domain"
)

func insightTestReport() *domain.ReportData {
	return &domain.ReportData{
		Title: "Security Summary Report",
		DateRange: domain.DateRange{
			Start: time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		Summary: map[string]any{
			"totalAlerts":    3,
			"criticalAlerts": 2,
		},
	}
}

func newInsightClient(baseURL string) *InsightClient {
	return NewInsightClient(&config.InsightConfig{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Model:   "gpt-4o-mini",
		Timeout: 5 * time.Second,
	}, zap.NewNop())
}

func TestNarrative_Success(t *testing.T) {
	var gotAuth string
	var gotBody chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  A quiet week overall.  "}}]}`))
	}))
	defer server.Close()

	client := newInsightClient(server.URL)

	narrative, err := client.Narrative(context.Background(), insightTestReport())

	require.NoError(t, err)
	assert.Equal(t, "A quiet week overall.", narrative)
	assert.Equal(t, "Bearer test-key", gotAuth)

	assert.Equal(t, "gpt-4o-mini", gotBody.Model)
	require.Len(t, gotBody.Messages, 2)
	assert.Contains(t, gotBody.Messages[1].Content, "Security Summary Report")
	assert.Contains(t, gotBody.Messages[1].Content, "totalAlerts: 3")
}

func TestNarrative_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"},"choices":[]}`))
	}))
	defer server.Close()

	client := newInsightClient(server.URL)

	_, err := client.Narrative(context.Background(), insightTestReport())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestNarrative_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := newInsightClient(server.URL)

	_, err := client.Narrative(context.Background(), insightTestReport())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestSummaryPrompt_SortedKeys(t *testing.T) {
	prompt := summaryPrompt(insightTestReport())

	assert.Contains(t, prompt, "Report: Security Summary Report")
	assert.Contains(t, prompt, "Period: 2026-03-08 to 2026-03-15")
	// keys appear in sorted order
	assert.Less(t,
		strings.Index(prompt, "criticalAlerts"),
		strings.Index(prompt, "totalAlerts"),
	)
}
