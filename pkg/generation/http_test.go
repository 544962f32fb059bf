package generation

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/planline/planline/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testIdeas() []*models.Idea {
	return []*models.Idea{
		{Title: "Search", Description: "full-text search", Effort: 3, Impact: 8},
		{Title: "Exports", Description: "csv exports", Effort: 2, Impact: 5},
	}
}

const validRoadmapJSON = `{
	"total_duration": "2 months",
	"phases": [
		{
			"phase": "Foundation",
			"duration": "4 weeks",
			"epics": [
				{"title": "Search backend", "description": "indexing api", "priority": "high"}
			]
		}
	]
}`

func chatCompletion(content string) string {
	payload, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})

	return string(payload)
}

func TestClientGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		_, _ = w.Write([]byte(chatCompletion(validRoadmapJSON)))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", testLogger())

	analysis, err := client.Generate(t.Context(), testIdeas(), "Demo", "web app")
	require.NoError(t, err)
	require.NotNil(t, analysis)
	assert.Equal(t, "2 months", analysis.TotalDuration)
	require.Len(t, analysis.Phases, 1)
	assert.Equal(t, "Search backend", analysis.Phases[0].Epics[0].Title)
}

func TestClientGenerateNoIdeas(t *testing.T) {
	client := NewClient("http://unused", "key", testLogger())

	_, err := client.Generate(t.Context(), nil, "Demo", "web app")
	assert.ErrorIs(t, err, ErrNoIdeas)
}

func TestClientGenerateRejectsOffSchemaPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(chatCompletion(`{"phases": "not an array"}`)))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", testLogger())

	_, err := client.Generate(t.Context(), testIdeas(), "Demo", "web app")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPayload)
	assert.True(t, IsGenerationFailed(err))
}

func TestClientGenerateRetriesServerErrors(t *testing.T) {
	calls := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)

			return
		}

		_, _ = w.Write([]byte(chatCompletion(validRoadmapJSON)))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", testLogger())
	client.retryDelay = time.Millisecond

	analysis, err := client.Generate(t.Context(), testIdeas(), "Demo", "web app")
	require.NoError(t, err)
	require.NotNil(t, analysis)
	assert.Equal(t, 2, calls)
}

func TestClientGenerateGivesUpAfterRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", testLogger())
	client.retryDelay = time.Millisecond

	_, err := client.Generate(t.Context(), testIdeas(), "Demo", "web app")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestClientGenerateClientErrorNotRetried(t *testing.T) {
	calls := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++

		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", testLogger())
	client.retryDelay = time.Millisecond

	_, err := client.Generate(t.Context(), testIdeas(), "Demo", "web app")
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestClientGenerateContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", testLogger())
	client.retryDelay = time.Minute

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := client.Generate(ctx, testIdeas(), "Demo", "web app")
	assert.Error(t, err)
}
