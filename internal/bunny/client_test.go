package bunny

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ortoclub/platform-api/internal/config"
	"github.com/ortoclub/platform-api/internal/models"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(&config.BunnyConfig{
		LibraryID:  "12345",
		APIKey:     "test-key",
		APIBaseURL: srv.URL,
	})
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(&config.BunnyConfig{LibraryID: "12345"})
	assert.Error(t, err)

	_, err = NewClient(&config.BunnyConfig{APIKey: "test-key"})
	assert.Error(t, err)
}

func TestCreateVideo(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/library/12345/videos", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("AccessKey"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Knee Anatomy", body["title"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"guid": "abc-123", "title": body["title"], "status": 0})
	}))

	guid, uploadURL, err := client.CreateVideo(context.Background(), "Knee Anatomy")
	require.NoError(t, err)
	assert.Equal(t, "abc-123", guid)
	assert.Contains(t, uploadURL, "/library/12345/videos/abc-123")
}

func TestCreateVideoUpstreamError(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))

	_, _, err := client.CreateVideo(context.Background(), "Knee Anatomy")
	assert.Error(t, err)
}

func TestGetVideoStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		code int
		want models.VideoStatus
	}{
		{"queued", 0, models.VideoStatusUploading},
		{"processing", 1, models.VideoStatusProcessing},
		{"encoding", 2, models.VideoStatusProcessing},
		{"finished", 3, models.VideoStatusReady},
		{"resolution", 4, models.VideoStatusProcessing},
		{"failed", 5, models.VideoStatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/library/12345/videos/abc-123", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]any{"guid": "abc-123", "status": tt.code})
			}))

			status, err := client.GetVideoStatus(context.Background(), "abc-123")
			require.NoError(t, err)
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestDeleteVideo(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/library/12345/videos/abc-123", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))

	assert.NoError(t, client.DeleteVideo(context.Background(), "abc-123"))
}
