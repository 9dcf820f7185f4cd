// Package bunny is a thin client for the Bunny Stream video API. The CDN
// owns transcoding and delivery; this service only creates video resources,
// polls their processing status and records the outcome.
package bunny

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ortoclub/platform-api/internal/config"
	"github.com/ortoclub/platform-api/internal/models"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	libraryID  string
	apiKey     string
}

func NewClient(cfg *config.BunnyConfig) (*Client, error) {
	if cfg.LibraryID == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("bunny library id and api key are required")
	}

	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    cfg.APIBaseURL,
		libraryID:  cfg.LibraryID,
		apiKey:     cfg.APIKey,
	}, nil
}

// LibraryID returns the configured stream library.
func (c *Client) LibraryID() string {
	return c.libraryID
}

type createVideoRequest struct {
	Title string `json:"title"`
}

type videoResponse struct {
	GUID   string `json:"guid"`
	Title  string `json:"title"`
	Status int    `json:"status"`
}

// Bunny status codes per the Stream API.
const (
	statusQueued     = 0
	statusProcessing = 1
	statusEncoding   = 2
	statusFinished   = 3
	statusResolution = 4
	statusFailed     = 5
)

// CreateVideo registers a new video in the library and returns its guid and
// the TUS/PUT upload endpoint the admin frontend uploads to.
func (c *Client) CreateVideo(ctx context.Context, title string) (guid, uploadURL string, err error) {
	body, err := json.Marshal(createVideoRequest{Title: title})
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal create video request: %w", err)
	}

	url := fmt.Sprintf("%s/library/%s/videos", c.baseURL, c.libraryID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", "", fmt.Errorf("failed to build create video request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("AccessKey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("failed to create video: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", "", fmt.Errorf("create video returned %d: %s", resp.StatusCode, payload)
	}

	var video videoResponse
	if err := json.NewDecoder(resp.Body).Decode(&video); err != nil {
		return "", "", fmt.Errorf("failed to decode create video response: %w", err)
	}

	uploadURL = fmt.Sprintf("%s/library/%s/videos/%s", c.baseURL, c.libraryID, video.GUID)
	return video.GUID, uploadURL, nil
}

// GetVideoStatus polls the CDN for a video's transcoding state, mapped to
// the platform's status enum.
func (c *Client) GetVideoStatus(ctx context.Context, guid string) (models.VideoStatus, error) {
	url := fmt.Sprintf("%s/library/%s/videos/%s", c.baseURL, c.libraryID, guid)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build video status request: %w", err)
	}
	req.Header.Set("AccessKey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to get video status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("video status returned %d: %s", resp.StatusCode, payload)
	}

	var video videoResponse
	if err := json.NewDecoder(resp.Body).Decode(&video); err != nil {
		return "", fmt.Errorf("failed to decode video status response: %w", err)
	}

	return mapStatus(video.Status), nil
}

// DeleteVideo removes the video from the CDN library.
func (c *Client) DeleteVideo(ctx context.Context, guid string) error {
	url := fmt.Sprintf("%s/library/%s/videos/%s", c.baseURL, c.libraryID, guid)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build delete video request: %w", err)
	}
	req.Header.Set("AccessKey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("delete video returned %d: %s", resp.StatusCode, payload)
	}

	return nil
}

func mapStatus(code int) models.VideoStatus {
	switch code {
	case statusQueued:
		return models.VideoStatusUploading
	case statusProcessing, statusEncoding, statusResolution:
		return models.VideoStatusProcessing
	case statusFinished:
		return models.VideoStatusReady
	case statusFailed:
		return models.VideoStatusFailed
	}
	return models.VideoStatusProcessing
}
