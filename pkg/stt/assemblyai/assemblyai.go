package assemblyai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"voice-ai-be/pkg/stt"
)

const defaultBaseURL = "https://api.assemblyai.com/v2"

// Config holds the tunables for a Client. Zero values fall back to the
// AssemblyAI production endpoint, English, 1s polling and a 2 minute budget.
type Config struct {
	BaseURL      string
	Language     string
	PollInterval time.Duration
	PollTimeout  time.Duration
}

type Client struct {
	apiKey       string
	baseURL      string
	language     string
	pollInterval time.Duration
	pollTimeout  time.Duration
	httpClient   *http.Client
}

type transcriptResource struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Text   string `json:"text"`
	Error  string `json:"error"`
}

func NewClient(apiKey string, cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 1 * time.Second
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 2 * time.Minute
	}
	return &Client{
		apiKey:       apiKey,
		baseURL:      cfg.BaseURL,
		language:     cfg.Language,
		pollInterval: cfg.PollInterval,
		pollTimeout:  cfg.PollTimeout,
		httpClient:   &http.Client{},
	}
}

// Transcribe uploads the audio, submits a transcription job and polls until
// the job reaches a terminal status or the poll budget runs out.
func (c *Client) Transcribe(ctx context.Context, audio []byte) (string, error) {
	audioURL, err := c.upload(ctx, audio)
	if err != nil {
		return "", err
	}

	transcriptID, err := c.submit(ctx, audioURL)
	if err != nil {
		return "", err
	}

	return c.poll(ctx, transcriptID)
}

func (c *Client) upload(ctx context.Context, audio []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/upload", bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("authorization", c.apiKey)
	req.Header.Set("content-type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upload failed (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var uploadResp struct {
		UploadURL string `json:"upload_url"`
	}
	if err := json.Unmarshal(bodyBytes, &uploadResp); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	return uploadResp.UploadURL, nil
}

func (c *Client) submit(ctx context.Context, audioURL string) (string, error) {
	reqBody, err := json.Marshal(map[string]string{
		"audio_url":     audioURL,
		"language_code": c.language,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal transcript request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/transcript", bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create transcript request: %w", err)
	}
	req.Header.Set("authorization", c.apiKey)
	req.Header.Set("content-type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcript request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcription request failed (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var tr transcriptResource
	if err := json.Unmarshal(bodyBytes, &tr); err != nil {
		return "", fmt.Errorf("failed to decode transcript response: %w", err)
	}
	return tr.ID, nil
}

// poll checks the job every pollInterval. The wait is bounded: the context is
// capped with pollTimeout so a stuck upstream job cannot hold a turn forever.
func (c *Client) poll(ctx context.Context, transcriptID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.pollTimeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		tr, err := c.status(ctx, transcriptID)
		if err != nil {
			return "", err
		}

		switch tr.Status {
		case "completed":
			return tr.Text, nil
		case "error":
			return "", &stt.JobError{Detail: tr.Error}
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("transcription polling timed out: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

func (c *Client) status(ctx context.Context, transcriptID string) (*transcriptResource, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/transcript/"+transcriptID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create polling request: %w", err)
	}
	req.Header.Set("authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("polling request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("polling failed (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var tr transcriptResource
	if err := json.Unmarshal(bodyBytes, &tr); err != nil {
		return nil, fmt.Errorf("failed to decode polling response: %w", err)
	}
	return &tr, nil
}

// Ping lists one transcript to verify the endpoint and API key.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/transcript?limit=1", nil)
	if err != nil {
		return err
	}
	req.Header.Set("authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("assemblyai unreachable: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("assemblyai status check failed (status %d)", resp.StatusCode)
	}
	return nil
}
