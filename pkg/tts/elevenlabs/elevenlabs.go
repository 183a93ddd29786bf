package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const defaultBaseURL = "https://api.elevenlabs.io/v1"

// Config selects the voice, model and output encoding for every request.
type Config struct {
	BaseURL      string
	VoiceID      string
	ModelID      string
	OutputFormat string
}

type Client struct {
	apiKey       string
	baseURL      string
	voiceID      string
	modelID      string
	outputFormat string
	httpClient   *http.Client
}

func NewClient(apiKey string, cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.VoiceID == "" {
		cfg.VoiceID = "JBFqnCBsd6RMkjVDRZzb"
	}
	if cfg.ModelID == "" {
		cfg.ModelID = "eleven_multilingual_v2"
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = "mp3_44100_128"
	}
	return &Client{
		apiKey:       apiKey,
		baseURL:      cfg.BaseURL,
		voiceID:      cfg.VoiceID,
		modelID:      cfg.ModelID,
		outputFormat: cfg.OutputFormat,
		httpClient:   &http.Client{},
	}
}

// Synthesize converts text into one audio buffer.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	body, err := c.convert(ctx, text, false)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	audio, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio body: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("tts api returned no audio")
	}
	return audio, nil
}

// SynthesizeStream converts text into audio delivered as a byte stream. The
// response body is handed to the caller unchanged.
func (c *Client) SynthesizeStream(ctx context.Context, text string) (io.ReadCloser, error) {
	return c.convert(ctx, text, true)
}

func (c *Client) convert(ctx context.Context, text string, stream bool) (io.ReadCloser, error) {
	endpoint := fmt.Sprintf("%s/text-to-speech/%s", c.baseURL, c.voiceID)
	if stream {
		endpoint += "/stream"
	}
	endpoint += "?output_format=" + url.QueryEscape(c.outputFormat)

	reqBody, err := json.Marshal(map[string]string{
		"text":     text,
		"model_id": c.modelID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("elevenlabs api error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}
	return resp.Body, nil
}
