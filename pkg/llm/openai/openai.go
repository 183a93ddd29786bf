package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"voice-ai-be/pkg/llm"
)

const defaultBaseURL = "https://api.openai.com/v1"

type OpenAIProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type apiError struct {
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewOpenAIProvider(apiKey, baseURL string) *OpenAIProvider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &OpenAIProvider{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

// Respond calls the responses API with a file_search tool scoped to the
// request's vector stores.
func (p *OpenAIProvider) Respond(ctx context.Context, req llm.Request) (string, error) {
	payload := map[string]interface{}{
		"model":        req.Model,
		"instructions": req.Instructions,
		"input":        req.Input,
		"temperature":  req.Temperature,
	}
	if len(req.VectorStoreIDs) > 0 {
		payload["tools"] = []map[string]interface{}{{
			"type":             "file_search",
			"vector_store_ids": req.VectorStoreIDs,
		}}
	}

	bodyBytes, err := p.post(ctx, "/responses", payload)
	if err != nil {
		return "", err
	}

	var respBody struct {
		apiError
		Output []struct {
			Type    string `json:"type"`
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"output"`
	}
	if err := json.Unmarshal(bodyBytes, &respBody); err != nil {
		return "", fmt.Errorf("failed to decode responses payload: %w", err)
	}
	if respBody.Error != nil {
		return "", fmt.Errorf("openai api returned error: %s", respBody.Error.Message)
	}

	var sb strings.Builder
	for _, out := range respBody.Output {
		if out.Type != "message" {
			continue
		}
		for _, content := range out.Content {
			if content.Type == "output_text" {
				sb.WriteString(content.Text)
			}
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("empty output from openai api")
	}
	return sb.String(), nil
}

// CreateIndex creates a vector store and returns its id.
func (p *OpenAIProvider) CreateIndex(ctx context.Context, name string) (string, error) {
	bodyBytes, err := p.post(ctx, "/vector_stores", map[string]interface{}{"name": name})
	if err != nil {
		return "", err
	}

	var store struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(bodyBytes, &store); err != nil {
		return "", fmt.Errorf("failed to decode vector store response: %w", err)
	}
	return store.ID, nil
}

// UploadDocument uploads raw file content for assistants usage and returns
// the vendor file id.
func (p *OpenAIProvider) UploadDocument(ctx context.Context, filename string, content []byte) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("purpose", "assistants"); err != nil {
		return "", fmt.Errorf("failed to write purpose field: %w", err)
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return "", fmt.Errorf("failed to write file content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/files", &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("file upload failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai api error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var file struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(bodyBytes, &file); err != nil {
		return "", fmt.Errorf("failed to decode file response: %w", err)
	}
	return file.ID, nil
}

// AttachDocument registers an uploaded file with a vector store.
func (p *OpenAIProvider) AttachDocument(ctx context.Context, indexID, documentID string) error {
	_, err := p.post(ctx, "/vector_stores/"+indexID+"/files", map[string]interface{}{
		"file_id": documentID,
	})
	return err
}

// RemoveDocument detaches a file from a vector store.
func (p *OpenAIProvider) RemoveDocument(ctx context.Context, indexID, documentID string) error {
	req, err := http.NewRequestWithContext(ctx, "DELETE", p.baseURL+"/vector_stores/"+indexID+"/files/"+documentID, nil)
	if err != nil {
		return fmt.Errorf("failed to create delete request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("openai api error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}
	return nil
}

// Ping lists models to verify the endpoint and API key.
func (p *OpenAIProvider) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", p.baseURL+"/models", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("openai unreachable: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("openai status check failed (status %d)", resp.StatusCode)
	}
	return nil
}

func (p *OpenAIProvider) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai api error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}
	return bodyBytes, nil
}
