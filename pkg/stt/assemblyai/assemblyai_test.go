package assemblyai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"voice-ai-be/pkg/stt"

	"github.com/stretchr/testify/assert"
)

// fakeAssembly serves the three endpoints the client touches. statuses is the
// sequence of transcript statuses returned on successive polls.
type fakeAssembly struct {
	t        *testing.T
	statuses []string
	text     string
	errText  string
	polls    atomic.Int32
}

func (f *fakeAssembly) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(f.t, "test-key", r.Header.Get("authorization"))
		json.NewEncoder(w).Encode(map[string]string{"upload_url": "https://cdn.example/audio.wav"})
	})
	mux.HandleFunc("POST /transcript", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(f.t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(f.t, "https://cdn.example/audio.wav", body["audio_url"])
		assert.Equal(f.t, "en", body["language_code"])
		json.NewEncoder(w).Encode(map[string]string{"id": "tr_123", "status": "queued"})
	})
	mux.HandleFunc("GET /transcript/tr_123", func(w http.ResponseWriter, r *http.Request) {
		n := int(f.polls.Add(1)) - 1
		if n >= len(f.statuses) {
			n = len(f.statuses) - 1
		}
		json.NewEncoder(w).Encode(map[string]string{
			"id":     "tr_123",
			"status": f.statuses[n],
			"text":   f.text,
			"error":  f.errText,
		})
	})
	return mux
}

func newTestClient(baseURL string, timeout time.Duration) *Client {
	return NewClient("test-key", Config{
		BaseURL:      baseURL,
		PollInterval: 5 * time.Millisecond,
		PollTimeout:  timeout,
	})
}

func TestTranscribeCompletesAfterPolling(t *testing.T) {
	fake := &fakeAssembly{
		t:        t,
		statuses: []string{"queued", "processing", "completed"},
		text:     "hello from the audio",
	}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	client := newTestClient(srv.URL, time.Second)
	text, err := client.Transcribe(context.Background(), []byte("riff-data"))

	assert.NoError(t, err)
	assert.Equal(t, "hello from the audio", text)
	assert.Equal(t, int32(3), fake.polls.Load())
}

func TestTranscribeReportsJobError(t *testing.T) {
	fake := &fakeAssembly{
		t:        t,
		statuses: []string{"error"},
		errText:  "audio duration is too short",
	}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	client := newTestClient(srv.URL, time.Second)
	_, err := client.Transcribe(context.Background(), []byte("riff-data"))

	var jobErr *stt.JobError
	assert.True(t, errors.As(err, &jobErr))
	assert.Equal(t, "audio duration is too short", jobErr.Detail)
}

func TestTranscribePollingIsBounded(t *testing.T) {
	fake := &fakeAssembly{
		t:        t,
		statuses: []string{"processing"},
	}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	client := newTestClient(srv.URL, 30*time.Millisecond)
	_, err := client.Transcribe(context.Background(), []byte("riff-data"))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestTranscribeSurfacesUploadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, time.Second)
	_, err := client.Transcribe(context.Background(), []byte("riff-data"))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transcript", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"transcripts":[]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, time.Second)
	assert.NoError(t, client.Ping(context.Background()))

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer down.Close()

	client = newTestClient(down.URL, time.Second)
	assert.Error(t, client.Ping(context.Background()))
}
