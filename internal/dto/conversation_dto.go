package dto

// Websocket message types (client -> server).
const (
	WSTypeAudio = "audio"
	WSTypeText  = "text"
)

// Websocket event types (server -> client).
const (
	WSEventTranscription = "transcription"
	WSEventLLMResponse   = "llm_response"
	WSEventTTS           = "tts"
	WSEventError         = "error"
	WSEventNotification  = "notification"
)

// WSMessage is one client turn request. AudioData carries base64 audio for
// "audio" turns; Message carries the utterance for "text" turns.
type WSMessage struct {
	Type      string `json:"type"`
	AudioData string `json:"audio_data,omitempty"`
	Message   string `json:"message,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// WSEvent is one server emission. Each pipeline stage emits its own event as
// soon as its output is available.
type WSEvent struct {
	Type      string                 `json:"type"`
	Text      string                 `json:"text,omitempty"`
	AudioData string                 `json:"audio_data,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
}
