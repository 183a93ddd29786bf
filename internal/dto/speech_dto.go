package dto

type TranscriptionRequest struct {
	AudioData string `json:"audio_data" validate:"required"` // base64 encoded
}

type TranscriptionResponse struct {
	Text string `json:"text"`
}

type TTSRequest struct {
	Text string `json:"text" validate:"required"`
}

type TTSResponse struct {
	AudioData string `json:"audio_data"` // base64 encoded
}
