package dto

type LLMRequest struct {
	Message   string `json:"message" validate:"required"`
	SessionID string `json:"session_id" validate:"required"`
}

type LLMResponse struct {
	Response string `json:"response"`
}

type ConfigResponse struct {
	GoogleAPIKey   string `json:"google_api_key"`
	GoogleClientID string `json:"google_client_id"`
}

type StatusResponse struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}
