package dto

const (
	FileStatusIngested  = "ingested"
	FileStatusDuplicate = "duplicate"
	FileStatusFailed    = "failed"
)

// FileResult reports the outcome for one file in an upload batch so callers
// can react to individual failures instead of a silent aggregate count.
type FileResult struct {
	Filename string `json:"filename"`
	Hash     string `json:"hash"`
	FileID   string `json:"file_id,omitempty"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
}

type UploadResponse struct {
	Message   string       `json:"message"`
	SessionID string       `json:"session_id"`
	Files     []FileResult `json:"files"`
}
