package responses

import "time"

type DocumentDownload struct {
	DocumentID string    `json:"document_id"`
	URL        string    `json:"url"`
	ExpiresAt  time.Time `json:"expires_at"`
}
