package models

import (
	"encoding/json"
	"time"
)

type Assessment struct {
	ID          string          `json:"id,omitempty"`
	ClientID    string          `json:"client_id"`
	ClinicianID string          `json:"clinician_id,omitempty"`
	Instrument  string          `json:"instrument"`
	Answers     json.RawMessage `json:"answers,omitempty"`
	Score       *int            `json:"score,omitempty"`
	Severity    string          `json:"severity,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	CreatedAt   *time.Time      `json:"created_at,omitempty"`
}
