package responses

import "time"

type DiagnosticKind string

const (
	DiagnosticKindConnection DiagnosticKind = "connection"
	DiagnosticKindStorage    DiagnosticKind = "storage"
	DiagnosticKindRealtime   DiagnosticKind = "realtime"
	DiagnosticKindTimeZone   DiagnosticKind = "time_zone"
)

// DiagnosticResult is the outcome of one check. Exactly one detail pointer, the one matching
// Kind, is set.
type DiagnosticResult struct {
	Kind       DiagnosticKind        `json:"kind"`
	Name       string                `json:"name"`
	Success    bool                  `json:"success"`
	Message    string                `json:"message"`
	Connection *ConnectionDiagnostic `json:"connection,omitempty"`
	Storage    *StorageDiagnostic    `json:"storage,omitempty"`
	Realtime   *RealtimeDiagnostic   `json:"realtime,omitempty"`
	TimeZone   *TimeZoneDiagnostic   `json:"time_zone,omitempty"`
}

type ConnectionDiagnostic struct {
	Target    string `json:"target"`
	LatencyMS int64  `json:"latency_ms"`
}

type StorageDiagnostic struct {
	Bucket string `json:"bucket"`
	Exists bool   `json:"exists"`
}

type RealtimeDiagnostic struct {
	Enabled       bool      `json:"enabled"`
	Connected     bool      `json:"connected"`
	Channels      int       `json:"channels"`
	Reconnects    int       `json:"reconnects"`
	LastError     string    `json:"last_error,omitempty"`
	LastHeartbeat time.Time `json:"last_heartbeat,omitempty"`
}

type TimeZoneDiagnostic struct {
	Requested string `json:"requested"`
	Resolved  string `json:"resolved"`
	FellBack  bool   `json:"fell_back"`
	UTCOffset string `json:"utc_offset"`
	// LocalNow is the current wall-clock time in the resolved zone.
	LocalNow string `json:"local_now"`
}

type Diagnostics struct {
	Healthy   bool               `json:"healthy"`
	CheckedAt time.Time          `json:"checked_at"`
	Results   []DiagnosticResult `json:"results"`
}
