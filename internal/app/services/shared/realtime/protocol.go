package realtime

import (
	"time"

	"github.com/goccy/go-json"
)

// Phoenix channel events used by Supabase Realtime.
const (
	eventJoin            = "phx_join"
	eventLeave           = "phx_leave"
	eventReply           = "phx_reply"
	eventError           = "phx_error"
	eventClose           = "phx_close"
	eventHeartbeat       = "heartbeat"
	eventPostgresChanges = "postgres_changes"

	topicPhoenix = "phoenix"
	topicPrefix  = "realtime:"
)

type message struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     string          `json:"ref,omitempty"`
}

type joinPayload struct {
	Config      joinConfig `json:"config"`
	AccessToken string     `json:"access_token,omitempty"`
}

type joinConfig struct {
	PostgresChanges []postgresChangeFilter `json:"postgres_changes"`
}

type postgresChangeFilter struct {
	Event  string `json:"event"`
	Schema string `json:"schema"`
	Table  string `json:"table,omitempty"`
	Filter string `json:"filter,omitempty"`
}

type replyPayload struct {
	Status   string          `json:"status"`
	Response json.RawMessage `json:"response"`
}

type changesPayload struct {
	Data changeData `json:"data"`
}

type changeData struct {
	Schema          string                 `json:"schema"`
	Table           string                 `json:"table"`
	CommitTimestamp time.Time              `json:"commit_timestamp"`
	Type            string                 `json:"type"`
	Record          map[string]interface{} `json:"record"`
	OldRecord       map[string]interface{} `json:"old_record"`
}

// Subscription selects Postgres changes for one channel. Event is INSERT, UPDATE, DELETE or "*".
type Subscription struct {
	Channel string
	Schema  string
	Table   string
	Event   string
	Filter  string
}

// ChangeEvent is one Postgres row change delivered over a channel.
type ChangeEvent struct {
	Type            string
	Schema          string
	Table           string
	Record          map[string]interface{}
	OldRecord       map[string]interface{}
	CommitTimestamp time.Time
}

// StringField returns key from Record, falling back to OldRecord for deletes.
func (e ChangeEvent) StringField(key string) string {
	if v, ok := e.Record[key].(string); ok && v != "" {
		return v
	}
	if v, ok := e.OldRecord[key].(string); ok {
		return v
	}
	return ""
}

type Status struct {
	Connected     bool      `json:"connected"`
	Channels      int       `json:"channels"`
	Reconnects    int       `json:"reconnects"`
	LastError     string    `json:"last_error,omitempty"`
	LastHeartbeat time.Time `json:"last_heartbeat,omitempty"`
	ConnectedAt   time.Time `json:"connected_at,omitempty"`
}
