package realtime

import (
	"clinic-portal-service/internal/app/services/shared/metrics"
	"clinic-portal-service/internal/pkg/constvars"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Handler func(ctx context.Context, event ChangeEvent)

type Config struct {
	// URL is the Supabase project URL; the websocket endpoint is derived from it.
	URL               string
	APIKey            string
	AccessToken       string
	HeartbeatInterval time.Duration
	BaseBackoff       time.Duration
	MaxBackoff        time.Duration
}

type channel struct {
	sub     Subscription
	topic   string
	handler Handler
	joined  bool
}

// Manager keeps one websocket to Supabase Realtime and multiplexes channel subscriptions over it.
type Manager struct {
	cfg     Config
	log     *zap.Logger
	metrics *metrics.RealtimeMetrics
	dialer  *websocket.Dialer

	mu       sync.Mutex
	channels map[string]*channel
	conn     *websocket.Conn
	status   Status
	nextID   int

	writeMu sync.Mutex
	ref     uint64
}

func NewManager(cfg Config, log *zap.Logger, m *metrics.RealtimeMetrics) *Manager {
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = 30 * time.Second
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = time.Second
	}
	if cfg.MaxBackoff < cfg.BaseBackoff {
		cfg.MaxBackoff = 30 * time.Second
	}
	return &Manager{
		cfg:      cfg,
		log:      log,
		metrics:  m,
		dialer:   websocket.DefaultDialer,
		channels: make(map[string]*channel),
	}
}

// Subscribe registers handler for changes matching sub and joins the channel right away when
// connected. The returned func leaves the channel.
func (m *Manager) Subscribe(sub Subscription, handler Handler) func() {
	if sub.Schema == "" {
		sub.Schema = "public"
	}
	if sub.Event == "" {
		sub.Event = "*"
	}

	m.mu.Lock()
	m.nextID++
	name := sub.Channel
	if name == "" {
		name = sub.Table
	}
	topic := fmt.Sprintf("%s%s-%d", topicPrefix, name, m.nextID)
	ch := &channel{sub: sub, topic: topic, handler: handler}
	m.channels[topic] = ch
	conn := m.conn
	m.mu.Unlock()

	if conn != nil {
		if err := m.join(conn, ch); err != nil {
			m.log.Warn("Manager.Subscribe join failed, will retry on reconnect",
				zap.String(constvars.LoggingChannelKey, topic),
				zap.Error(err),
			)
		}
	}

	return func() {
		m.mu.Lock()
		_, ok := m.channels[topic]
		delete(m.channels, topic)
		conn := m.conn
		m.mu.Unlock()
		if ok && conn != nil {
			_ = m.send(conn, topic, eventLeave, struct{}{})
		}
	}
}

func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.status
	s.Channels = len(m.channels)
	return s
}

// Run connects and keeps the connection alive until ctx is done, reconnecting with exponential
// backoff and rejoining every channel after each reconnect.
func (m *Manager) Run(ctx context.Context) error {
	backoff := m.cfg.BaseBackoff
	for {
		connectedFor, err := m.runOnce(ctx)
		if ctx.Err() != nil {
			return nil
		}

		m.mu.Lock()
		m.status.Connected = false
		m.status.Reconnects++
		if err != nil {
			m.status.LastError = err.Error()
		}
		m.mu.Unlock()
		m.metrics.ObserveReconnect()

		if connectedFor > m.cfg.MaxBackoff {
			backoff = m.cfg.BaseBackoff
		}
		m.log.Warn("Manager.Run connection lost, reconnecting",
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > m.cfg.MaxBackoff {
			backoff = m.cfg.MaxBackoff
		}
	}
}

func (m *Manager) runOnce(ctx context.Context) (time.Duration, error) {
	endpoint, err := m.endpoint()
	if err != nil {
		return 0, err
	}

	conn, _, err := m.dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("dial realtime: %w", err)
	}
	connectedAt := time.Now()
	defer conn.Close()

	m.mu.Lock()
	m.conn = conn
	m.status.Connected = true
	m.status.ConnectedAt = connectedAt
	channels := make([]*channel, 0, len(m.channels))
	for _, ch := range m.channels {
		ch.joined = false
		channels = append(channels, ch)
	}
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.conn = nil
		m.mu.Unlock()
	}()

	m.log.Info("Manager.Run connected", zap.Int("channels", len(channels)))
	for _, ch := range channels {
		if err := m.join(conn, ch); err != nil {
			return time.Since(connectedAt), err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return m.heartbeat(gctx, conn)
	})
	g.Go(func() error {
		return m.readLoop(gctx, conn)
	})
	g.Go(func() error {
		<-gctx.Done()
		_ = conn.Close()
		return nil
	})
	err = g.Wait()
	return time.Since(connectedAt), err
}

func (m *Manager) heartbeat(ctx context.Context, conn *websocket.Conn) error {
	ticker := time.NewTicker(m.cfg.HeartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := m.send(conn, topicPhoenix, eventHeartbeat, struct{}{}); err != nil {
				return fmt.Errorf("send heartbeat: %w", err)
			}
		}
	}
}

func (m *Manager) readLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read realtime: %w", err)
		}

		var msg message
		if err := json.Unmarshal(data, &msg); err != nil {
			m.log.Warn("Manager.Run dropped undecodable message", zap.Error(err))
			continue
		}
		m.handle(ctx, msg)
	}
}

func (m *Manager) handle(ctx context.Context, msg message) {
	switch msg.Event {
	case eventReply:
		var reply replyPayload
		_ = json.Unmarshal(msg.Payload, &reply)
		if msg.Topic == topicPhoenix {
			m.mu.Lock()
			m.status.LastHeartbeat = time.Now()
			m.mu.Unlock()
			return
		}
		m.mu.Lock()
		ch, ok := m.channels[msg.Topic]
		if ok && reply.Status == "ok" {
			ch.joined = true
		}
		m.mu.Unlock()
		if reply.Status != "ok" {
			m.log.Error("Manager.Run channel join rejected",
				zap.String(constvars.LoggingChannelKey, msg.Topic),
				zap.ByteString("response", reply.Response),
			)
		}
	case eventPostgresChanges:
		var payload changesPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			m.log.Warn("Manager.Run dropped undecodable change",
				zap.String(constvars.LoggingChannelKey, msg.Topic),
				zap.Error(err),
			)
			return
		}
		m.dispatch(ctx, msg.Topic, payload.Data)
	case eventError, eventClose:
		m.mu.Lock()
		if ch, ok := m.channels[msg.Topic]; ok {
			ch.joined = false
		}
		m.mu.Unlock()
		m.log.Warn("Manager.Run channel closed by server",
			zap.String(constvars.LoggingChannelKey, msg.Topic),
			zap.String("event", msg.Event),
		)
	}
}

func (m *Manager) dispatch(ctx context.Context, topic string, data changeData) {
	m.mu.Lock()
	ch, ok := m.channels[topic]
	m.mu.Unlock()
	if !ok || !matches(ch.sub, data) {
		return
	}

	m.metrics.ObserveChange(data.Table, data.Type)
	event := ChangeEvent{
		Type:            data.Type,
		Schema:          data.Schema,
		Table:           data.Table,
		Record:          data.Record,
		OldRecord:       data.OldRecord,
		CommitTimestamp: data.CommitTimestamp,
	}

	defer func() {
		if r := recover(); r != nil {
			m.log.Error("Manager.Run handler panicked",
				zap.String(constvars.LoggingChannelKey, topic),
				zap.Any("panic", r),
			)
		}
	}()
	ch.handler(ctx, event)
}

func matches(sub Subscription, data changeData) bool {
	if sub.Table != "" && sub.Table != data.Table {
		return false
	}
	return sub.Event == "*" || strings.EqualFold(sub.Event, data.Type)
}

func (m *Manager) join(conn *websocket.Conn, ch *channel) error {
	payload := joinPayload{
		Config: joinConfig{PostgresChanges: []postgresChangeFilter{{
			Event:  ch.sub.Event,
			Schema: ch.sub.Schema,
			Table:  ch.sub.Table,
			Filter: ch.sub.Filter,
		}}},
		AccessToken: m.cfg.AccessToken,
	}
	return m.send(conn, ch.topic, eventJoin, payload)
}

func (m *Manager) send(conn *websocket.Conn, topic, event string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	m.ref++
	frame, err := json.Marshal(message{
		Topic:   topic,
		Event:   event,
		Payload: body,
		Ref:     strconv.FormatUint(m.ref, 10),
	})
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, frame)
}

func (m *Manager) endpoint() (string, error) {
	if m.cfg.URL == "" {
		return "", errors.New("realtime url is not configured")
	}
	u, err := url.Parse(m.cfg.URL)
	if err != nil {
		return "", fmt.Errorf("parse realtime url: %w", err)
	}
	switch u.Scheme {
	case "https", "wss":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	if !strings.HasSuffix(u.Path, constvars.SupabaseRealtimePath) {
		u.Path = strings.TrimSuffix(u.Path, "/") + constvars.SupabaseRealtimePath
	}
	q := u.Query()
	q.Set("apikey", m.cfg.APIKey)
	q.Set("vsn", "1.0.0")
	u.RawQuery = q.Encode()
	return u.String(), nil
}
