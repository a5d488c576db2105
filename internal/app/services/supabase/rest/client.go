package rest

import (
	"bytes"
	"clinic-portal-service/internal/app/models"
	"clinic-portal-service/internal/app/services/shared/ratelimiter"
	"clinic-portal-service/internal/app/services/shared/requestqueue"
	"clinic-portal-service/internal/pkg/constvars"
	"clinic-portal-service/internal/pkg/exceptions"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const mimeSingleObject = "application/vnd.pgrst.object+json"

type Config struct {
	URL            string
	AnonKey        string
	ServiceRoleKey string
	Schema         string
	Timeout        time.Duration
}

// Client issues PostgREST requests against a Supabase project. Every call waits for a
// request queue slot and a rate limiter token.
type Client struct {
	baseURL    string
	cfg        Config
	httpClient *http.Client
	queue      *requestqueue.Queue
	bucket     *ratelimiter.TokenBucket
	log        *zap.Logger
}

func NewClient(cfg Config, queue *requestqueue.Queue, bucket *ratelimiter.TokenBucket, log *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Schema == "" {
		cfg.Schema = constvars.SupabaseSchemaPublic
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/") + constvars.SupabaseRestPath,
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		queue:      queue,
		bucket:     bucket,
		log:        log,
	}
}

// Request describes one PostgREST call.
type Request struct {
	Method string
	Table  string
	Query  url.Values
	Body   interface{}
	Prefer string
	// Single asks PostgREST for exactly one row; zero rows become a 404.
	Single bool
	// AsService sends the service role key instead of the caller's token.
	AsService bool
}

// Response carries the row count parsed from Content-Range when one was requested.
type Response struct {
	StatusCode int
	Count      int
}

type postgrestError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e postgrestError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Do runs req and decodes the response body into dst when dst is not nil.
func (c *Client) Do(ctx context.Context, req Request, dst interface{}) (*Response, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	var body []byte
	if req.Body != nil {
		var err error
		body, err = json.Marshal(req.Body)
		if err != nil {
			c.log.Error("supabaseClient.Do error marshaling JSON",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingTableKey, req.Table),
				zap.Error(err),
			)
			return nil, exceptions.ErrCannotMarshalJSON(err)
		}
	}

	var out *Response
	err := c.queue.Do(ctx, req.Method+" "+req.Table, func(ctx context.Context) error {
		if err := c.bucket.Wait(ctx); err != nil {
			return exceptions.ErrServerDeadlineExceeded(err)
		}
		resp, err := c.send(ctx, requestID, req, body, dst)
		if err != nil {
			return err
		}
		out = resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) send(ctx context.Context, requestID string, req Request, body []byte, dst interface{}) (*Response, error) {
	endpoint := c.baseURL + req.Table
	if len(req.Query) > 0 {
		endpoint += "?" + req.Query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, endpoint, reader)
	if err != nil {
		c.log.Error("supabaseClient.Do error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingTableKey, req.Table),
			zap.Error(err),
		)
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	c.setHeaders(ctx, httpReq, req)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Error("supabaseClient.Do error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingTableKey, req.Table),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	c.log.Debug("supabaseClient.Do responded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingMethodKey, req.Method),
		zap.String(constvars.LoggingTableKey, req.Table),
		zap.Int(constvars.LoggingStatusCodeKey, resp.StatusCode),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, exceptions.ErrSendHTTPRequest(err)
	}

	if resp.StatusCode >= constvars.StatusBadRequest {
		mapped := c.mapError(req.Table, resp, bodyBytes)
		c.log.Error("supabaseClient.Do PostgREST error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingTableKey, req.Table),
			zap.Int(constvars.LoggingStatusCodeKey, resp.StatusCode),
			zap.Error(mapped),
		)
		return nil, mapped
	}

	out := &Response{StatusCode: resp.StatusCode, Count: parseContentRangeTotal(resp.Header.Get(constvars.HeaderContentRange))}
	if dst != nil && len(bodyBytes) > 0 {
		if err := json.Unmarshal(bodyBytes, dst); err != nil {
			c.log.Error("supabaseClient.Do error decoding response",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingTableKey, req.Table),
				zap.Error(err),
			)
			return nil, exceptions.ErrSupabaseDecodeResponse(err, req.Table)
		}
	}
	return out, nil
}

func (c *Client) setHeaders(ctx context.Context, httpReq *http.Request, req Request) {
	httpReq.Header.Set(constvars.HeaderAPIKey, c.cfg.AnonKey)
	httpReq.Header.Set(constvars.HeaderAuthorization, constvars.BearerPrefix+c.tokenFor(ctx, req.AsService))
	httpReq.Header.Set(constvars.HeaderAcceptProfile, c.cfg.Schema)
	if req.Body != nil {
		httpReq.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
		httpReq.Header.Set("Content-Profile", c.cfg.Schema)
	}
	if req.Single {
		httpReq.Header.Set(constvars.HeaderAccept, mimeSingleObject)
	} else {
		httpReq.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationJSON)
	}
	if req.Prefer != "" {
		httpReq.Header.Set(constvars.HeaderPrefer, req.Prefer)
	}
	if requestID, ok := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string); ok && requestID != "" {
		httpReq.Header.Set(constvars.HeaderXRequestID, requestID)
	}
}

// tokenFor returns the caller's access token so row level security applies, falling back to
// the service role key for background work.
func (c *Client) tokenFor(ctx context.Context, asService bool) string {
	if !asService {
		if user, ok := ctx.Value(constvars.CONTEXT_AUTH_USER_KEY).(models.AuthUser); ok && user.AccessToken != "" {
			return user.AccessToken
		}
	}
	if c.cfg.ServiceRoleKey != "" {
		return c.cfg.ServiceRoleKey
	}
	return c.cfg.AnonKey
}

func (c *Client) mapError(table string, resp *http.Response, body []byte) error {
	var pgErr postgrestError
	if err := json.Unmarshal(body, &pgErr); err != nil || (pgErr.Code == "" && pgErr.Message == "") {
		pgErr = postgrestError{Code: strconv.Itoa(resp.StatusCode), Message: strings.TrimSpace(string(body))}
	}

	switch {
	case pgErr.Code == constvars.PostgrestCodeNoRows || resp.StatusCode == constvars.StatusNotFound:
		return exceptions.ErrSupabaseNotFound(pgErr, table)
	case pgErr.Code == constvars.PostgresCodeInsufficientPriv || resp.StatusCode == constvars.StatusForbidden:
		return exceptions.ErrSupabaseForbidden(pgErr, table)
	case resp.StatusCode == constvars.StatusUnauthorized:
		return exceptions.ErrTokenInvalidOrExpired(pgErr)
	case pgErr.Code == constvars.PostgresCodeUniqueViolation || resp.StatusCode == constvars.StatusConflict:
		return exceptions.ErrSupabaseConflict(pgErr, table)
	case resp.StatusCode == constvars.StatusTooManyRequests:
		return exceptions.ErrRateLimited(pgErr, table)
	case pgErr.Code == constvars.PostgresCodeForeignKey,
		pgErr.Code == constvars.PostgresCodeCheckViolation,
		resp.StatusCode == constvars.StatusBadRequest:
		return exceptions.ErrSupabaseBadRequest(pgErr, table)
	case resp.StatusCode == constvars.StatusServiceUnavailable || resp.StatusCode == constvars.StatusGatewayTimeout:
		return exceptions.ErrSupabaseRequest(pgErr, resp.StatusCode, table)
	default:
		return exceptions.ErrSupabaseRequest(pgErr, constvars.StatusBadGateway, table)
	}
}

// Ping calls the PostgREST root directly, bypassing the request queue and the token bucket.
func (c *Client) Ping(ctx context.Context) (time.Duration, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return 0, exceptions.ErrCreateHTTPRequest(err)
	}
	httpReq.Header.Set(constvars.HeaderAPIKey, c.cfg.AnonKey)
	httpReq.Header.Set(constvars.HeaderAuthorization, constvars.BearerPrefix+c.cfg.AnonKey)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	elapsed := time.Since(start)

	if resp.StatusCode >= constvars.StatusInternalServerError {
		return elapsed, exceptions.ErrSupabaseRequest(fmt.Errorf("ping returned %d", resp.StatusCode), resp.StatusCode, "rest")
	}
	return elapsed, nil
}

// parseContentRangeTotal reads the total from "0-24/3573" or "*/0"; unknown totals are -1.
func parseContentRangeTotal(header string) int {
	idx := strings.LastIndex(header, "/")
	if idx < 0 || idx == len(header)-1 {
		return -1
	}
	total, err := strconv.Atoi(header[idx+1:])
	if err != nil {
		return -1
	}
	return total
}
