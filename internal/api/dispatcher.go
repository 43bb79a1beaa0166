package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"salas/internal/config"
	"salas/internal/domain"
	"salas/internal/logging"
	"salas/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const requestIDHeader = "X-Request-ID"

// Dispatcher sends every outbound API call and decides per operation
// whether the bearer token is attached:
//
//	Get      bearer when logged in (query dropped), else query and no auth
//	GetByID  never
//	Post     bearer when logged in
//	Put      never
//	Delete   always, even with an empty token
//
// Nothing is retried or cached. Non-2xx responses are returned as *HTTPError.
type Dispatcher struct {
	baseURL    string
	userAgent  string
	auth       domain.AuthState
	httpClient *http.Client
	throttle   *throttle
	logger     *zerolog.Logger
}

// NewDispatcher constructs a dispatcher for cfg.BaseURL reading credentials from auth.
func NewDispatcher(cfg config.APIConfig, auth domain.AuthState, logger *zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		auth:       auth,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		throttle:   newThrottle(cfg.RateLimit),
		logger:     logging.Component(logger, "dispatcher"),
	}
}

// BaseURL returns the API root without a trailing slash.
func (d *Dispatcher) BaseURL() string {
	return d.baseURL
}

// Get fetches the collection at endpoint. The query is sent only when the
// session is anonymous.
func (d *Dispatcher) Get(ctx context.Context, endpoint string, query url.Values, out any) error {
	if token, ok := d.session(); ok {
		return d.do(ctx, request{
			method:   http.MethodGet,
			endpoint: endpoint,
			url:      d.collectionURL(endpoint, nil),
			bearer:   true,
			token:    token,
		}, out)
	}
	return d.do(ctx, request{
		method:   http.MethodGet,
		endpoint: endpoint,
		url:      d.collectionURL(endpoint, query),
	}, out)
}

// GetByID fetches one item. It is always sent without credentials.
func (d *Dispatcher) GetByID(ctx context.Context, endpoint, id string, out any) error {
	return d.do(ctx, request{
		method:   http.MethodGet,
		endpoint: endpoint,
		url:      d.itemURL(endpoint, id),
	}, out)
}

// Post creates an item, authenticated when logged in.
func (d *Dispatcher) Post(ctx context.Context, endpoint string, body, out any) error {
	req := request{
		method:   http.MethodPost,
		endpoint: endpoint,
		url:      d.collectionURL(endpoint, nil),
		body:     body,
	}
	if token, ok := d.session(); ok {
		req.bearer = true
		req.token = token
	}
	return d.do(ctx, req, out)
}

// Put overwrites an item. It is always sent without credentials.
func (d *Dispatcher) Put(ctx context.Context, endpoint, id string, body, out any) error {
	return d.do(ctx, request{
		method:   http.MethodPut,
		endpoint: endpoint,
		url:      d.itemURL(endpoint, id),
		body:     body,
	}, out)
}

// Delete removes an item. The bearer header is always sent with whatever
// token is stored, including none.
func (d *Dispatcher) Delete(ctx context.Context, endpoint, id string) error {
	token, _ := d.session()
	return d.do(ctx, request{
		method:   http.MethodDelete,
		endpoint: endpoint,
		url:      d.itemURL(endpoint, id),
		bearer:   true,
		token:    token,
	}, nil)
}

// session reads the flag and token from a single snapshot so an expiry
// between two reads cannot produce a logged-in request with no token.
func (d *Dispatcher) session() (string, bool) {
	cred := d.auth.Current()
	if cred == nil || !cred.LoggedIn {
		return "", false
	}
	return cred.Token, true
}

type request struct {
	method   string
	endpoint string
	url      string
	body     any
	bearer   bool
	token    string
}

func (d *Dispatcher) collectionURL(endpoint string, query url.Values) string {
	u := fmt.Sprintf("%s/%s/", d.baseURL, strings.Trim(endpoint, "/"))
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (d *Dispatcher) itemURL(endpoint, id string) string {
	return fmt.Sprintf("%s/%s/%s/", d.baseURL, strings.Trim(endpoint, "/"), url.PathEscape(id))
}

func (d *Dispatcher) do(ctx context.Context, r request, out any) error {
	if err := d.throttle.wait(ctx); err != nil {
		return err
	}

	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", r.endpoint, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, r.url, body)
	if err != nil {
		return err
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.bearer {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	start := time.Now()
	resp, err := d.httpClient.Do(req)
	dur := time.Since(start)
	if err != nil {
		metrics.ObserveAPI(r.endpoint, r.method, 0, dur)
		d.logger.Warn().
			Err(err).
			Str("request_id", requestID).
			Str("method", r.method).
			Str("endpoint", r.endpoint).
			Dur("duration", dur).
			Msg("api request failed")
		return err
	}
	defer resp.Body.Close()

	metrics.ObserveAPI(r.endpoint, r.method, resp.StatusCode, dur)
	d.logger.Debug().
		Str("request_id", requestID).
		Str("method", r.method).
		Str("endpoint", r.endpoint).
		Bool("authenticated", r.bearer).
		Int("status", resp.StatusCode).
		Dur("duration", dur).
		Msg("api request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Method:     r.method,
			URL:        r.url,
			Body:       data,
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", r.method, r.endpoint, err)
	}
	return nil
}

// Get is the typed form of Dispatcher.Get.
func Get[T any](ctx context.Context, d *Dispatcher, endpoint string, query url.Values) (T, error) {
	var out T
	err := d.Get(ctx, endpoint, query, &out)
	return out, err
}

// GetByID is the typed form of Dispatcher.GetByID.
func GetByID[T any](ctx context.Context, d *Dispatcher, endpoint, id string) (*T, error) {
	var out T
	if err := d.GetByID(ctx, endpoint, id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Post is the typed form of Dispatcher.Post.
func Post[T any](ctx context.Context, d *Dispatcher, endpoint string, body any) (*T, error) {
	var out T
	if err := d.Post(ctx, endpoint, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Put is the typed form of Dispatcher.Put.
func Put[T any](ctx context.Context, d *Dispatcher, endpoint, id string, body any) (*T, error) {
	var out T
	if err := d.Put(ctx, endpoint, id, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
