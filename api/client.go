package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"backoffice-console/logger"
	"backoffice-console/models"
	"backoffice-console/session"
)

const (
	Prefix         = "/api/v1"
	RequestTimeout = 30 * time.Second
	RequestIDKey   = "X-Request-ID"
)

// Navigator performs the forced move to the login view after the backend
// rejected the session.
type Navigator interface {
	RedirectToLogin()
}

type NavigatorFunc func()

func (f NavigatorFunc) RedirectToLogin() { f() }

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Store      session.Store
	Navigator  Navigator
	Logger     logrus.FieldLogger
	Metrics    *Metrics
	HTTPClient *http.Client
}

// Client is the single configured HTTP client every service function goes
// through. It injects the bearer token, decodes envelopes and owns the global
// reaction to 401.
type Client struct {
	baseURL   string
	http      *http.Client
	store     session.Store
	navigator Navigator
	log       *logrus.Entry
	metrics   *Metrics

	mu           sync.Mutex
	expiredToken string
}

func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = RequestTimeout
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		transport := &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 20,
			MaxConnsPerHost:     100,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		}
		httpClient = &http.Client{Timeout: timeout, Transport: transport}
	}

	store := opts.Store
	if store == nil {
		store = session.NewMemoryStore()
	}
	navigator := opts.Navigator
	if navigator == nil {
		navigator = NavigatorFunc(func() {})
	}

	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/") + Prefix,
		http:      httpClient,
		store:     store,
		navigator: navigator,
		log:       logger.Component(opts.Logger, "api"),
		metrics:   opts.Metrics,
	}
}

type anonymousKey struct{}

// WithoutToken marks requests that must go out without the stored bearer
// token, such as the credential exchange itself. A 401 on them is an ordinary
// *Error and never ends the session.
func WithoutToken(ctx context.Context) context.Context {
	return context.WithValue(ctx, anonymousKey{}, true)
}

func anonymous(ctx context.Context) bool {
	v, _ := ctx.Value(anonymousKey{}).(bool)
	return v
}

func (c *Client) Session() session.Store {
	return c.store
}

// Get issues a GET and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.request(ctx, http.MethodGet, path, query, nil, "", out)
}

// Send issues a JSON request. body may be nil.
func (c *Client) Send(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error marshaling request: %w", err)
		}
	}
	return c.request(ctx, method, path, nil, payload, "application/json", out)
}

// SendForm issues a multipart/form-data request, used by every create/update
// that can carry a file.
func (c *Client) SendForm(ctx context.Context, method, path string, form models.Form, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, values := range form.Values {
		for _, v := range values {
			if err := w.WriteField(key, v); err != nil {
				return fmt.Errorf("error writing form field %s: %w", key, err)
			}
		}
	}
	for field, upload := range form.Files {
		part, err := w.CreateFormFile(field, upload.Filename)
		if err != nil {
			return fmt.Errorf("error creating form file %s: %w", field, err)
		}
		if _, err := io.Copy(part, upload.Reader); err != nil {
			return fmt.Errorf("error copying form file %s: %w", field, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("error closing form: %w", err)
	}
	return c.request(ctx, method, path, nil, buf.Bytes(), w.FormDataContentType(), out)
}

func (c *Client) request(ctx context.Context, method, path string, query url.Values, body []byte, contentType string, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	var token string
	if !anonymous(ctx) {
		token, err = session.Token(ctx, c.store)
		if err != nil {
			return fmt.Errorf("error reading session: %w", err)
		}
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDKey, requestID)

	log := c.log.WithFields(logrus.Fields{"method": method, "path": path, "request_id": requestID})
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.observe(method, 0, time.Since(start))
		return transportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	c.metrics.observe(method, resp.StatusCode, time.Since(start))
	if err != nil {
		return fmt.Errorf("%w: error reading response body: %v", ErrNetwork, err)
	}
	respBody = bytes.TrimPrefix(respBody, []byte("\xEF\xBB\xBF"))

	log = log.WithFields(logrus.Fields{"status": resp.StatusCode, "elapsed": time.Since(start).String()})

	if resp.StatusCode == http.StatusUnauthorized && token != "" {
		log.Warn("backend rejected session token")
		c.expire(ctx, token)
		return ErrUnauthorized
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := decodeError(resp.StatusCode, respBody)
		apiErr.RequestID = requestID
		if resp.StatusCode >= http.StatusInternalServerError {
			log.WithField("message", apiErr.Message).Error("backend request failed")
		} else {
			log.WithField("message", apiErr.Message).Warn("backend request rejected")
		}
		return apiErr
	}

	log.Debug("backend request completed")

	if len(respBody) == 0 {
		return nil
	}

	var probe struct {
		Success *bool  `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(respBody, &probe); err == nil && probe.Success != nil && !*probe.Success {
		log.WithField("message", probe.Message).Warn("backend reported failure")
		return &Error{StatusCode: resp.StatusCode, Message: probe.Message, RequestID: requestID}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("error decoding response from %s: %w", path, err)
	}
	return nil
}

// expire clears the session and triggers the login redirect once per token,
// however many in-flight requests come back with 401.
func (c *Client) expire(ctx context.Context, token string) {
	c.mu.Lock()
	if c.expiredToken == token {
		c.mu.Unlock()
		return
	}
	c.expiredToken = token
	c.mu.Unlock()

	if err := c.store.Clear(context.WithoutCancel(ctx)); err != nil {
		c.log.WithError(err).Error("failed to clear session after 401")
	}
	c.navigator.RedirectToLogin()
}

func transportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}

func decodeError(status int, body []byte) *Error {
	apiErr := &Error{StatusCode: status}
	var payload struct {
		Message string          `json:"message"`
		Error   string          `json:"error"`
		Errors  json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return apiErr
	}
	apiErr.Message = payload.Message
	if apiErr.Message == "" {
		apiErr.Message = payload.Error
	}
	if len(payload.Errors) > 0 {
		var fields map[string][]string
		if err := json.Unmarshal(payload.Errors, &fields); err == nil {
			apiErr.Errors = fields
		}
	}
	return apiErr
}
