// Package gateway is the REST client of the remote ledger service.
//
// It implements ledger.TransactionGateway and ledger.TaskGateway. Every call
// is authenticated with the bearer token of the given session credential.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/ledger"
	"github.com/etnz/ledger/session"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// DefaultURL is the address of a locally running service.
const DefaultURL = "http://localhost:8080"

// Client calls the remote ledger service.
type Client struct {
	base    *url.URL
	http    *http.Client
	limiter *rate.Limiter
}

var _ ledger.TransactionGateway = (*Client)(nil)
var _ ledger.TaskGateway = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the http.Client used for requests.
func WithHTTPClient(c *http.Client) Option { return func(cl *Client) { cl.http = c } }

// WithRateLimit limits the client to perSecond requests per second. 0 means unlimited.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(cl *Client) {
		if perSecond <= 0 {
			cl.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		cl.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// New returns a client for the service at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid gateway url %q: %w", baseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid gateway url %q: scheme must be http or https", baseURL)
	}
	c := &Client{base: base, http: http.DefaultClient}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// StatusError is a non successful response of the remote service.
type StatusError struct {
	Method  string
	Path    string
	Code    int
	Message string // Message is the error message sent by the server, if any.
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("cannot http %s %s: %d %s", e.Method, e.Path, e.Code, http.StatusText(e.Code))
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap maps authorization, not found and conflict statuses to the ledger sentinels.
func (e *StatusError) Unwrap() error {
	switch e.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ledger.ErrUnauthorized
	case http.StatusNotFound:
		return ledger.ErrNotFound
	case http.StatusConflict:
		return ledger.ErrConflict
	default:
		return nil
	}
}

// request describes a single call.
type request struct {
	method string
	path   []string
	query  url.Values
	cred   *session.Credential // nil for anonymous calls
	body   any                 // nil for no body
}

// do executes the request and decodes the JSON response into out, unless out is nil.
func (c *Client) do(ctx context.Context, req request, out any) error {
	u := c.base.JoinPath(req.path...)
	if req.query != nil {
		u.RawQuery = req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("cannot encode %s %s request: %w", req.method, u.Path, err)
		}
		body = bytes.NewReader(data)
	}

	r, err := http.NewRequestWithContext(ctx, req.method, u.String(), body)
	if err != nil {
		return fmt.Errorf("cannot create http request %q: %w", u, err)
	}
	r.Header.Set("Accept", "application/json")
	r.Header.Set("X-Request-ID", uuid.NewString())
	if req.body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if req.cred != nil {
		r.Header.Set("Authorization", "Bearer "+req.cred.Token)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("cannot http %s %s: %w", req.method, u.Path, err)
		}
	}

	resp, err := c.http.Do(r)
	if err != nil {
		return fmt.Errorf("cannot execute http request: %w", err)
	}
	defer resp.Body.Close()
	log.Printf("%v %v%v %v", req.method, u.Host, u.Path, resp.Status)

	// reading in a buffer to be able to report the server message.
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return fmt.Errorf("cannot read receiving http body: %w", err)
	}

	if resp.StatusCode >= 300 {
		return &StatusError{Method: req.method, Path: u.Path, Code: resp.StatusCode, Message: serverMessage(buf.Bytes())}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(buf.Bytes(), out); err != nil {
		return fmt.Errorf("cannot decode %s %s response: %w", req.method, u.Path, err)
	}
	return nil
}

// serverMessage extracts the error message from a response body: either a JSON
// object with a "message" field, or plain text.
func serverMessage(body []byte) string {
	var jobj any
	if err := json.Unmarshal(body, &jobj); err == nil {
		if jval, err := jsonpath.Get("$.message", jobj); err == nil {
			if s, ok := jval.(string); ok {
				return s
			}
		}
		if s, ok := jobj.(string); ok {
			return s
		}
		return ""
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

func id(v int64) string { return strconv.FormatInt(v, 10) }

// ListTransactions returns all transactions of the signed in user.
func (c *Client) ListTransactions(ctx context.Context, cred session.Credential) ([]ledger.Transaction, error) {
	var txs []ledger.Transaction
	err := c.do(ctx, request{method: http.MethodGet, path: []string{"finance", "transactions"}, cred: &cred}, &txs)
	return txs, err
}

// CreateTransaction creates a transaction and returns it with its server id.
func (c *Client) CreateTransaction(ctx context.Context, cred session.Credential, d ledger.Draft) (ledger.Transaction, error) {
	var tx ledger.Transaction
	err := c.do(ctx, request{method: http.MethodPost, path: []string{"finance", "transaction"}, cred: &cred, body: d}, &tx)
	return tx, err
}

// DeleteTransaction deletes a transaction.
func (c *Client) DeleteTransaction(ctx context.Context, cred session.Credential, txID int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: []string{"finance", "transaction", id(txID)}, cred: &cred}, nil)
}

// ListTasks returns all tasks of the signed in user.
func (c *Client) ListTasks(ctx context.Context, cred session.Credential) ([]ledger.Task, error) {
	var tasks []ledger.Task
	err := c.do(ctx, request{method: http.MethodGet, path: []string{"tasks", "user"}, cred: &cred}, &tasks)
	return tasks, err
}

// CreateTask creates a task and returns it with its server id.
func (c *Client) CreateTask(ctx context.Context, cred session.Credential, d ledger.TaskDraft) (ledger.Task, error) {
	var task ledger.Task
	err := c.do(ctx, request{method: http.MethodPost, path: []string{"tasks", "add"}, cred: &cred, body: d}, &task)
	return task, err
}

// UpdateTaskStatus sets the status of a task. The status travels in the query, with no body.
func (c *Client) UpdateTaskStatus(ctx context.Context, cred session.Credential, taskID int64, status ledger.Status) error {
	return c.do(ctx, request{
		method: http.MethodPatch,
		path:   []string{"tasks", id(taskID), "status"},
		query:  url.Values{"newStatus": {string(status)}},
		cred:   &cred,
	}, nil)
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, cred session.Credential, taskID int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: []string{"tasks", "task", id(taskID)}, cred: &cred}, nil)
}
