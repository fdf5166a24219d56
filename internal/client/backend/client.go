package backend

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

	"github.com/google/uuid"

	"github.com/ibrathesheriff/stackrail/internal/client/models"
	"github.com/ibrathesheriff/stackrail/internal/logging"
)

const (
	authPrefix = "/auth/v1"
	restPrefix = "/rest/v1"

	headerRequestID = "X-Request-Id"
)

// Client is the contract the CLI needs from the hosted backend.
type Client interface {
	SignUp(ctx context.Context, email string, password []byte) error
	SignInWithPassword(ctx context.Context, email string, password []byte) (*models.Session, error)
	VerifyOTP(ctx context.Context, email, token string) (*models.Session, error)
	SetSession(ctx context.Context, s models.Session) (*models.Session, error)
	SignOut(ctx context.Context) error
	GetUser(ctx context.Context) (*models.User, error)

	InsertProfile(ctx context.Context, p models.ProfileDraft) error
	InsertProject(ctx context.Context, p models.Project) (*models.Project, error)
	SelectProjects(ctx context.Context) ([]models.Project, error)
	SelectProjectBy(ctx context.Context, column string, value any) ([]models.Project, error)

	SelectUserTags(ctx context.Context, projectID int64) ([]string, error)
	InsertStack(ctx context.Context, t models.StackTask, tags []string) (*models.StackTask, error)
	UpdateStack(ctx context.Context, t models.StackTask) (*models.StackTask, error)
	SetTags(ctx context.Context, taskID int64, tags []string) error
	DeleteStack(ctx context.Context, projectID, taskID int64) error
	SelectStack(ctx context.Context, projectID int64, status *models.TaskStatus) ([]models.StackTask, error)
	SelectStackBy(ctx context.Context, projectID, taskID int64) (*models.StackTask, error)

	InsertRail(ctx context.Context, projectID int64, title string) (*models.RailTask, error)
	SelectProjectRails(ctx context.Context, projectID int64) ([]models.RailTask, error)
	SelectRailBy(ctx context.Context, projectID int64, column string, value any) ([]models.RailTask, error)
	DeleteRail(ctx context.Context, railID int64) error
}

// Options configures an HTTPClient.
type Options struct {
	BaseURL    string
	AnonKey    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     logging.Logger
}

// HTTPClient talks to GoTrue and PostgREST over HTTP. It is not safe for
// concurrent use; the CLI issues one request at a time.
type HTTPClient struct {
	baseURL    string
	anonKey    string
	timeout    time.Duration
	httpClient *http.Client
	logger     logging.Logger
	now        func() time.Time

	session *models.Session
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(opts Options) *HTTPClient {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		anonKey:    opts.AnonKey,
		timeout:    opts.Timeout,
		httpClient: hc,
		logger:     logger,
		now:        time.Now,
	}
}

// Session returns a copy of the in-memory session, or nil.
func (c *HTTPClient) Session() *models.Session {
	if c.session == nil {
		return nil
	}
	s := *c.session
	return &s
}

func (c *HTTPClient) setSession(s *models.Session) {
	c.session = s
}

type request struct {
	method  string
	path    string
	query   url.Values
	body    any
	headers map[string]string
	// bearer overrides the token sent in Authorization.
	bearer string
}

// do sends r and decodes a successful JSON response into out (if non-nil).
func (c *HTTPClient) do(ctx context.Context, r request, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", r.method, r.path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", r.method, r.path, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.bearer(r))
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerRequestID, requestID)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug(ctx, "backend request failed", "method", r.method, "path", r.path, "request_id", requestID, "error", err)
		return fmt.Errorf("%w: %s %s: %w", ErrUnavailable, r.method, r.path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s %s: %w", ErrUnavailable, r.method, r.path, err)
	}

	c.logger.Debug(ctx, "backend request", "method", r.method, "path", r.path, "status", resp.StatusCode, "request_id", requestID)

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", r.method, r.path, err)
	}
	return nil
}

func (c *HTTPClient) bearer(r request) string {
	if r.bearer != "" {
		return r.bearer
	}
	if c.session != nil && c.session.AccessToken != "" {
		return c.session.AccessToken
	}
	return c.anonKey
}

func eq(v any) string {
	return "eq." + fmt.Sprint(v)
}
