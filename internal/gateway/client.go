package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/jacksmith/kanban/internal/model"
)

// DefaultUploadTimeout bounds how long an upload may take.
const DefaultUploadTimeout = 30 * time.Second

// Client implements Gateway over the board's JSON HTTP API.
type Client struct {
	baseURL       string
	http          *http.Client
	uploadTimeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithUploadTimeout sets the upload ceiling. Zero disables it.
func WithUploadTimeout(d time.Duration) Option {
	return func(c *Client) { c.uploadTimeout = d }
}

// NewClient returns a Client for the API rooted at baseURL
// (e.g. "http://localhost:8080/api").
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		http:          http.DefaultClient,
		uploadTimeout: DefaultUploadTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListProjects fetches every project.
func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	if err := c.do(ctx, http.MethodGet, "/projects", nil, "", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject fetches a single project.
func (c *Client) GetProject(ctx context.Context, id int64) (*model.Project, error) {
	var project model.Project
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/projects/%d", id), nil, "", &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// UploadProject sends file as the multipart field "file".
func (c *Client) UploadProject(ctx context.Context, file *File) (*UploadResult, error) {
	if err := file.Validate(); err != nil {
		return nil, err
	}

	body, contentType, err := encodeMultipart(file)
	if err != nil {
		return nil, &Error{Err: err}
	}

	if c.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.uploadTimeout)
		defer cancel()
	}

	var result UploadResult
	if err := c.do(ctx, http.MethodPost, "/projects/upload", body, contentType, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteProject removes a project and its tasks.
func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/projects/%d", id), nil, "", nil)
}

// ListTasksForProject fetches the tasks of one project, ordered by position.
func (c *Client) ListTasksForProject(ctx context.Context, projectID int64) ([]model.Task, error) {
	var tasks []model.Task
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/projects/%d/tasks", projectID), nil, "", &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateTask sends patch and returns the fields the server answered with.
func (c *Client) UpdateTask(ctx context.Context, id int64, patch model.TaskUpdate) (model.TaskUpdate, error) {
	data, err := json.Marshal(patch)
	if err != nil {
		return model.TaskUpdate{}, &Error{Err: fmt.Errorf("failed to encode task update: %w", err)}
	}

	var updated model.TaskUpdate
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/tasks/%d", id), bytes.NewReader(data), "application/json", &updated); err != nil {
		return model.TaskUpdate{}, err
	}
	return updated, nil
}

// DeleteTask removes a single task.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d", id), nil, "", nil)
}

// do performs a request and decodes a 2xx JSON body into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &Error{Err: fmt.Errorf("failed to build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Status: resp.StatusCode, Message: decodeMessage(resp.Body)}
	}

	if out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Status: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// decodeMessage extracts the "error" field of a JSON failure body.
func decodeMessage(r io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 1<<20)).Decode(&payload); err != nil {
		return ""
	}
	return payload.Error
}

func encodeMultipart(file *File) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, file.Name))
	ct := file.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	header.Set("Content-Type", ct)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create multipart part: %w", err)
	}
	if _, err := io.Copy(part, file.Content); err != nil {
		return nil, "", fmt.Errorf("failed to read upload content: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
