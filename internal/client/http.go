package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ANUPAM4545/taskboard-pro/internal/engine"
	"github.com/ANUPAM4545/taskboard-pro/internal/model"
	"github.com/ANUPAM4545/taskboard-pro/internal/stats"
	"github.com/ANUPAM4545/taskboard-pro/internal/view"
)

// HTTPClient implements BoardClient using the taskboard HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// --- Board ---

func (c *HTTPClient) GetBoard(ctx context.Context) (*model.Board, error) {
	var b model.Board
	if err := c.doJSON(ctx, http.MethodGet, "/v1/board", nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *HTTPClient) GetView(ctx context.Context, req *ViewRequest) (*View, error) {
	q := url.Values{}
	if req != nil {
		if req.Search != "" {
			q.Set("search", req.Search)
		}
		if req.Priorities != "" {
			q.Set("priority", req.Priorities)
		}
		if len(req.Labels) > 0 {
			q.Set("labels", strings.Join(req.Labels, ","))
		}
	}
	path := "/v1/board/view"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var v View
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// --- Tasks ---

func (c *HTTPClient) AddTask(ctx context.Context, in engine.TaskInput) (*Task, error) {
	var t Task
	if err := c.doJSON(ctx, http.MethodPost, "/v1/tasks", in, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *HTTPClient) GetTask(ctx context.Context, id string) (*Task, error) {
	var t Task
	if err := c.doJSON(ctx, http.MethodGet, "/v1/tasks/"+url.PathEscape(id), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *HTTPClient) EditTask(ctx context.Context, id string, req *EditTaskRequest) (*Task, error) {
	var t Task
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/tasks/"+url.PathEscape(id), req, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *HTTPClient) DeleteTask(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/tasks/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) MoveTask(ctx context.Context, id string, req *MoveTaskRequest) (*MoveResult, error) {
	var res MoveResult
	if err := c.doJSON(ctx, http.MethodPost, "/v1/tasks/"+url.PathEscape(id)+"/move", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// --- Labels ---

func (c *HTTPClient) ListLabels(ctx context.Context) ([]LabelUsage, error) {
	var resp struct {
		Labels []LabelUsage `json:"labels"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/labels", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Labels, nil
}

func (c *HTTPClient) AddLabel(ctx context.Context, name, color string) (*model.Label, error) {
	body := map[string]string{"name": name}
	if color != "" {
		body["color"] = color
	}
	var l model.Label
	if err := c.doJSON(ctx, http.MethodPost, "/v1/labels", body, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (c *HTTPClient) EditLabel(ctx context.Context, id string, patch engine.LabelPatch) (*model.Label, error) {
	var l model.Label
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/labels/"+url.PathEscape(id), patch, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// DeleteLabel removes a label and returns the ids of the tasks it was
// stripped from.
func (c *HTTPClient) DeleteLabel(ctx context.Context, id string) ([]string, error) {
	var resp struct {
		Affected []string `json:"affected"`
	}
	if err := c.doJSON(ctx, http.MethodDelete, "/v1/labels/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Affected, nil
}

// --- Filter ---

func (c *HTTPClient) GetFilter(ctx context.Context) (view.Filter, error) {
	var f view.Filter
	err := c.doJSON(ctx, http.MethodGet, "/v1/filter", nil, &f)
	return f, err
}

func (c *HTTPClient) SetFilter(ctx context.Context, f view.Filter) (view.Filter, error) {
	var out view.Filter
	err := c.doJSON(ctx, http.MethodPut, "/v1/filter", f, &out)
	return out, err
}

// --- Reports ---

func (c *HTTPClient) Stats(ctx context.Context, top int) (*stats.Statistics, error) {
	path := "/v1/stats"
	if top > 0 {
		path += "?top=" + strconv.Itoa(top)
	}
	var s stats.Statistics
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) Reminders(ctx context.Context) (*Reminders, error) {
	var r Reminders
	if err := c.doJSON(ctx, http.MethodGet, "/v1/reminders", nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Calendar fetches a month grid. Zero year or month means the server's
// current one.
func (c *HTTPClient) Calendar(ctx context.Context, year, month int) (*view.Month, error) {
	q := url.Values{}
	if year != 0 {
		q.Set("year", strconv.Itoa(year))
	}
	if month != 0 {
		q.Set("month", strconv.Itoa(month))
	}
	path := "/v1/calendar"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var m view.Month
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// --- Events ---

func (c *HTTPClient) ListEvents(ctx context.Context, f model.EventFilter) ([]*model.Event, error) {
	q := url.Values{}
	if f.TopicPrefix != "" {
		q.Set("topic", f.TopicPrefix)
	}
	if f.TaskID != "" {
		q.Set("task_id", f.TaskID)
	}
	if f.AfterID > 0 {
		q.Set("after", strconv.FormatInt(f.AfterID, 10))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	path := "/v1/events"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var resp struct {
		Events []*model.Event `json:"events"`
	}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Events, nil
}

// StreamEvents reads the server-sent event stream and calls fn for each
// event until ctx is done, the server closes the stream, or fn returns an
// error. A cancelled context is not reported as an error.
func (c *HTTPClient) StreamEvents(ctx context.Context, topics []string, lastID uint64, fn func(StreamEvent) error) error {
	path := "/v1/events/stream"
	if len(topics) > 0 {
		path += "?topics=" + url.QueryEscape(strings.Join(topics, ","))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	if lastID > 0 {
		req.Header.Set("Last-Event-ID", strconv.FormatUint(lastID, 10))
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return apiError(resp.StatusCode, body)
	}

	err = readSSE(resp.Body, fn)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// readSSE parses an event stream, ignoring comments and unknown fields.
func readSSE(r io.Reader, fn func(StreamEvent) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var evt StreamEvent
	var data [][]byte
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			if evt.Topic != "" || len(data) > 0 {
				evt.Data = bytes.Join(data, []byte("\n"))
				if err := fn(evt); err != nil {
					return err
				}
			}
			evt, data = StreamEvent{}, nil
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}
		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "id":
			evt.ID, _ = strconv.ParseUint(value, 10, 64)
		case "event":
			evt.Topic = value
		case "data":
			data = append(data, []byte(value))
		}
	}
	return sc.Err()
}

// --- Health ---

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// --- internal helpers ---

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
	Fields     []model.FieldError
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + " " + f.Message
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, strings.Join(parts, "; "))
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.StatusCode == http.StatusNotFound
}

func apiError(status int, body []byte) *APIError {
	var errResp struct {
		Error  string             `json:"error"`
		Fields []model.FieldError `json:"fields"`
	}
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
		return &APIError{StatusCode: status, Message: errResp.Error, Fields: errResp.Fields}
	}
	return &APIError{StatusCode: status, Message: strings.TrimSpace(string(body))}
}

func (c *HTTPClient) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
// If result is nil, the response body is discarded (for DELETE/204 responses).
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return apiError(resp.StatusCode, respBody)
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
