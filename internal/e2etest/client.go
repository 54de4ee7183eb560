package e2etest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/nyaya-ai/nyaya/internal/errors"
)

// Client talks JSON to the server and keeps the session cookie between requests.
type Client struct {
	client *http.Client
	url    string
}

func NewClient(url string) (*Client, error) {
	jar, err := newUnsafeCookieJar()
	if err != nil {
		return nil, errors.Wrap(err, "create unsafe cookie jar")
	}
	return &Client{
		client: &http.Client{Jar: jar}, //nolint:exhaustruct // defaults with a cookie jar
		url:    url,
	}, nil
}

// WaitForReady calls the specified endpoint until it gets a HTTP 200 Success
// response or until the context is cancelled or the 1-second timeout is reached.
func (c *Client) WaitForReady(ctx context.Context, urlPath string) error {
	timeout := 1 * time.Second
	startTime := time.Now()
	for {
		resp, err := c.Do(ctx, http.MethodGet, urlPath, nil, nil)
		if err == nil && resp.StatusCode == http.StatusOK {
			return nil
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "context cancelled")
		default:
			if time.Since(startTime) >= timeout {
				return errors.New("timeout waiting for endpoint to be ready")
			}
			time.Sleep(100 * time.Millisecond) //nolint:mnd // 100ms
		}
	}
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return errors.Wrap(err, "decode response body", slog.String("body", string(r.Body)))
	}
	return nil
}

// Do sends body encoded as JSON, unless it is nil, and reads the whole response.
func (c *Client) Do(
	ctx context.Context,
	method, urlPath string,
	body any,
	header http.Header,
) (*Response, error) {
	var (
		reader io.Reader
		req    *http.Request
		resp   *http.Response
		data   []byte
		err    error
	)
	if body != nil {
		if data, err = json.Marshal(body); err != nil {
			return nil, errors.Wrap(err, "encode request body")
		}
		reader = bytes.NewReader(data)
	}
	if req, err = http.NewRequestWithContext(ctx, method, c.url+urlPath, reader); err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if resp, err = c.client.Do(req); err != nil {
		return nil, errors.Wrap(err, "do request", slog.String("path", urlPath))
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if data, err = io.ReadAll(resp.Body); err != nil {
		return nil, errors.Wrap(err, "read response body")
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

// Login starts an officer session.
func (c *Client) Login(ctx context.Context, badgeNumber, password string) error {
	resp, err := c.Do(ctx, http.MethodPost, "/api/police/login", map[string]string{
		"badgeNumber": badgeNumber,
		"password":    password,
	}, nil)
	if err != nil {
		return errors.Wrap(err, "post login")
	}
	if resp.StatusCode != http.StatusOK {
		return errors.New("unexpected status code", slog.Int("status", resp.StatusCode))
	}
	return nil
}
