package api

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/spigell/hirematch/internal/logger"
	"github.com/spigell/hirematch/internal/utils"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip"
	maxLogBody      = 300
)

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, q, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, q url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if len(q) > 0 {
		req.URL.RawQuery = q.Encode()
	}

	return c.send(req, out)
}

// send executes req and decodes a 2xx JSON body into out. Non-2xx responses
// become *Error, transport failures become *NetworkError.
func (c *Client) send(req *http.Request, out any) error {
	requestID := c.setHeaders(req)
	log := logger.WithRequestFields(c.logger, req.Method, req.URL.Path, requestID)

	log.Debug("make request", zap.String("url", req.URL.String()))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return &NetworkError{Method: req.Method, Path: req.URL.Path, Err: err}
	}
	defer resp.Body.Close()

	data, err := readBody(resp)
	if err != nil {
		return &NetworkError{Method: req.Method, Path: req.URL.Path, Err: err}
	}

	log.Debug("got response",
		zap.Int("status", resp.StatusCode),
		zap.String("body", utils.TruncateForLog(string(data), maxLogBody)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseError(resp.StatusCode, resp.Status, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", req.Method, req.URL.Path, err)
	}

	return nil
}

func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		reader = gz
	}

	return io.ReadAll(reader)
}

// setHeaders attaches auth and tracing headers and returns the request id.
func (c *Client) setHeaders(req *http.Request) string {
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}
	req.Header.Set("Accept", contentType)
	req.Header.Set("Accept-Encoding", contentEncoding)
	req.Header.Set("User-Agent", c.UserAgent)

	requestID := c.newRequestID()
	req.Header.Set("X-Request-ID", requestID)

	return requestID
}
