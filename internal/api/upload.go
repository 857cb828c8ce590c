package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"sync"
)

// ProgressFunc receives the number of bytes sent so far and the total body size.
type ProgressFunc func(sent, total int64)

// Upload describes a file sent as multipart form data.
type Upload struct {
	// Field is the form field name of the file part.
	Field    string
	Filename string
	Content  io.Reader
	// Extra form fields sent alongside the file.
	Extra    map[string]string
	Progress ProgressFunc
}

func (c *Client) upload(ctx context.Context, path string, u Upload, out any) error {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	for key, val := range u.Extra {
		if err := w.WriteField(key, val); err != nil {
			return err
		}
	}

	field := u.Field
	if field == "" {
		field = "file"
	}

	part, err := w.CreateFormFile(field, filepath.Base(u.Filename))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, u.Content); err != nil {
		return fmt.Errorf("read %s: %w", u.Filename, err)
	}
	if err := w.Close(); err != nil {
		return err
	}

	total := int64(b.Len())
	var body io.Reader = &b
	if u.Progress != nil {
		body = &progressReader{reader: &b, total: total, report: u.Progress}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.ContentLength = total
	req.Header.Set("Content-Type", w.FormDataContentType())

	return c.send(req, out)
}

type progressReader struct {
	reader io.Reader
	total  int64

	mu     sync.Mutex
	sent   int64
	report ProgressFunc
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.reader.Read(buf)
	if n > 0 {
		p.mu.Lock()
		p.sent += int64(n)
		sent := p.sent
		p.mu.Unlock()
		p.report(sent, p.total)
	}
	return n, err
}
