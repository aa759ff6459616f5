package discogs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sydlexius/discogs/internal/filesystem"
)

// ProgressFunc is called as a transfer advances. total is -1 when the size
// is unknown. It runs on the goroutine reading the body: the caller's for
// downloads, the HTTP transport's for uploads.
type ProgressFunc func(transferred, total int64)

// DownloadInfo describes a file written by [Conn.Download].
type DownloadInfo struct {
	Path        string
	Filename    string
	Bytes       int64
	ContentType string
}

// UploadInfo describes a file sent by [Conn.Upload].
type UploadInfo struct {
	// Location is the job URL from the Location header; ID is its last
	// path segment when numeric.
	Location string
	ID       int
	Filename string
	Bytes    int64
}

// uploadField is the multipart form field inventory uploads are read from.
const uploadField = "upload"

// Download executes req and streams the body into destDir. The file name
// comes from Content-Disposition, falling back to the last URL path
// segment. The body is written to a temporary file and renamed into place,
// so a failed transfer never leaves a partial file under the final name.
func (c *Conn) Download(ctx context.Context, req *http.Request, destDir string, progress ProgressFunc) (*DownloadInfo, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	req = req.WithContext(ctx)

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	name := downloadFilename(resp)
	if name == "" {
		return nil, &RequestError{Method: req.Method, URL: redactURL(req.URL), Err: errors.New("response names no file")}
	}
	target := filepath.Join(destDir, name)

	body := &progressReader{r: resp.Body, total: resp.ContentLength, fn: progress}
	n, err := filesystem.WriteStreamAtomic(target, body, 0o644)
	if err != nil {
		return nil, &RequestError{Method: req.Method, URL: redactURL(req.URL), Err: fmt.Errorf("writing %s: %w", target, err)}
	}

	return &DownloadInfo{
		Path:        target,
		Filename:    name,
		Bytes:       n,
		ContentType: resp.Header.Get(headerContentType),
	}, nil
}

// Fetch reads rawURL, which may be absolute, such as an image uri from a
// release. Throttling applies as for any other request; credentials are only
// sent to the API and image hosts. A body over limit bytes fails with
// [ErrTooLarge]. It returns the body and its Content-Type.
func (c *Conn) Fetch(ctx context.Context, rawURL, accept string, limit int64) ([]byte, string, error) {
	if limit <= 0 {
		return nil, "", &ValidationError{Field: "limit", Reason: "must be positive"}
	}
	req, err := c.newRawRequest(ctx, http.MethodGet, rawURL, nil, nil)
	if err != nil {
		return nil, "", err
	}
	if accept != "" {
		req.Header.Set(headerAccept, accept)
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, "", &RequestError{Method: req.Method, URL: redactURL(req.URL), Err: fmt.Errorf("reading body: %w", err)}
	}
	if int64(len(data)) > limit {
		return nil, "", &RequestError{Method: req.Method, URL: redactURL(req.URL), Err: fmt.Errorf("%w: body exceeds %d bytes", ErrTooLarge, limit)}
	}
	return data, resp.Header.Get(headerContentType), nil
}

// downloadFilename picks a safe base name for the response body.
func downloadFilename(resp *http.Response) string {
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if name := safeBase(params["filename"]); name != "" {
				return name
			}
		}
	}
	if resp.Request != nil && resp.Request.URL != nil {
		return safeBase(path.Base(resp.Request.URL.Path))
	}
	return ""
}

func safeBase(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	switch name {
	case ".", "..", "/", "":
		return ""
	}
	return name
}

// Upload sends filename as a multipart POST to urlPath under the "upload"
// field. The file is streamed rather than buffered.
func (c *Conn) Upload(ctx context.Context, urlPath, filename string, progress ProgressFunc) (*UploadInfo, error) {
	f, err := os.Open(filename) //nolint:gosec // G304: caller chooses the file to upload
	if err != nil {
		return nil, &RequestError{Method: http.MethodPost, URL: urlPath, Err: fmt.Errorf("opening upload: %w", err)}
	}
	defer f.Close() //nolint:errcheck

	stat, err := f.Stat()
	if err != nil {
		return nil, &RequestError{Method: http.MethodPost, URL: urlPath, Err: fmt.Errorf("reading upload size: %w", err)}
	}
	if stat.IsDir() {
		return nil, &ValidationError{Field: "filename", Reason: "must name a regular file"}
	}

	// The multipart framing is rendered up front so the request carries an
	// exact Content-Length while the file itself is streamed.
	var frame bytes.Buffer
	mw := multipart.NewWriter(&frame)
	if _, err := mw.CreateFormFile(uploadField, filepath.Base(filename)); err != nil {
		return nil, fmt.Errorf("creating multipart header: %w", err)
	}
	headLen := frame.Len()
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart body: %w", err)
	}
	head := frame.Bytes()[:headLen]
	tail := frame.Bytes()[headLen:]

	body := io.MultiReader(
		bytes.NewReader(head),
		&progressReader{r: f, total: stat.Size(), fn: progress},
		bytes.NewReader(tail),
	)

	req, err := c.newRawRequest(ctx, http.MethodPost, urlPath, nil, body)
	if err != nil {
		return nil, err
	}
	req.ContentLength = int64(len(head)) + stat.Size() + int64(len(tail))
	req.Header.Set(headerContentType, mw.FormDataContentType())

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck
	_, _ = io.Copy(io.Discard, resp.Body)

	location := resp.Header.Get(headerLocation)
	return &UploadInfo{
		Location: location,
		ID:       locationID(location),
		Filename: filepath.Base(filename),
		Bytes:    stat.Size(),
	}, nil
}

// locationID returns the trailing numeric segment of a job URL, or 0.
func locationID(location string) int {
	location = strings.TrimRight(location, "/")
	if i := strings.LastIndexByte(location, '/'); i >= 0 {
		location = location[i+1:]
	}
	id, err := strconv.Atoi(location)
	if err != nil {
		return 0
	}
	return id
}

// progressReader reports cumulative bytes read to fn.
type progressReader struct {
	r     io.Reader
	total int64
	read  int64
	fn    ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		if p.fn != nil {
			p.fn(p.read, p.total)
		}
	}
	return n, err
}
