package discogs

import (
	"context"
	"io"
	"net/http"

	"github.com/sydlexius/discogs/model"
)

// ExportRequestInfo identifies a newly queued inventory export.
type ExportRequestInfo struct {
	Location string
	ID       int
}

// InventoryExportService exports the authenticated seller's inventory as
// CSV.
type InventoryExportService struct {
	conn *Conn
}

// Request queues a new export. Poll [InventoryExportService.Get] until the
// status is done, then call Download.
func (s *InventoryExportService) Request(ctx context.Context) (*ExportRequestInfo, error) {
	req, err := s.conn.NewRequest(ctx, http.MethodPost, "/inventory/export", nil, nil)
	if err != nil {
		return nil, err
	}
	return Execute(s.conn, req, func(resp *http.Response) (*ExportRequestInfo, error) {
		_, _ = io.Copy(io.Discard, resp.Body)
		location := resp.Header.Get(headerLocation)
		return &ExportRequestInfo{Location: location, ID: locationID(location)}, nil
	})
}

// List pages through recent exports.
func (s *InventoryExportService) List(ctx context.Context, params *PageParams) (*Page[model.Export], error) {
	if params == nil {
		return nil, ErrNilRequest
	}
	q, err := encodeQuery(params)
	if err != nil {
		return nil, err
	}
	return getPage[model.Export](ctx, s.conn, "/inventory/export", q, "items")
}

// Get fetches one export.
func (s *InventoryExportService) Get(ctx context.Context, exportID int) (*model.Export, error) {
	if err := requireID("export id", exportID); err != nil {
		return nil, err
	}
	return getJSON[model.Export](ctx, s.conn, endpoint("inventory", "export", exportID), nil)
}

// Download saves a finished export's CSV into destDir.
func (s *InventoryExportService) Download(ctx context.Context, exportID int, destDir string, progress ProgressFunc) (*DownloadInfo, error) {
	if err := firstError(requireID("export id", exportID), requireName("destination", destDir)); err != nil {
		return nil, err
	}
	req, err := s.conn.newRawRequest(ctx, http.MethodGet, endpoint("inventory", "export", exportID, "download"), nil, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(headerAccept, "text/csv, */*")
	return s.conn.Download(ctx, req, destDir, progress)
}

// UploadKind is the action an inventory upload applies to each CSV row.
type UploadKind string

// Inventory upload kinds.
const (
	UploadAdd    UploadKind = "add"
	UploadChange UploadKind = "change"
	UploadDelete UploadKind = "delete"
)

// Valid reports whether k is a known upload kind.
func (k UploadKind) Valid() bool {
	return k == UploadAdd || k == UploadChange || k == UploadDelete
}

// InventoryUploadService bulk-edits the seller's inventory from CSV files.
type InventoryUploadService struct {
	conn *Conn
}

// Add creates listings from a CSV file.
func (s *InventoryUploadService) Add(ctx context.Context, filename string, progress ProgressFunc) (*UploadInfo, error) {
	return s.Send(ctx, UploadAdd, filename, progress)
}

// Change updates listings from a CSV file.
func (s *InventoryUploadService) Change(ctx context.Context, filename string, progress ProgressFunc) (*UploadInfo, error) {
	return s.Send(ctx, UploadChange, filename, progress)
}

// Delete removes the listings named in a CSV file.
func (s *InventoryUploadService) Delete(ctx context.Context, filename string, progress ProgressFunc) (*UploadInfo, error) {
	return s.Send(ctx, UploadDelete, filename, progress)
}

// Send uploads filename as the given kind.
func (s *InventoryUploadService) Send(ctx context.Context, kind UploadKind, filename string, progress ProgressFunc) (*UploadInfo, error) {
	if !kind.Valid() {
		return nil, &ValidationError{Field: "upload kind", Reason: `must be "add", "change" or "delete"`}
	}
	if err := requireName("filename", filename); err != nil {
		return nil, err
	}
	return s.conn.Upload(ctx, endpoint("inventory", "upload", kind), filename, progress)
}

// List pages through recent uploads.
func (s *InventoryUploadService) List(ctx context.Context, params *PageParams) (*Page[model.Upload], error) {
	if params == nil {
		return nil, ErrNilRequest
	}
	q, err := encodeQuery(params)
	if err != nil {
		return nil, err
	}
	return getPage[model.Upload](ctx, s.conn, "/inventory/upload", q, "items")
}

// Get fetches one upload.
func (s *InventoryUploadService) Get(ctx context.Context, uploadID int) (*model.Upload, error) {
	if err := requireID("upload id", uploadID); err != nil {
		return nil, err
	}
	return getJSON[model.Upload](ctx, s.conn, endpoint("inventory", "upload", uploadID), nil)
}
