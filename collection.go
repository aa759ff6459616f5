package discogs

import (
	"context"
	"net/http"

	"github.com/sydlexius/discogs/model"
)

// CollectionService manages a user's collection folders, items and custom
// fields.
type CollectionService struct {
	conn *Conn
}

// ListFolders lists a user's folders. Other users only see folder 0 unless
// the collection is public.
func (s *CollectionService) ListFolders(ctx context.Context, username string) ([]model.Folder, error) {
	if err := requireName("username", username); err != nil {
		return nil, err
	}
	out, err := getJSON[struct {
		Folders []model.Folder `json:"folders"`
	}](ctx, s.conn, endpoint("users", username, "collection", "folders"), nil)
	if err != nil {
		return nil, err
	}
	return out.Folders, nil
}

// CreateFolder adds a folder to the authenticated user's collection.
func (s *CollectionService) CreateFolder(ctx context.Context, username, name string) (*model.Folder, error) {
	if err := firstError(requireName("username", username), requireName("name", name)); err != nil {
		return nil, err
	}
	path := endpoint("users", username, "collection", "folders")
	return sendJSON[model.Folder](ctx, s.conn, http.MethodPost, path, nil, map[string]string{"name": name})
}

// GetFolder fetches one folder.
func (s *CollectionService) GetFolder(ctx context.Context, username string, folderID int) (*model.Folder, error) {
	if err := firstError(requireName("username", username), requireFolder(folderID, model.FolderAll)); err != nil {
		return nil, err
	}
	return getJSON[model.Folder](ctx, s.conn, endpoint("users", username, "collection", "folders", folderID), nil)
}

// RenameFolder renames a user-created folder. Folders 0 and 1 are fixed.
func (s *CollectionService) RenameFolder(ctx context.Context, username string, folderID int, name string) (*model.Folder, error) {
	if err := firstError(
		requireName("username", username),
		requireFolder(folderID, model.FolderUncategorized+1),
		requireName("name", name),
	); err != nil {
		return nil, err
	}
	path := endpoint("users", username, "collection", "folders", folderID)
	return sendJSON[model.Folder](ctx, s.conn, http.MethodPost, path, nil, map[string]string{"name": name})
}

// DeleteFolder deletes an empty user-created folder.
func (s *CollectionService) DeleteFolder(ctx context.Context, username string, folderID int) error {
	if err := firstError(requireName("username", username), requireFolder(folderID, model.FolderUncategorized+1)); err != nil {
		return err
	}
	return sendNoContent(ctx, s.conn, http.MethodDelete, endpoint("users", username, "collection", "folders", folderID), nil, nil)
}

// GetItemsByRelease lists the instances of a release across folders.
func (s *CollectionService) GetItemsByRelease(ctx context.Context, req *ItemsByReleaseRequest) (*Page[model.CollectionItem], error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	q, err := encodeQuery(req)
	if err != nil {
		return nil, err
	}
	path := endpoint("users", req.Username, "collection", "releases", req.ReleaseID)
	return getPage[model.CollectionItem](ctx, s.conn, path, q, "releases")
}

// GetItemsByFolder lists the items in a folder.
func (s *CollectionService) GetItemsByFolder(ctx context.Context, req *ItemsByFolderRequest) (*Page[model.CollectionItem], error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	q, err := encodeQuery(req)
	if err != nil {
		return nil, err
	}
	path := endpoint("users", req.Username, "collection", "folders", req.FolderID, "releases")
	return getPage[model.CollectionItem](ctx, s.conn, path, q, "releases")
}

// AddRelease adds a release to a folder and returns the new instance.
func (s *CollectionService) AddRelease(ctx context.Context, req *AddToFolderRequest) (*model.InstanceCreated, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	path := endpoint("users", req.Username, "collection", "folders", req.FolderID, "releases", req.ReleaseID)
	return sendJSON[model.InstanceCreated](ctx, s.conn, http.MethodPost, path, nil, nil)
}

// EditInstance changes an instance's rating or folder.
func (s *CollectionService) EditInstance(ctx context.Context, req *EditInstanceRequest) error {
	if req == nil {
		return ErrNilRequest
	}
	if err := req.Validate(); err != nil {
		return err
	}
	return sendNoContent(ctx, s.conn, http.MethodPost, instancePath(&req.InstanceRequest), nil, req.body())
}

// DeleteInstance removes an instance from a folder.
func (s *CollectionService) DeleteInstance(ctx context.Context, req *InstanceRequest) error {
	if req == nil {
		return ErrNilRequest
	}
	if err := req.Validate(); err != nil {
		return err
	}
	return sendNoContent(ctx, s.conn, http.MethodDelete, instancePath(req), nil, nil)
}

// ListFields lists a user's custom collection fields.
func (s *CollectionService) ListFields(ctx context.Context, username string) ([]model.CollectionField, error) {
	if err := requireName("username", username); err != nil {
		return nil, err
	}
	out, err := getJSON[struct {
		Fields []model.CollectionField `json:"fields"`
	}](ctx, s.conn, endpoint("users", username, "collection", "fields"), nil)
	if err != nil {
		return nil, err
	}
	return out.Fields, nil
}

// EditFieldValue sets a custom field on an instance.
func (s *CollectionService) EditFieldValue(ctx context.Context, req *EditFieldRequest) error {
	if req == nil {
		return ErrNilRequest
	}
	q, err := encodeQuery(req)
	if err != nil {
		return err
	}
	path := instancePath(&req.InstanceRequest) + endpoint("fields", req.FieldID)
	return sendNoContent(ctx, s.conn, http.MethodPost, path, q, nil)
}

// GetValue estimates the value of the authenticated user's collection.
func (s *CollectionService) GetValue(ctx context.Context, username string) (*model.CollectionValue, error) {
	if err := requireName("username", username); err != nil {
		return nil, err
	}
	return getJSON[model.CollectionValue](ctx, s.conn, endpoint("users", username, "collection", "value"), nil)
}

func instancePath(r *InstanceRequest) string {
	return endpoint("users", r.Username, "collection", "folders", r.FolderID, "releases", r.ReleaseID, "instances", r.InstanceID)
}

func requireFolder(folderID, lowest int) error {
	if folderID < lowest {
		if lowest > model.FolderUncategorized {
			return &ValidationError{Field: "folder id", Reason: "folders 0 and 1 cannot be changed"}
		}
		return &ValidationError{Field: "folder id", Reason: "must not be negative"}
	}
	return nil
}
