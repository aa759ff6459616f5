package discogs

import (
	"context"
	"net/http"

	"github.com/sydlexius/discogs/model"
)

// WantlistService manages a user's wantlist.
type WantlistService struct {
	conn *Conn
}

// GetWantlist lists a user's wants.
func (s *WantlistService) GetWantlist(ctx context.Context, req *UserPageRequest) (*Page[model.Want], error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	q, err := encodeQuery(req)
	if err != nil {
		return nil, err
	}
	return getPage[model.Want](ctx, s.conn, endpoint("users", req.Username, "wants"), q, "wants")
}

// AddWant adds a release to the authenticated user's wantlist.
func (s *WantlistService) AddWant(ctx context.Context, req *WantRequest) (*model.Want, error) {
	return s.sendWant(ctx, http.MethodPut, req)
}

// EditWant changes the notes or rating of a want.
func (s *WantlistService) EditWant(ctx context.Context, req *WantRequest) (*model.Want, error) {
	return s.sendWant(ctx, http.MethodPost, req)
}

func (s *WantlistService) sendWant(ctx context.Context, method string, req *WantRequest) (*model.Want, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	q, err := encodeQuery(req)
	if err != nil {
		return nil, err
	}
	return sendJSON[model.Want](ctx, s.conn, method, endpoint("users", req.Username, "wants", req.ReleaseID), q, nil)
}

// DeleteWant removes a release from the wantlist.
func (s *WantlistService) DeleteWant(ctx context.Context, username string, releaseID int) error {
	if err := firstError(requireName("username", username), requireID("release id", releaseID)); err != nil {
		return err
	}
	return sendNoContent(ctx, s.conn, http.MethodDelete, endpoint("users", username, "wants", releaseID), nil, nil)
}
