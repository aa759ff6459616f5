package discogs

import (
	"context"
	"net/http"

	"github.com/sydlexius/discogs/model"
)

// IdentityService reads and edits user profiles.
type IdentityService struct {
	conn *Conn
}

// Identity returns the user the credentials belong to.
func (s *IdentityService) Identity(ctx context.Context) (*model.Identity, error) {
	return getJSON[model.Identity](ctx, s.conn, "/oauth/identity", nil)
}

// GetProfile fetches a user's profile.
func (s *IdentityService) GetProfile(ctx context.Context, username string) (*model.UserProfile, error) {
	if err := requireName("username", username); err != nil {
		return nil, err
	}
	return getJSON[model.UserProfile](ctx, s.conn, endpoint("users", username), nil)
}

// EditProfile updates the authenticated user's profile.
func (s *IdentityService) EditProfile(ctx context.Context, req *EditProfileRequest) (*model.UserProfile, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return sendJSON[model.UserProfile](ctx, s.conn, http.MethodPost, endpoint("users", req.Username), nil, req.body())
}

// GetSubmissions pages through a user's submitted edits. Each page holds a
// single [model.Submissions] grouping artists, labels and releases.
func (s *IdentityService) GetSubmissions(ctx context.Context, req *UserPageRequest) (*Page[model.Submissions], error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	q, err := encodeQuery(req)
	if err != nil {
		return nil, err
	}
	return getPage[model.Submissions](ctx, s.conn, endpoint("users", req.Username, "submissions"), q, "submissions")
}

// GetContributions lists the releases a user has contributed to.
func (s *IdentityService) GetContributions(ctx context.Context, req *ContributionsRequest) (*Page[model.Contribution], error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	q, err := encodeQuery(req)
	if err != nil {
		return nil, err
	}
	return getPage[model.Contribution](ctx, s.conn, endpoint("users", req.Username, "contributions"), q, "contributions")
}
