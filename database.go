package discogs

import (
	"context"
	"net/http"

	"github.com/sydlexius/discogs/model"
)

// DatabaseService reads releases, masters, artists and labels, and manages
// release ratings.
type DatabaseService struct {
	conn *Conn
}

// GetRelease fetches a release.
func (s *DatabaseService) GetRelease(ctx context.Context, req *GetReleaseRequest) (*model.Release, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	q, err := encodeQuery(req)
	if err != nil {
		return nil, err
	}
	return getJSON[model.Release](ctx, s.conn, endpoint("releases", req.ReleaseID), q)
}

// GetReleaseRating fetches one user's rating of a release.
func (s *DatabaseService) GetReleaseRating(ctx context.Context, req *ReleaseRatingRequest) (*model.ReleaseRating, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return getJSON[model.ReleaseRating](ctx, s.conn, endpoint("releases", req.ReleaseID, "rating", req.Username), nil)
}

// UpdateReleaseRating sets the rating; the username must be the
// authenticated user.
func (s *DatabaseService) UpdateReleaseRating(ctx context.Context, req *UpdateReleaseRatingRequest) (*model.ReleaseRating, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	path := endpoint("releases", req.ReleaseID, "rating", req.Username)
	return sendJSON[model.ReleaseRating](ctx, s.conn, http.MethodPut, path, nil, req.body())
}

// DeleteReleaseRating removes the authenticated user's rating.
func (s *DatabaseService) DeleteReleaseRating(ctx context.Context, req *ReleaseRatingRequest) error {
	if req == nil {
		return ErrNilRequest
	}
	if err := req.Validate(); err != nil {
		return err
	}
	return sendNoContent(ctx, s.conn, http.MethodDelete, endpoint("releases", req.ReleaseID, "rating", req.Username), nil, nil)
}

// GetCommunityRating fetches the average rating of a release.
func (s *DatabaseService) GetCommunityRating(ctx context.Context, releaseID int) (*model.CommunityRating, error) {
	if err := requireID("release id", releaseID); err != nil {
		return nil, err
	}
	return getJSON[model.CommunityRating](ctx, s.conn, endpoint("releases", releaseID, "rating"), nil)
}

// GetMaster fetches a master release.
func (s *DatabaseService) GetMaster(ctx context.Context, masterID int) (*model.Master, error) {
	if err := requireID("master id", masterID); err != nil {
		return nil, err
	}
	return getJSON[model.Master](ctx, s.conn, endpoint("masters", masterID), nil)
}

// GetMasterVersions lists the releases that belong to a master.
func (s *DatabaseService) GetMasterVersions(ctx context.Context, req *MasterVersionsRequest) (*Page[model.MasterVersion], error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	q, err := encodeQuery(req)
	if err != nil {
		return nil, err
	}
	return getPage[model.MasterVersion](ctx, s.conn, endpoint("masters", req.MasterID, "versions"), q, "versions")
}

// GetArtist fetches an artist.
func (s *DatabaseService) GetArtist(ctx context.Context, artistID int) (*model.Artist, error) {
	if err := requireID("artist id", artistID); err != nil {
		return nil, err
	}
	return getJSON[model.Artist](ctx, s.conn, endpoint("artists", artistID), nil)
}

// GetArtistReleases lists an artist's releases and masters.
func (s *DatabaseService) GetArtistReleases(ctx context.Context, req *ArtistReleasesRequest) (*Page[model.ArtistRelease], error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	q, err := encodeQuery(req)
	if err != nil {
		return nil, err
	}
	return getPage[model.ArtistRelease](ctx, s.conn, endpoint("artists", req.ArtistID, "releases"), q, "releases")
}

// GetLabel fetches a label.
func (s *DatabaseService) GetLabel(ctx context.Context, labelID int) (*model.Label, error) {
	if err := requireID("label id", labelID); err != nil {
		return nil, err
	}
	return getJSON[model.Label](ctx, s.conn, endpoint("labels", labelID), nil)
}

// GetLabelReleases lists a label's releases.
func (s *DatabaseService) GetLabelReleases(ctx context.Context, req *LabelReleasesRequest) (*Page[model.LabelRelease], error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	q, err := encodeQuery(req)
	if err != nil {
		return nil, err
	}
	return getPage[model.LabelRelease](ctx, s.conn, endpoint("labels", req.LabelID, "releases"), q, "releases")
}

// Search queries the database.
func (s *DatabaseService) Search(ctx context.Context, req *SearchRequest) (*Page[model.SearchResult], error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	q, err := encodeQuery(req)
	if err != nil {
		return nil, err
	}
	return getPage[model.SearchResult](ctx, s.conn, "/database/search", q, "results")
}
