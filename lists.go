package discogs

import (
	"context"

	"github.com/sydlexius/discogs/model"
)

// ListsService reads user-curated lists.
type ListsService struct {
	conn *Conn
}

// GetUserLists lists a user's lists. Private lists are only visible to
// their owner.
func (s *ListsService) GetUserLists(ctx context.Context, req *UserPageRequest) (*Page[model.UserList], error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	q, err := encodeQuery(req)
	if err != nil {
		return nil, err
	}
	return getPage[model.UserList](ctx, s.conn, endpoint("users", req.Username, "lists"), q, "lists")
}

// GetList fetches a list with its items.
func (s *ListsService) GetList(ctx context.Context, listID int) (*model.ListDetail, error) {
	if err := requireID("list id", listID); err != nil {
		return nil, err
	}
	return getJSON[model.ListDetail](ctx, s.conn, endpoint("lists", listID), nil)
}
