package discogs

import (
	"context"
	"net/http"
	"strconv"

	"github.com/sydlexius/discogs/model"
)

// MarketplaceService manages listings and orders and reads marketplace
// pricing.
type MarketplaceService struct {
	conn *Conn
}

// GetInventory lists a seller's inventory.
func (s *MarketplaceService) GetInventory(ctx context.Context, req *InventoryRequest) (*Page[model.Listing], error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	q, err := encodeQuery(req)
	if err != nil {
		return nil, err
	}
	return getPage[model.Listing](ctx, s.conn, endpoint("users", req.Username, "inventory"), q, "listings")
}

// GetListing fetches a listing.
func (s *MarketplaceService) GetListing(ctx context.Context, req *GetListingRequest) (*model.Listing, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	q, err := encodeQuery(req)
	if err != nil {
		return nil, err
	}
	return getJSON[model.Listing](ctx, s.conn, endpoint("marketplace", "listings", req.ListingID), q)
}

// CreateListing lists a release for sale.
func (s *MarketplaceService) CreateListing(ctx context.Context, req *ListingRequest) (*model.ListingCreated, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return sendJSON[model.ListingCreated](ctx, s.conn, http.MethodPost, "/marketplace/listings", nil, req.body())
}

// EditListing replaces the data of an existing listing.
func (s *MarketplaceService) EditListing(ctx context.Context, listingID int, req *ListingRequest) error {
	if req == nil {
		return ErrNilRequest
	}
	if err := firstError(requireID("listing id", listingID), req.Validate()); err != nil {
		return err
	}
	return sendNoContent(ctx, s.conn, http.MethodPost, endpoint("marketplace", "listings", listingID), nil, req.body())
}

// DeleteListing removes a listing.
func (s *MarketplaceService) DeleteListing(ctx context.Context, listingID int) error {
	if err := requireID("listing id", listingID); err != nil {
		return err
	}
	return sendNoContent(ctx, s.conn, http.MethodDelete, endpoint("marketplace", "listings", listingID), nil, nil)
}

// GetOrder fetches an order. Order ids look like "1-1".
func (s *MarketplaceService) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	if err := requireName("order id", orderID); err != nil {
		return nil, err
	}
	return getJSON[model.Order](ctx, s.conn, endpoint("marketplace", "orders", orderID), nil)
}

// EditOrder changes an order's status or shipping and returns the updated
// order.
func (s *MarketplaceService) EditOrder(ctx context.Context, req *EditOrderRequest) (*model.Order, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return sendJSON[model.Order](ctx, s.conn, http.MethodPost, endpoint("marketplace", "orders", req.OrderID), nil, req.body())
}

// ListOrders lists the authenticated seller's orders.
func (s *MarketplaceService) ListOrders(ctx context.Context, req *ListOrdersRequest) (*Page[model.Order], error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	q, err := encodeQuery(req)
	if err != nil {
		return nil, err
	}
	return getPage[model.Order](ctx, s.conn, "/marketplace/orders", q, "orders")
}

// ListOrderMessages lists the messages on an order, newest first.
func (s *MarketplaceService) ListOrderMessages(ctx context.Context, req *OrderMessagesRequest) (*Page[model.OrderMessage], error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	q, err := encodeQuery(req)
	if err != nil {
		return nil, err
	}
	return getPage[model.OrderMessage](ctx, s.conn, endpoint("marketplace", "orders", req.OrderID, "messages"), q, "messages")
}

// AddOrderMessage posts a message to an order.
func (s *MarketplaceService) AddOrderMessage(ctx context.Context, req *AddOrderMessageRequest) (*model.OrderMessage, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	path := endpoint("marketplace", "orders", req.OrderID, "messages")
	return sendJSON[model.OrderMessage](ctx, s.conn, http.MethodPost, path, nil, req.body())
}

// GetFee computes the marketplace fee for a price.
func (s *MarketplaceService) GetFee(ctx context.Context, req *FeeRequest) (*model.Fee, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	segments := []any{"marketplace", "fee", strconv.FormatFloat(req.Price, 'f', 2, 64)}
	if req.Currency != "" {
		segments = append(segments, req.Currency)
	}
	return getJSON[model.Fee](ctx, s.conn, endpoint(segments...), nil)
}

// GetPriceSuggestions returns a suggested price per media condition. The
// seller must have filled in their seller settings.
func (s *MarketplaceService) GetPriceSuggestions(ctx context.Context, releaseID int) (model.PriceSuggestions, error) {
	if err := requireID("release id", releaseID); err != nil {
		return nil, err
	}
	out, err := getJSON[model.PriceSuggestions](ctx, s.conn, endpoint("marketplace", "price_suggestions", releaseID), nil)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

// GetReleaseStatistics summarizes the marketplace for a release.
func (s *MarketplaceService) GetReleaseStatistics(ctx context.Context, req *ReleaseStatisticsRequest) (*model.MarketplaceStats, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	q, err := encodeQuery(req)
	if err != nil {
		return nil, err
	}
	return getJSON[model.MarketplaceStats](ctx, s.conn, endpoint("marketplace", "stats", req.ReleaseID), q)
}
