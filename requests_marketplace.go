package discogs

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sydlexius/discogs/model"
)

// InventoryRequest lists a seller's inventory. Only the owner sees listings
// that are not for sale.
type InventoryRequest struct {
	Username string
	Status   model.ListingStatus
	SortParams
	PageParams
}

// Validate reports the first invalid field as a [*ValidationError].
func (r *InventoryRequest) Validate() error {
	if r.Status != "" && !r.Status.Valid() {
		return &ValidationError{Field: "status", Reason: "unknown listing status " + strconv.Quote(string(r.Status))}
	}
	return firstError(
		requireName("username", r.Username),
		r.SortParams.validate(inventorySorts),
		r.PageParams.Validate(),
	)
}

// Encode validates r and adds its query parameters to q.
func (r *InventoryRequest) Encode(q url.Values) error {
	if err := r.Validate(); err != nil {
		return err
	}
	setString(q, "status", string(r.Status))
	r.SortParams.encode(q)
	return r.PageParams.Encode(q)
}

// GetListingRequest looks up a marketplace listing.
type GetListingRequest struct {
	ListingID int
	CurrAbbr  model.Currency
}

// Validate reports the first invalid field as a [*ValidationError].
func (r *GetListingRequest) Validate() error {
	return firstError(requireID("listing id", r.ListingID), optionalCurrency(r.CurrAbbr))
}

// Encode validates r and adds its query parameters to q.
func (r *GetListingRequest) Encode(q url.Values) error {
	if err := r.Validate(); err != nil {
		return err
	}
	setString(q, "curr_abbr", string(r.CurrAbbr))
	return nil
}

// ListingRequest creates or replaces a listing. Price is in the seller's
// currency. Status must be "For Sale" or "Draft".
type ListingRequest struct {
	ReleaseID       int
	Condition       model.Condition
	SleeveCondition model.SleeveCondition
	Price           float64
	Comments        string
	AllowOffers     *bool
	Status          model.ListingStatus
	ExternalID      string
	Location        string
	// Weight is in grams. Zero lets Discogs estimate it.
	Weight float64
	// FormatQuantity is the number of items counted for shipping. Zero
	// lets Discogs derive it from the release.
	FormatQuantity int
}

// Validate reports the first invalid field as a [*ValidationError].
func (r *ListingRequest) Validate() error {
	if err := requireID("release id", r.ReleaseID); err != nil {
		return err
	}
	if !r.Condition.Valid() {
		return &ValidationError{Field: "condition", Reason: "must be a media grade such as \"Near Mint (NM or M-)\""}
	}
	if r.SleeveCondition != "" && !r.SleeveCondition.Valid() {
		return &ValidationError{Field: "sleeve_condition", Reason: "unknown sleeve grade " + strconv.Quote(string(r.SleeveCondition))}
	}
	if r.Price <= 0 {
		return &ValidationError{Field: "price", Reason: "must be positive"}
	}
	if !r.Status.Settable() {
		return &ValidationError{Field: "status", Reason: `must be "For Sale" or "Draft"`}
	}
	if r.Weight < 0 {
		return &ValidationError{Field: "weight", Reason: "must not be negative"}
	}
	if r.FormatQuantity < 0 {
		return &ValidationError{Field: "format_quantity", Reason: "must not be negative"}
	}
	return nil
}

// Encode only validates; r adds no query parameters.
func (r *ListingRequest) Encode(q url.Values) error { return r.Validate() }

func (r *ListingRequest) body() any {
	b := map[string]any{
		"release_id": r.ReleaseID,
		"condition":  r.Condition,
		"price":      r.Price,
		"status":     r.Status,
	}
	if r.SleeveCondition != "" {
		b["sleeve_condition"] = r.SleeveCondition
	}
	if r.Comments != "" {
		b["comments"] = r.Comments
	}
	if r.AllowOffers != nil {
		b["allow_offers"] = *r.AllowOffers
	}
	if r.ExternalID != "" {
		b["external_id"] = r.ExternalID
	}
	if r.Location != "" {
		b["location"] = r.Location
	}
	if r.Weight > 0 {
		b["weight"] = r.Weight
	}
	if r.FormatQuantity > 0 {
		b["format_quantity"] = r.FormatQuantity
	}
	return b
}

// EditOrderRequest changes an order's status or shipping charge.
type EditOrderRequest struct {
	OrderID  string
	Status   model.OrderStatus
	Shipping *float64
}

// Validate reports the first invalid field as a [*ValidationError].
func (r *EditOrderRequest) Validate() error {
	if err := requireName("order id", r.OrderID); err != nil {
		return err
	}
	if r.Status == "" && r.Shipping == nil {
		return &ValidationError{Field: "status", Reason: "status or shipping must be set"}
	}
	if r.Status != "" && (!r.Status.Valid() || r.Status == model.OrderAll) {
		return &ValidationError{Field: "status", Reason: "unknown order status " + strconv.Quote(string(r.Status))}
	}
	if r.Shipping != nil && *r.Shipping < 0 {
		return &ValidationError{Field: "shipping", Reason: "must not be negative"}
	}
	return nil
}

// Encode only validates; r adds no query parameters.
func (r *EditOrderRequest) Encode(q url.Values) error { return r.Validate() }

func (r *EditOrderRequest) body() any {
	b := map[string]any{}
	if r.Status != "" {
		b["status"] = r.Status
	}
	if r.Shipping != nil {
		b["shipping"] = *r.Shipping
	}
	return b
}

// ListOrdersRequest lists the authenticated seller's orders.
type ListOrdersRequest struct {
	Status        model.OrderStatus
	CreatedAfter  time.Time
	CreatedBefore time.Time
	Archived      *bool
	SortParams
	PageParams
}

// Validate reports the first invalid field as a [*ValidationError].
func (r *ListOrdersRequest) Validate() error {
	if r.Status != "" && !r.Status.Valid() {
		return &ValidationError{Field: "status", Reason: "unknown order status " + strconv.Quote(string(r.Status))}
	}
	if !r.CreatedAfter.IsZero() && !r.CreatedBefore.IsZero() && r.CreatedBefore.Before(r.CreatedAfter) {
		return &ValidationError{Field: "created_before", Reason: "must not precede created_after"}
	}
	return firstError(r.SortParams.validate(orderSorts), r.PageParams.Validate())
}

// Encode validates r and adds its query parameters to q.
func (r *ListOrdersRequest) Encode(q url.Values) error {
	if err := r.Validate(); err != nil {
		return err
	}
	setString(q, "status", string(r.Status))
	setTime(q, "created_after", r.CreatedAfter)
	setTime(q, "created_before", r.CreatedBefore)
	setBool(q, "archived", r.Archived)
	r.SortParams.encode(q)
	return r.PageParams.Encode(q)
}

// OrderMessagesRequest lists the messages on an order.
type OrderMessagesRequest struct {
	OrderID string
	PageParams
}

// Validate reports the first invalid field as a [*ValidationError].
func (r *OrderMessagesRequest) Validate() error {
	return firstError(requireName("order id", r.OrderID), r.PageParams.Validate())
}

// Encode validates r and adds its query parameters to q.
func (r *OrderMessagesRequest) Encode(q url.Values) error {
	if err := r.Validate(); err != nil {
		return err
	}
	return r.PageParams.Encode(q)
}

// AddOrderMessageRequest posts a message to an order, optionally moving it
// to a new status at the same time.
type AddOrderMessageRequest struct {
	OrderID string
	Message string
	Status  model.OrderStatus
}

// Validate reports the first invalid field as a [*ValidationError].
func (r *AddOrderMessageRequest) Validate() error {
	if err := requireName("order id", r.OrderID); err != nil {
		return err
	}
	if strings.TrimSpace(r.Message) == "" && r.Status == "" {
		return &ValidationError{Field: "message", Reason: "message or status must be set"}
	}
	if r.Status != "" && (!r.Status.Valid() || r.Status == model.OrderAll) {
		return &ValidationError{Field: "status", Reason: "unknown order status " + strconv.Quote(string(r.Status))}
	}
	return nil
}

// Encode only validates; r adds no query parameters.
func (r *AddOrderMessageRequest) Encode(q url.Values) error { return r.Validate() }

func (r *AddOrderMessageRequest) body() any {
	b := map[string]any{}
	if strings.TrimSpace(r.Message) != "" {
		b["message"] = r.Message
	}
	if r.Status != "" {
		b["status"] = r.Status
	}
	return b
}

// FeeRequest computes the marketplace fee for a price. Currency defaults
// to USD on the server.
type FeeRequest struct {
	Price    float64
	Currency model.Currency
}

// Validate reports the first invalid field as a [*ValidationError].
func (r *FeeRequest) Validate() error {
	if r.Price <= 0 {
		return &ValidationError{Field: "price", Reason: "must be positive"}
	}
	if r.Currency != "" && !r.Currency.Valid() {
		return &ValidationError{Field: "currency", Reason: "unsupported currency " + strconv.Quote(string(r.Currency))}
	}
	return nil
}

// Encode only validates; r adds no query parameters.
func (r *FeeRequest) Encode(q url.Values) error { return r.Validate() }

// ReleaseStatisticsRequest reads marketplace statistics for a release.
type ReleaseStatisticsRequest struct {
	ReleaseID int
	CurrAbbr  model.Currency
}

// Validate reports the first invalid field as a [*ValidationError].
func (r *ReleaseStatisticsRequest) Validate() error {
	return firstError(requireID("release id", r.ReleaseID), optionalCurrency(r.CurrAbbr))
}

// Encode validates r and adds its query parameters to q.
func (r *ReleaseStatisticsRequest) Encode(q url.Values) error {
	if err := r.Validate(); err != nil {
		return err
	}
	setString(q, "curr_abbr", string(r.CurrAbbr))
	return nil
}

func setTime(q url.Values, key string, t time.Time) {
	if !t.IsZero() {
		q.Set(key, t.UTC().Format(time.RFC3339))
	}
}
