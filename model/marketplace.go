package model

// Listing is an item offered for sale in the marketplace.
type Listing struct {
	ID                    int             `json:"id"`
	Status                ListingStatus   `json:"status"`
	Price                 Price           `json:"price"`
	OriginalPrice         *OriginalPrice  `json:"original_price,omitempty"`
	ShippingPrice         *Price          `json:"shipping_price,omitempty"`
	OriginalShippingPrice *OriginalPrice  `json:"original_shipping_price,omitempty"`
	AllowOffers           bool            `json:"allow_offers"`
	Condition             Condition       `json:"condition"`
	SleeveCondition       SleeveCondition `json:"sleeve_condition"`
	Posted                Time            `json:"posted"`
	ShipsFrom             string          `json:"ships_from"`
	URI                   string          `json:"uri"`
	Comments              string          `json:"comments"`
	Seller                Seller          `json:"seller"`
	Release               ListingRelease  `json:"release"`
	ResourceURL           string          `json:"resource_url"`
	Audio                 bool            `json:"audio"`
	Weight                float64         `json:"weight,omitempty"`
	FormatQuantity        any             `json:"format_quantity,omitempty"` // int or "auto"
	ExternalID            string          `json:"external_id,omitempty"`
	Location              string          `json:"location,omitempty"`
	InCart                bool            `json:"in_cart"`
}

// OriginalPrice is a price in the seller's currency before conversion.
type OriginalPrice struct {
	CurrAbbr  Currency `json:"curr_abbr"`
	CurrID    int      `json:"curr_id"`
	Formatted string   `json:"formatted"`
	Value     float64  `json:"value"`
}

// Seller is the public marketplace profile of a seller.
type Seller struct {
	ID            int     `json:"id"`
	Username      string  `json:"username"`
	AvatarURL     string  `json:"avatar_url"`
	HTMLURL       string  `json:"html_url"`
	URL           string  `json:"url"`
	ResourceURL   string  `json:"resource_url"`
	Shipping      string  `json:"shipping"`
	Payment       string  `json:"payment"`
	MinOrderTotal float64 `json:"min_order_total"`
	Stats         struct {
		Rating string  `json:"rating"`
		Stars  float64 `json:"stars"`
		Total  int     `json:"total"`
	} `json:"stats"`
}

// ListingRelease is the release summary embedded in a listing.
type ListingRelease struct {
	ID            int    `json:"id"`
	CatalogNumber string `json:"catalog_number"`
	ResourceURL   string `json:"resource_url"`
	Year          int    `json:"year"`
	Description   string `json:"description"`
	Artist        string `json:"artist"`
	Title         string `json:"title"`
	Format        string `json:"format"`
	Thumbnail     string `json:"thumbnail"`
	Stats         Stats  `json:"stats"`
}

// ListingCreated is returned after a listing is created.
type ListingCreated struct {
	ListingID   int    `json:"listing_id"`
	ResourceURL string `json:"resource_url"`
}

// Order is a marketplace purchase between a buyer and a seller.
type Order struct {
	ID                     string        `json:"id"`
	ResourceURL            string        `json:"resource_url"`
	MessagesURL            string        `json:"messages_url"`
	URI                    string        `json:"uri"`
	Status                 OrderStatus   `json:"status"`
	NextStatus             []OrderStatus `json:"next_status"`
	Fee                    Price         `json:"fee"`
	Created                Time          `json:"created"`
	Items                  []OrderItem   `json:"items"`
	Shipping               Shipping      `json:"shipping"`
	ShippingAddress        string        `json:"shipping_address"`
	AdditionalInstructions string        `json:"additional_instructions"`
	Archived               bool          `json:"archived"`
	Seller                 UserRef       `json:"seller"`
	Buyer                  UserRef       `json:"buyer"`
	LastActivity           Time          `json:"last_activity"`
	Total                  Price         `json:"total"`
}

// OrderItem is one listing purchased within an order.
type OrderItem struct {
	ID              int             `json:"id"`
	Release         OrderRelease    `json:"release"`
	Price           Price           `json:"price"`
	MediaCondition  Condition       `json:"media_condition"`
	SleeveCondition SleeveCondition `json:"sleeve_condition"`
}

// OrderRelease is the release summary embedded in an order item.
type OrderRelease struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// Shipping is the shipping charge on an order.
type Shipping struct {
	Currency Currency `json:"currency"`
	Method   string   `json:"method"`
	Value    float64  `json:"value"`
}

// OrderMessage is a message or status event on an order.
type OrderMessage struct {
	Timestamp Time     `json:"timestamp"`
	Message   string   `json:"message"`
	Subject   string   `json:"subject"`
	Type      string   `json:"type"`
	StatusID  int      `json:"status_id,omitempty"`
	Order     OrderRef `json:"order"`
	From      *UserRef `json:"from,omitempty"`
	Actor     *UserRef `json:"actor,omitempty"`
	Refund    *struct {
		Amount float64  `json:"amount"`
		Order  OrderRef `json:"order"`
	} `json:"refund,omitempty"`
}

// OrderRef identifies an order.
type OrderRef struct {
	ID          string `json:"id"`
	ResourceURL string `json:"resource_url"`
}

// Fee is the marketplace fee for a given price.
type Fee struct {
	Value    float64  `json:"value"`
	Currency Currency `json:"currency"`
}

// PriceSuggestions maps each media condition to a suggested price.
type PriceSuggestions map[Condition]Price

// MarketplaceStats summarizes the marketplace for a release.
type MarketplaceStats struct {
	LowestPrice     *Price `json:"lowest_price"`
	NumForSale      int    `json:"num_for_sale"`
	BlockedFromSale bool   `json:"blocked_from_sale"`
}
