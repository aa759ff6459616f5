package model

// Currency is an ISO 4217 code accepted by the Discogs marketplace.
type Currency string

// Supported marketplace currencies.
const (
	CurrencyUSD Currency = "USD"
	CurrencyGBP Currency = "GBP"
	CurrencyEUR Currency = "EUR"
	CurrencyCAD Currency = "CAD"
	CurrencyAUD Currency = "AUD"
	CurrencyJPY Currency = "JPY"
	CurrencyCHF Currency = "CHF"
	CurrencyMXN Currency = "MXN"
	CurrencyBRL Currency = "BRL"
	CurrencyNZD Currency = "NZD"
	CurrencySEK Currency = "SEK"
	CurrencyZAR Currency = "ZAR"
)

// Currencies returns every supported currency in display order.
func Currencies() []Currency {
	return []Currency{
		CurrencyUSD, CurrencyGBP, CurrencyEUR, CurrencyCAD,
		CurrencyAUD, CurrencyJPY, CurrencyCHF, CurrencyMXN,
		CurrencyBRL, CurrencyNZD, CurrencySEK, CurrencyZAR,
	}
}

// Valid reports whether c is a supported currency.
func (c Currency) Valid() bool {
	for _, known := range Currencies() {
		if c == known {
			return true
		}
	}
	return false
}

// Condition is the grading of a record's media.
type Condition string

// Media conditions, best to worst.
const (
	ConditionMint         Condition = "Mint (M)"
	ConditionNearMint     Condition = "Near Mint (NM or M-)"
	ConditionVeryGoodPlus Condition = "Very Good Plus (VG+)"
	ConditionVeryGood     Condition = "Very Good (VG)"
	ConditionGoodPlus     Condition = "Good Plus (G+)"
	ConditionGood         Condition = "Good (G)"
	ConditionFair         Condition = "Fair (F)"
	ConditionPoor         Condition = "Poor (P)"
)

// Valid reports whether c is a known media condition.
func (c Condition) Valid() bool {
	switch c {
	case ConditionMint, ConditionNearMint, ConditionVeryGoodPlus, ConditionVeryGood,
		ConditionGoodPlus, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

// SleeveCondition is the grading of a record's sleeve. It accepts every
// media condition plus three sleeve-only values.
type SleeveCondition string

// Sleeve-only conditions.
const (
	SleeveGeneric   SleeveCondition = "Generic"
	SleeveNotGraded SleeveCondition = "Not Graded"
	SleeveNoCover   SleeveCondition = "No Cover"
)

// Valid reports whether c is a known sleeve condition.
func (c SleeveCondition) Valid() bool {
	switch c {
	case SleeveGeneric, SleeveNotGraded, SleeveNoCover:
		return true
	}
	return Condition(c).Valid()
}

// OrderStatus is the state of a marketplace order.
type OrderStatus string

// Known order statuses.
const (
	OrderAll                  OrderStatus = "All"
	OrderNew                  OrderStatus = "New Order"
	OrderBuyerContacted       OrderStatus = "Buyer Contacted"
	OrderInvoiceSent          OrderStatus = "Invoice Sent"
	OrderPaymentPending       OrderStatus = "Payment Pending"
	OrderPaymentReceived      OrderStatus = "Payment Received"
	OrderInProgress           OrderStatus = "In Progress"
	OrderShipped              OrderStatus = "Shipped"
	OrderMerged               OrderStatus = "Merged"
	OrderChanged              OrderStatus = "Order Changed"
	OrderRefundSent           OrderStatus = "Refund Sent"
	OrderCancelled            OrderStatus = "Cancelled"
	OrderCancelledNonPaying   OrderStatus = "Cancelled (Non-Paying Buyer)"
	OrderCancelledUnavailable OrderStatus = "Cancelled (Item Unavailable)"
	OrderCancelledByBuyer     OrderStatus = "Cancelled (Per Buyer's Request)"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderAll, OrderNew, OrderBuyerContacted, OrderInvoiceSent, OrderPaymentPending,
		OrderPaymentReceived, OrderInProgress, OrderShipped, OrderMerged, OrderChanged,
		OrderRefundSent, OrderCancelled, OrderCancelledNonPaying, OrderCancelledUnavailable,
		OrderCancelledByBuyer:
		return true
	}
	return false
}

// ListingStatus is the state of a marketplace listing.
type ListingStatus string

// Known listing statuses. Only ListingForSale and ListingDraft may be set
// when creating or editing a listing.
const (
	ListingAll       ListingStatus = "All"
	ListingForSale   ListingStatus = "For Sale"
	ListingDraft     ListingStatus = "Draft"
	ListingExpired   ListingStatus = "Expired"
	ListingSold      ListingStatus = "Sold"
	ListingDeleted   ListingStatus = "Deleted"
	ListingSuspended ListingStatus = "Suspended"
	ListingViolation ListingStatus = "Violation"
)

// Valid reports whether s is a known listing status.
func (s ListingStatus) Valid() bool {
	switch s {
	case ListingAll, ListingForSale, ListingDraft, ListingExpired, ListingSold,
		ListingDeleted, ListingSuspended, ListingViolation:
		return true
	}
	return false
}

// Settable reports whether s may be assigned by a seller.
func (s ListingStatus) Settable() bool {
	return s == ListingForSale || s == ListingDraft
}

// SortOrder is the direction of a sorted listing.
type SortOrder string

// Sort directions.
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Valid reports whether o is asc or desc.
func (o SortOrder) Valid() bool {
	return o == SortAsc || o == SortDesc
}

// SearchType restricts a database search to one kind of entity.
type SearchType string

// Database search types.
const (
	SearchRelease SearchType = "release"
	SearchMaster  SearchType = "master"
	SearchArtist  SearchType = "artist"
	SearchLabel   SearchType = "label"
)

// Valid reports whether t is a known search type.
func (t SearchType) Valid() bool {
	switch t {
	case SearchRelease, SearchMaster, SearchArtist, SearchLabel:
		return true
	}
	return false
}

// JobStatus is the processing state of an inventory export or upload.
type JobStatus string

// Inventory job statuses.
const (
	JobPending    JobStatus = "pending"
	JobInProgress JobStatus = "in progress"
	JobSuccess    JobStatus = "success"
	JobFailed     JobStatus = "failed"
)

// Done reports whether the job has stopped processing.
func (s JobStatus) Done() bool {
	return s == JobSuccess || s == JobFailed
}

// ExportStatus and UploadStatus name the job status of each inventory
// job kind.
type (
	ExportStatus = JobStatus
	UploadStatus = JobStatus
)
