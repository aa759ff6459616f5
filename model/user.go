package model

// Identity describes the user an OAuth token belongs to.
type Identity struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	ResourceURL  string `json:"resource_url"`
	ConsumerName string `json:"consumer_name"`
}

// UserProfile is a user's public profile. Email, NumUnread and a few
// counters are only present for the authenticated user's own profile.
type UserProfile struct {
	ID                   int      `json:"id"`
	Username             string   `json:"username"`
	Name                 string   `json:"name"`
	Email                string   `json:"email,omitempty"`
	Profile              string   `json:"profile"`
	HomePage             string   `json:"home_page"`
	Location             string   `json:"location"`
	Registered           Time     `json:"registered"`
	Rank                 float64  `json:"rank"`
	NumPending           int      `json:"num_pending"`
	NumForSale           int      `json:"num_for_sale"`
	NumLists             int      `json:"num_lists"`
	NumCollection        int      `json:"num_collection"`
	NumWantlist          int      `json:"num_wantlist"`
	NumUnread            int      `json:"num_unread,omitempty"`
	ReleasesContributed  int      `json:"releases_contributed"`
	ReleasesRated        int      `json:"releases_rated"`
	RatingAvg            float64  `json:"rating_avg"`
	BuyerRating          float64  `json:"buyer_rating"`
	BuyerRatingStars     float64  `json:"buyer_rating_stars"`
	BuyerNumRatings      int      `json:"buyer_num_ratings"`
	SellerRating         float64  `json:"seller_rating"`
	SellerRatingStars    float64  `json:"seller_rating_stars"`
	SellerNumRatings     int      `json:"seller_num_ratings"`
	CurrAbbr             Currency `json:"curr_abbr"`
	AvatarURL            string   `json:"avatar_url"`
	BannerURL            string   `json:"banner_url"`
	URI                  string   `json:"uri"`
	ResourceURL          string   `json:"resource_url"`
	WantlistURL          string   `json:"wantlist_url"`
	InventoryURL         string   `json:"inventory_url"`
	CollectionFoldersURL string   `json:"collection_folders_url"`
	CollectionFieldsURL  string   `json:"collection_fields_url"`
}

// Submissions groups the database edits a user has submitted.
type Submissions struct {
	Artists  []Artist  `json:"artists"`
	Labels   []Label   `json:"labels"`
	Releases []Release `json:"releases"`
}

// Folder is a collection folder. Folder 0 holds every item, folder 1 is
// "Uncategorized".
type Folder struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Count       int    `json:"count"`
	ResourceURL string `json:"resource_url"`
}

// Well-known folder ids.
const (
	FolderAll           = 0
	FolderUncategorized = 1
)

// BasicInformation is the release summary embedded in collection and
// wantlist items.
type BasicInformation struct {
	ID          int            `json:"id"`
	Title       string         `json:"title"`
	Year        int            `json:"year"`
	ResourceURL string         `json:"resource_url"`
	Thumb       string         `json:"thumb"`
	CoverImage  string         `json:"cover_image"`
	MasterID    int            `json:"master_id"`
	MasterURL   string         `json:"master_url"`
	Formats     []Format       `json:"formats"`
	Labels      []LabelCredit  `json:"labels"`
	Artists     []ArtistCredit `json:"artists"`
	Genres      []string       `json:"genres"`
	Styles      []string       `json:"styles"`
}

// Note is the value of a custom collection field on an instance.
type Note struct {
	FieldID int    `json:"field_id"`
	Value   string `json:"value"`
}

// CollectionItem is one instance of a release in a user's collection.
type CollectionItem struct {
	ID               int              `json:"id"`
	InstanceID       int              `json:"instance_id"`
	FolderID         int              `json:"folder_id"`
	Rating           int              `json:"rating"`
	DateAdded        Time             `json:"date_added"`
	BasicInformation BasicInformation `json:"basic_information"`
	Notes            []Note           `json:"notes,omitempty"`
}

// InstanceCreated is returned after a release is added to a folder.
type InstanceCreated struct {
	InstanceID  int    `json:"instance_id"`
	ResourceURL string `json:"resource_url"`
}

// CollectionField is a user-defined notes field.
type CollectionField struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Type     string   `json:"type"` // "dropdown" or "textarea"
	Position int      `json:"position"`
	Public   bool     `json:"public"`
	Options  []string `json:"options,omitempty"`
	Lines    int      `json:"lines,omitempty"`
}

// CollectionValue is the estimated value range of a collection, formatted
// in the user's currency.
type CollectionValue struct {
	Maximum string `json:"maximum"`
	Median  string `json:"median"`
	Minimum string `json:"minimum"`
}

// Want is a release on a user's wantlist.
type Want struct {
	ID               int              `json:"id"`
	Rating           int              `json:"rating"`
	Notes            string           `json:"notes,omitempty"`
	ResourceURL      string           `json:"resource_url"`
	DateAdded        Time             `json:"date_added"`
	BasicInformation BasicInformation `json:"basic_information"`
}

// UserList is the summary of a user-curated list.
type UserList struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
	URI         string `json:"uri"`
	ResourceURL string `json:"resource_url"`
	ImageURL    string `json:"image_url"`
	DateAdded   Time   `json:"date_added"`
	DateChanged Time   `json:"date_changed"`
}

// ListDetail is a user-curated list with its items.
type ListDetail struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Public      bool       `json:"public"`
	URL         string     `json:"url"`
	ResourceURL string     `json:"resource_url"`
	ImageURL    string     `json:"image_url"`
	CreatedTS   Time       `json:"created_ts"`
	ModifiedTS  Time       `json:"modified_ts"`
	DateAdded   Time       `json:"date_added"`
	DateChanged Time       `json:"date_changed"`
	User        UserRef    `json:"user"`
	Items       []ListItem `json:"items"`
}

// ListItem is one entry of a list.
type ListItem struct {
	ID           int    `json:"id"`
	Type         string `json:"type"`
	Comment      string `json:"comment"`
	DisplayTitle string `json:"display_title"`
	URI          string `json:"uri"`
	ImageURL     string `json:"image_url"`
	ResourceURL  string `json:"resource_url"`
	Stats        Stats  `json:"stats"`
}

// Contribution is a release a user has contributed to. The API returns the
// same shape as a release lookup.
type Contribution = Release
