package model

// Release is a single physical or digital issue of a recording.
type Release struct {
	ID                int            `json:"id"`
	Status            string         `json:"status"`
	Year              int            `json:"year"`
	ResourceURL       string         `json:"resource_url"`
	URI               string         `json:"uri"`
	Artists           []ArtistCredit `json:"artists"`
	ArtistsSort       string         `json:"artists_sort"`
	Labels            []LabelCredit  `json:"labels"`
	Series            []LabelCredit  `json:"series"`
	Companies         []Company      `json:"companies"`
	Formats           []Format       `json:"formats"`
	DataQuality       string         `json:"data_quality"`
	Community         Community      `json:"community"`
	FormatQuantity    int            `json:"format_quantity"`
	DateAdded         Time           `json:"date_added"`
	DateChanged       Time           `json:"date_changed"`
	NumForSale        int            `json:"num_for_sale"`
	LowestPrice       *float64       `json:"lowest_price"`
	MasterID          int            `json:"master_id"`
	MasterURL         string         `json:"master_url"`
	Title             string         `json:"title"`
	Country           string         `json:"country"`
	Released          string         `json:"released"`
	ReleasedFormatted string         `json:"released_formatted"`
	Notes             string         `json:"notes"`
	Identifiers       []Identifier   `json:"identifiers"`
	Videos            []Video        `json:"videos"`
	Genres            []string       `json:"genres"`
	Styles            []string       `json:"styles"`
	Tracklist         []Track        `json:"tracklist"`
	ExtraArtists      []ArtistCredit `json:"extraartists"`
	Images            []Image        `json:"images"`
	Thumb             string         `json:"thumb"`
	EstimatedWeight   int            `json:"estimated_weight"`
	BlockedFromSale   bool           `json:"blocked_from_sale"`
}

// ReleaseRating is one user's rating of a release.
type ReleaseRating struct {
	Username  string `json:"username"`
	ReleaseID int    `json:"release_id"`
	Rating    int    `json:"rating"`
}

// CommunityRating is the aggregate rating of a release.
type CommunityRating struct {
	ReleaseID int    `json:"release_id"`
	Rating    Rating `json:"rating"`
}

// Master groups all versions of the same recording.
type Master struct {
	ID                   int            `json:"id"`
	MainRelease          int            `json:"main_release"`
	MostRecentRelease    int            `json:"most_recent_release"`
	ResourceURL          string         `json:"resource_url"`
	URI                  string         `json:"uri"`
	VersionsURL          string         `json:"versions_url"`
	MainReleaseURL       string         `json:"main_release_url"`
	MostRecentReleaseURL string         `json:"most_recent_release_url"`
	NumForSale           int            `json:"num_for_sale"`
	LowestPrice          *float64       `json:"lowest_price"`
	Images               []Image        `json:"images"`
	Genres               []string       `json:"genres"`
	Styles               []string       `json:"styles"`
	Year                 int            `json:"year"`
	Tracklist            []Track        `json:"tracklist"`
	Artists              []ArtistCredit `json:"artists"`
	Title                string         `json:"title"`
	DataQuality          string         `json:"data_quality"`
	Videos               []Video        `json:"videos"`
}

// MasterVersion is one release belonging to a master.
type MasterVersion struct {
	ID           int      `json:"id"`
	Label        string   `json:"label"`
	Country      string   `json:"country"`
	Title        string   `json:"title"`
	MajorFormats []string `json:"major_formats"`
	Format       string   `json:"format"`
	CatNo        string   `json:"catno"`
	Released     string   `json:"released"`
	Status       string   `json:"status"`
	ResourceURL  string   `json:"resource_url"`
	Thumb        string   `json:"thumb"`
	Stats        Stats    `json:"stats"`
}

// Artist is a person or group.
type Artist struct {
	ID             int         `json:"id"`
	Name           string      `json:"name"`
	RealName       string      `json:"realname"`
	Profile        string      `json:"profile"`
	ResourceURL    string      `json:"resource_url"`
	URI            string      `json:"uri"`
	ReleasesURL    string      `json:"releases_url"`
	Images         []Image     `json:"images"`
	URLs           []string    `json:"urls"`
	NameVariations []string    `json:"namevariations"`
	Aliases        []EntityRef `json:"aliases"`
	Members        []EntityRef `json:"members"`
	Groups         []EntityRef `json:"groups"`
	DataQuality    string      `json:"data_quality"`
}

// ArtistRelease is a release or master in an artist's discography.
type ArtistRelease struct {
	ID          int    `json:"id"`
	Status      string `json:"status"`
	Type        string `json:"type"` // "release" or "master"
	Format      string `json:"format"`
	Label       string `json:"label"`
	Title       string `json:"title"`
	ResourceURL string `json:"resource_url"`
	Role        string `json:"role"`
	Artist      string `json:"artist"`
	Year        int    `json:"year"`
	Thumb       string `json:"thumb"`
	MainRelease int    `json:"main_release,omitempty"`
	Stats       Stats  `json:"stats"`
}

// Label is a record label, company or series.
type Label struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	Profile     string      `json:"profile"`
	ContactInfo string      `json:"contact_info"`
	ResourceURL string      `json:"resource_url"`
	URI         string      `json:"uri"`
	ReleasesURL string      `json:"releases_url"`
	Images      []Image     `json:"images"`
	URLs        []string    `json:"urls"`
	SubLabels   []EntityRef `json:"sublabels"`
	ParentLabel *EntityRef  `json:"parent_label,omitempty"`
	DataQuality string      `json:"data_quality"`
}

// LabelRelease is a release in a label's catalog.
type LabelRelease struct {
	ID          int    `json:"id"`
	Status      string `json:"status"`
	Format      string `json:"format"`
	CatNo       string `json:"catno"`
	Thumb       string `json:"thumb"`
	ResourceURL string `json:"resource_url"`
	Title       string `json:"title"`
	Year        int    `json:"year"`
	Artist      string `json:"artist"`
	Stats       Stats  `json:"stats"`
}

// SearchResult is a single database search hit.
type SearchResult struct {
	ID             int        `json:"id"`
	Type           SearchType `json:"type"`
	Title          string     `json:"title"`
	Thumb          string     `json:"thumb"`
	CoverImage     string     `json:"cover_image"`
	ResourceURL    string     `json:"resource_url"`
	URI            string     `json:"uri"`
	Country        string     `json:"country,omitempty"`
	Year           string     `json:"year,omitempty"`
	Format         []string   `json:"format,omitempty"`
	Label          []string   `json:"label,omitempty"`
	Genre          []string   `json:"genre,omitempty"`
	Style          []string   `json:"style,omitempty"`
	Barcode        []string   `json:"barcode,omitempty"`
	CatNo          string     `json:"catno,omitempty"`
	MasterID       int        `json:"master_id,omitempty"`
	MasterURL      string     `json:"master_url,omitempty"`
	FormatQuantity int        `json:"format_quantity,omitempty"`
	Formats        []Format   `json:"formats,omitempty"`
	Community      *struct {
		Want int `json:"want"`
		Have int `json:"have"`
	} `json:"community,omitempty"`
}

// APIRoot is the payload of the API's root endpoint.
type APIRoot struct {
	Hello            string `json:"hello"`
	APIVersion       string `json:"api_version"`
	DocumentationURL string `json:"documentation_url"`
	Statistics       struct {
		Releases int `json:"releases"`
		Artists  int `json:"artists"`
		Labels   int `json:"labels"`
	} `json:"statistics"`
}
