package model

// Export is an inventory CSV export job.
type Export struct {
	ID          int       `json:"id"`
	Status      JobStatus `json:"status"`
	Filename    string    `json:"filename"`
	URL         string    `json:"url"`
	DownloadURL string    `json:"download_url"`
	CreatedTS   Time      `json:"created_ts"`
	FinishedTS  Time      `json:"finished_ts"`
}

// Upload is an inventory CSV upload job.
type Upload struct {
	ID         int       `json:"id"`
	Status     JobStatus `json:"status"`
	Type       string    `json:"type"` // "add", "change" or "delete"
	Filename   string    `json:"filename"`
	Results    string    `json:"results"`
	CreatedTS  Time      `json:"created_ts"`
	FinishedTS Time      `json:"finished_ts"`
}
