package domain

import "time"

// MediaFile is the metadata stored for an uploaded file.
type MediaFile struct {
	ID             string    `json:"id"`
	Filename       string    `json:"filename"`
	StoredFilename string    `json:"stored_filename"`
	MimeType       string    `json:"mime_type"`
	Size           int64     `json:"size"`
	Width          int       `json:"width"`
	Height         int       `json:"height"`
	TicketID       string    `json:"ticket_id,omitempty"`
	UploadedBy     string    `json:"uploaded_by,omitempty"`
	UploadDate     time.Time `json:"upload_date"`
	Storage        string    `json:"storage"`
	Path           string    `json:"path"`
}

// Location is a geocoding result.
type Location struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
