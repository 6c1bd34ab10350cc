package models

import (
	"time"
)

// ListingImage is a stored file descriptor for an uploaded photo. ListingID
// is empty for orphan images uploaded before their listing exists; they gain
// access control only once attached.
type ListingImage struct {
	ID           string    `bson:"_id" json:"id"`
	Filename     string    `bson:"filename" json:"filename"`
	OriginalName string    `bson:"original_name" json:"originalName"`
	MimeType     string    `bson:"mime_type" json:"mimetype"`
	Size         int64     `bson:"size" json:"size"`
	Path         string    `bson:"path" json:"path"`
	Order        int       `bson:"order" json:"order"`
	ListingID    string    `bson:"listing_id,omitempty" json:"listingId,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
}
