package model

import "time"

// Item represents an inventory record. Image is the stored-file key of
// the item's uploaded picture; it is empty when the item was created
// through the API without an upload.
type Item struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Price     Cents     `json:"price"`
	Quantity  int       `json:"quantity"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
