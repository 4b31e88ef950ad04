// Package queue defines message payloads exchanged over the message broker
// and the background consumer that writes camp audit lines.
package queue

// CampCreatedEvent is published after a camp document has been stored.  It
// carries enough of the camp for downstream consumers to log or notify
// without reading the document store.
type CampCreatedEvent struct {
	CampID      string   `json:"camp_id"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	District    string   `json:"district"`
	City        string   `json:"city"`
	MaxCapacity int      `json:"max_capacity"`
	Amenities   []any    `json:"amenities"`
	Lng         float64  `json:"lng"`
	Lat         float64  `json:"lat"`
	CreatedBy   any      `json:"created_by"`
	CreatedAt   string   `json:"created_at"`
}
