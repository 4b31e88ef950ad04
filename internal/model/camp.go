package model

// Camp represents a relief shelter registered through the API.  Camps are
// write-once: there is no update or delete path.  This struct corresponds to
// a document in the `camps` collection.
//
// Fields:
//  ID           – hex ObjectID assigned on insert; not stored by this struct.
//  Name         – display name of the camp.
//  Type         – camp category (shelter, medical, food distribution...).
//  MaxCapacity  – number of people the camp can hold.
//  ContactPhone – phone number for the camp.
//  Address      – street address.
//  District     – administrative district.
//  City         – city the camp is in.
//  Amenities    – services offered on site, stored as submitted.
//  Location     – GeoJSON point, longitude first.
//  CreatedBy    – submitter as sent by the client: an id string or an
//                 object such as {name, type, email, phone}.
type Camp struct {
	ID           string   `bson:"-" json:"id,omitempty"`
	Name         string   `bson:"name" json:"name"`
	Type         string   `bson:"type" json:"type"`
	MaxCapacity  int      `bson:"maxCapacity" json:"maxCapacity"`
	ContactPhone string   `bson:"contactPhone" json:"contactPhone"`
	Address      string   `bson:"address" json:"address"`
	District     string   `bson:"district" json:"district"`
	City         string   `bson:"city" json:"city"`
	Amenities    []any    `bson:"amenities" json:"amenities"`
	Location     GeoPoint `bson:"location" json:"location"`
	CreatedBy    any      `bson:"createdBy" json:"createdBy"`
}

// GeoPoint is a GeoJSON Point.  Coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// NewPoint builds a GeoJSON point from a longitude/latitude pair.
func NewPoint(lng, lat float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

// Lng returns the longitude of the point.
func (p GeoPoint) Lng() float64 { return p.coord(0) }

// Lat returns the latitude of the point.
func (p GeoPoint) Lat() float64 { return p.coord(1) }

func (p GeoPoint) coord(i int) float64 {
	if i < len(p.Coordinates) {
		return p.Coordinates[i]
	}
	return 0
}
