package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Known device classes for traffic visits.
const (
	DeviceMobile = "Mobile"
	DeviceTablet = "Tablet"
	DeviceWeb    = "Web"
)

// ValidDevice reports whether d is a known device class.
func ValidDevice(d string) bool {
	return d == DeviceMobile || d == DeviceTablet || d == DeviceWeb
}

// TrafficVisit is one recorded page visit feeding the dashboard analytics.
type TrafficVisit struct {
	ObjectID primitive.ObjectID `json:"-" bson:"_id,omitempty"`

	PageURL string `json:"pageUrl" bson:"pageUrl"`
	Device  string `json:"device" bson:"device"`
	Source  string `json:"source" bson:"source"`
	Browser string `json:"browser" bson:"browser"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
