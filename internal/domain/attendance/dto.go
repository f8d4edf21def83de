package attendance

import (
	"github.com/cmlabs-hris/attendance-go/internal/pkg/validator"
)

type CheckInRequest struct {
	UserID    string   `json:"user_id" validate:"required"`
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
}

func (r *CheckInRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	return validateCoordinates(r.Latitude, r.Longitude)
}

func (r *CheckInRequest) Location() *Location {
	return toLocation(r.Latitude, r.Longitude)
}

type CheckOutRequest struct {
	UserID string `json:"user_id" validate:"required"`
	// RecordID may be empty, in which case today's open session is closed.
	RecordID  string   `json:"record_id,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
}

func (r *CheckOutRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	return validateCoordinates(r.Latitude, r.Longitude)
}

func (r *CheckOutRequest) Location() *Location {
	return toLocation(r.Latitude, r.Longitude)
}

func validateCoordinates(lat, lng *float64) error {
	if (lat == nil) != (lng == nil) {
		return validator.ValidationErrors{{
			Field:   "latitude",
			Message: "latitude and longitude must be provided together",
		}}
	}
	return nil
}

func toLocation(lat, lng *float64) *Location {
	if lat == nil || lng == nil {
		return nil
	}
	return &Location{Lat: *lat, Lng: *lng}
}
