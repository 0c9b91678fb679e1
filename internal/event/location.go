package event

import (
	"errors"
	"math"
)

var (
	// ErrEmptyDescription indicates that a location has no description
	ErrEmptyDescription = errors.New("location description must not be empty")

	// ErrLatitudeRange indicates a latitude outside [-90, 90]
	ErrLatitudeRange = errors.New("latitude must be within [-90, 90]")

	// ErrLongitudeRange indicates a longitude outside [-180, 180]
	ErrLongitudeRange = errors.New("longitude must be within [-180, 180]")
)

// Location is a described place with coordinates.
type Location struct {
	Description string
	Latitude    float64
	Longitude   float64
}

// NewLocation builds a Location after validating its description and bounds.
func NewLocation(description string, latitude, longitude float64) (Location, error) {
	l := Location{Description: description, Latitude: latitude, Longitude: longitude}
	if err := l.Validate(); err != nil {
		return Location{}, err
	}
	return l, nil
}

// Validate checks the Location invariants.
func (l Location) Validate() error {
	if l.Description == "" {
		return ErrEmptyDescription
	}
	if math.IsNaN(l.Latitude) || l.Latitude < -90 || l.Latitude > 90 {
		return ErrLatitudeRange
	}
	if math.IsNaN(l.Longitude) || l.Longitude < -180 || l.Longitude > 180 {
		return ErrLongitudeRange
	}
	return nil
}
