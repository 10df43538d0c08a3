package kernel

import (
	"errors"
	"fmt"
	"math"

	"loadboard/internal/pkg/errs"
	"loadboard/internal/pkg/guard"
)

const (
	LatitudeMin  = -90.0
	LatitudeMax  = 90.0
	LongitudeMin = -180.0
	LongitudeMax = 180.0
)

// ErrPositionIsNotConstructed is returned when attempting to use an improperly initialized Position.
var ErrPositionIsNotConstructed = errs.NewValueIsRequiredError(
	"position must be created via NewPosition constructor")

// Position is the latest known location of a driver in WGS84 degrees.
// The zero value is invalid, use NewPosition.
//
// Example:
//
//	pos, err := kernel.NewPosition(28.6139, 77.2090)
//	if err != nil {
//	    // Handle validation error
//	}
//	fmt.Println(pos) // Position(28.613900,77.209000)
type Position struct { //nolint:recvcheck //using for validation
	lat   float64
	lng   float64
	guard guard.ConstructorGuard
}

// NewPosition validates both coordinates and returns every violation joined.
func NewPosition(lat, lng float64) (Position, error) {
	pos := Position{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(pos.setLat(lat), pos.setLng(lng)); err != nil {
		return Position{}, err
	}

	return pos, nil
}

func (p Position) Validate() error {
	return p.guard.Validate(ErrPositionIsNotConstructed)
}

func (p Position) Lat() float64 {
	return p.lat
}

func (p Position) Lng() float64 {
	return p.lng
}

func (p Position) String() string {
	return fmt.Sprintf("Position(%f,%f)", p.lat, p.lng)
}

// IsEqual reports whether both positions carry the same coordinates.
// Both positions must be properly constructed.
func (p Position) IsEqual(other Position) (bool, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return p.lat == other.lat && p.lng == other.lng, nil
}

// setLat uses a pointer receiver so the constructor can validate in place.
func (p *Position) setLat(lat float64) error {
	if math.IsNaN(lat) || lat < LatitudeMin || lat > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("lat", lat, LatitudeMin, LatitudeMax)
	}

	p.lat = lat
	return nil
}

func (p *Position) setLng(lng float64) error {
	if math.IsNaN(lng) || lng < LongitudeMin || lng > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("lng", lng, LongitudeMin, LongitudeMax)
	}

	p.lng = lng
	return nil
}
