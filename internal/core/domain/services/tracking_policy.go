package services

import (
	"fmt"

	"loadboard/internal/core/domain/model/kernel"
	"loadboard/internal/core/domain/model/user"
	"loadboard/internal/pkg/errs"
)

// OwnerTrackingScope decides which shipments a truck owner may track.
type OwnerTrackingScope string

const (
	// OwnerTracksAnyAssigned lets owners track every load that has a driver.
	OwnerTracksAnyAssigned OwnerTrackingScope = "any_assigned"
	// OwnerTracksManagedDrivers limits owners to loads hauled by drivers they manage.
	OwnerTracksManagedDrivers OwnerTrackingScope = "managed_drivers"
)

var ErrTrackingForbidden = errs.NewAccessDeniedError("tracking_forbidden", "unauthorized to track this shipment")

func OwnerTrackingScopeFromString(s string) (OwnerTrackingScope, error) {
	switch OwnerTrackingScope(s) {
	case OwnerTracksAnyAssigned, OwnerTracksManagedDrivers:
		return OwnerTrackingScope(s), nil
	case "":
		return OwnerTracksAnyAssigned, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("owner tracking scope", fmt.Errorf("%q is unknown", s))
	}
}

// TrackingSubject is what the tracking rule needs to know about a load.
type TrackingSubject struct {
	SenderID        kernel.ID
	DriverID        *kernel.ID
	DriverManagedBy *kernel.ID
}

// TrackingPolicy: a sender tracks own loads, a driver tracks loads assigned to
// them, a receiver tracks any load, and a truck owner tracks according to scope.
type TrackingPolicy struct {
	ownerScope OwnerTrackingScope
}

func NewTrackingPolicy(ownerScope OwnerTrackingScope) TrackingPolicy {
	if ownerScope == "" {
		ownerScope = OwnerTracksAnyAssigned
	}
	return TrackingPolicy{ownerScope: ownerScope}
}

func (p TrackingPolicy) Authorize(identity user.Identity, subject TrackingSubject) error {
	if err := identity.Validate(); err != nil {
		return err
	}
	if p.CanTrack(identity, subject) {
		return nil
	}
	return ErrTrackingForbidden
}

func (p TrackingPolicy) CanTrack(identity user.Identity, subject TrackingSubject) bool {
	hasDriver := subject.DriverID != nil

	switch identity.Role() {
	case user.Sender:
		return identity.Is(subject.SenderID)
	case user.Driver:
		return hasDriver && identity.Is(*subject.DriverID)
	case user.Receiver:
		return true
	case user.TruckOwner:
		if !hasDriver {
			return false
		}
		if p.ownerScope == OwnerTracksManagedDrivers {
			return subject.DriverManagedBy != nil && identity.Is(*subject.DriverManagedBy)
		}
		return true
	case user.RoleUnknown:
	}
	return false
}
