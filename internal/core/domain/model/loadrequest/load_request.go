package loadrequest

import (
	"errors"

	"loadboard/internal/core/domain/model/kernel"
	"loadboard/internal/pkg/errs"
)

var (
	ErrLoadRequestIsNotConstructed = errs.NewValueIsRequiredError(
		"load request must be created via NewLoadRequest or RestoreLoadRequest")

	// ErrRequestAlreadyProcessed is returned for any attempt to resolve a request twice.
	ErrRequestAlreadyProcessed = errs.NewStateConflictError("request_already_processed",
		"request not found or already processed")

	// ErrAlreadyRequested is returned when the driver already has a pending bid on the load.
	ErrAlreadyRequested = errs.NewStateConflictError("already_requested",
		"you have already requested this load")
)

// LoadRequest is a driver's bid on a load.
type LoadRequest struct {
	id            kernel.ID
	loadID        kernel.ID
	driverID      kernel.ID
	status        Status
	isConstructed bool
}

// NewLoadRequest creates a pending bid.
func NewLoadRequest(id, loadID, driverID kernel.ID) (*LoadRequest, error) {
	return RestoreLoadRequest(id, loadID, driverID, Pending)
}

// RestoreLoadRequest rebuilds a bid from storage.
func RestoreLoadRequest(id, loadID, driverID kernel.ID, status Status) (*LoadRequest, error) {
	if err := errors.Join(
		id.Validate(),
		wrapRequired("load_id", loadID.Validate()),
		wrapRequired("driver_id", driverID.Validate()),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	return &LoadRequest{
		id:            id,
		loadID:        loadID,
		driverID:      driverID,
		status:        status,
		isConstructed: true,
	}, nil
}

func (r *LoadRequest) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrLoadRequestIsNotConstructed
	}
	return nil
}

func (r *LoadRequest) ID() kernel.ID {
	return r.id
}

func (r *LoadRequest) LoadID() kernel.ID {
	return r.loadID
}

func (r *LoadRequest) DriverID() kernel.ID {
	return r.driverID
}

func (r *LoadRequest) Status() Status {
	return r.status
}

func (r *LoadRequest) IsPending() bool {
	return r.status == Pending
}

// Confirm marks the bid as the winner.
func (r *LoadRequest) Confirm() error {
	s, err := r.status.resolve(Confirmed)
	if err != nil {
		return err
	}
	r.status = s
	return nil
}

// Reject marks the bid as lost.
func (r *LoadRequest) Reject() error {
	s, err := r.status.resolve(Rejected)
	if err != nil {
		return err
	}
	r.status = s
	return nil
}

func wrapRequired(param string, err error) error {
	if err == nil {
		return nil
	}
	return errs.NewValueIsRequiredErrorWithCause(param, err)
}
