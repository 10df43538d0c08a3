package services

import (
	"fmt"

	"loadboard/internal/core/domain/model/load"
	"loadboard/internal/core/domain/model/loadrequest"
	"loadboard/internal/core/domain/model/user"
	"loadboard/internal/pkg/errs"
)

// ErrLoadNotOwned is returned when a sender acts on a load posted by someone else.
var ErrLoadNotOwned = errs.NewAccessDeniedError("load_not_owned", "load not found or not owned by you")

// RequestArbiter resolves the bids on a requested load. Every precondition is
// checked before anything is mutated, so a failed arbitration leaves the load
// and all of its requests untouched.
//
// Example usage:
//
//	arbiter := NewRequestArbiter()
//	rejected, err := arbiter.Arbitrate(sender, l, winner, competitors)
//	if errors.Is(err, load.ErrLoadWrongState) {
//	    // The load is no longer waiting for a confirmation
//	}
type RequestArbiter struct{}

func NewRequestArbiter() RequestArbiter {
	return RequestArbiter{}
}

// Arbitrate confirms winner, assigns its driver to the load and rejects every
// other pending request in competitors. It returns the rejected requests.
func (RequestArbiter) Arbitrate(
	sender user.Identity,
	target *load.Load,
	winner *loadrequest.LoadRequest,
	competitors []*loadrequest.LoadRequest,
) ([]*loadrequest.LoadRequest, error) {
	if err := sender.Validate(); err != nil {
		return nil, err
	}
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if err := winner.Validate(); err != nil {
		return nil, err
	}

	if winner.LoadID() != target.ID() {
		return nil, errs.NewValueIsInvalidErrorWithCause("request_id",
			fmt.Errorf("request %d does not belong to load %d", winner.ID(), target.ID()))
	}
	if !winner.IsPending() {
		return nil, loadrequest.ErrRequestAlreadyProcessed
	}
	if !target.IsSentBy(sender.UserID()) {
		return nil, ErrLoadNotOwned
	}
	if target.Status() != load.Requested {
		return nil, errs.NewStateConflictError(load.ErrLoadWrongState.Code,
			fmt.Sprintf("load is %s, not waiting for confirmation", target.Status()))
	}

	losers := make([]*loadrequest.LoadRequest, 0, len(competitors))
	for _, r := range competitors {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if r.ID() == winner.ID() || r.LoadID() != target.ID() || !r.IsPending() {
			continue
		}
		losers = append(losers, r)
	}

	if err := target.Assign(winner.DriverID()); err != nil {
		return nil, err
	}
	if err := winner.Confirm(); err != nil {
		return nil, err
	}
	for _, r := range losers {
		if err := r.Reject(); err != nil {
			return nil, err
		}
	}

	return losers, nil
}
