package services

import (
	"fmt"

	"loadboard/internal/core/domain/model/user"
	"loadboard/internal/pkg/errs"
)

// Action is an operation of the role gateway.
type Action string

const (
	ActionPostLoad             Action = "post load"
	ActionListAvailableLoads   Action = "list available loads"
	ActionRequestLoad          Action = "request load"
	ActionListIncomingRequests Action = "list incoming requests"
	ActionConfirmRequest       Action = "confirm request"
	ActionViewDriverJobs       Action = "view driver jobs"
	ActionViewDriverHistory    Action = "view driver history"
	ActionViewSenderHistory    Action = "view sender history"
	ActionUpdateLocation       Action = "update location"
	ActionMarkDelivered        Action = "mark delivered"
	ActionTrackShipment        Action = "track shipment"
	ActionViewOwnerOverview    Action = "view owner overview"
	ActionMarkPaid             Action = "mark paid"
)

// ErrRoleForbidden matches every role rejection of AccessPolicy.
var ErrRoleForbidden = errs.NewAccessDeniedError("role_forbidden", "role may not perform this action")

// AccessPolicy maps every action to the roles allowed to perform it.
type AccessPolicy struct {
	allowed map[Action][]user.Role
}

func NewAccessPolicy() AccessPolicy {
	carriers := []user.Role{user.Driver, user.TruckOwner}
	return AccessPolicy{allowed: map[Action][]user.Role{
		ActionPostLoad:             {user.Sender},
		ActionListAvailableLoads:   carriers,
		ActionRequestLoad:          carriers,
		ActionListIncomingRequests: {user.Sender},
		ActionConfirmRequest:       {user.Sender},
		ActionViewDriverJobs:       carriers,
		ActionViewDriverHistory:    carriers,
		ActionViewSenderHistory:    {user.Sender},
		ActionUpdateLocation:       carriers,
		ActionMarkDelivered:        carriers,
		ActionTrackShipment:        {user.Sender, user.Driver, user.TruckOwner, user.Receiver},
		ActionViewOwnerOverview:    {user.TruckOwner},
		ActionMarkPaid:             {user.Receiver},
	}}
}

// Authorize fails with an access denied error unless the identity's role may
// perform the action. Unknown actions are denied.
func (p AccessPolicy) Authorize(identity user.Identity, action Action) error {
	if err := identity.Validate(); err != nil {
		return err
	}

	for _, role := range p.allowed[action] {
		if identity.Role() == role {
			return nil
		}
	}

	return errs.NewAccessDeniedError(ErrRoleForbidden.Code,
		fmt.Sprintf("%s cannot %s", identity.Role(), action))
}
