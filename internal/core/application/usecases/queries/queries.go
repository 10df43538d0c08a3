// Package queries contains the read side of the load board: role scoped
// projections read straight from PostgreSQL with raw SQL. Queries never
// change state and are never consulted to authorize a command.
package queries

import (
	"loadboard/internal/core/domain/model/kernel"
	"loadboard/internal/core/domain/model/user"
	"loadboard/internal/core/domain/services"
	"loadboard/internal/pkg/guard"
)

const historyLimit = 50

type documentAdvisor interface {
	RequiredDocuments(origin, destination string) []string
}

// identityQuery is the common part of every query issued by a signed in user.
type identityQuery struct {
	identity user.Identity
	guard    guard.ConstructorGuard
}

func newIdentityQuery(identity user.Identity) (identityQuery, error) {
	if err := identity.Validate(); err != nil {
		return identityQuery{}, err
	}
	return identityQuery{
		identity: identity,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q identityQuery) Identity() user.Identity {
	return q.identity
}

// authorizedQuery validates the query and checks the role against action.
func authorizedQuery(q identityQuery, notConstructed error, action services.Action) error {
	if err := q.guard.Validate(notConstructed); err != nil {
		return err
	}
	return services.NewAccessPolicy().Authorize(q.identity, action)
}

func referenceOf(loadID int64) string {
	return kernel.ReferencePrefix + kernel.ID(loadID).String()
}

func documentsFor(advisor documentAdvisor, origin, destination string) []string {
	if advisor == nil {
		return []string{}
	}
	return advisor.RequiredDocuments(origin, destination)
}

func idOrNil(v *int64) *kernel.ID {
	if v == nil {
		return nil
	}
	id := kernel.ID(*v)
	return &id
}

func stringOr(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}
