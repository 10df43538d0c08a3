// Package commands contains the Load Registry's write operations.
// Implements the Command pattern for write operations in the CQRS architecture.
// All handlers follow the same pattern: validate the command, authorize the
// identity, then read, mutate and persist aggregates inside one unit of work.
package commands

import (
	"context"

	"loadboard/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// LoadRepoFactory provides access to the load repository within a transaction.
	LoadRepoFactory interface {
		LoadRepository() ports.LoadRepository
	}

	// LoadRequestRepoFactory provides access to the request repository within a transaction.
	LoadRequestRepoFactory interface {
		LoadRequestRepository() ports.LoadRequestRepository
	}

	// UserRepoFactory provides access to the user repository within a transaction.
	UserRepoFactory interface {
		UserRepository() ports.UserRepository
	}

	// LoadUoW manages transactions for operations touching a single load.
	LoadUoW interface {
		TxManager
		LoadRepoFactory
	}

	LoadUoWFactory interface {
		Create() LoadUoW
	}

	// UserUoW manages transactions for account operations.
	UserUoW interface {
		TxManager
		UserRepoFactory
	}

	UserUoWFactory interface {
		Create() UserUoW
	}

	// UoW spans loads, their requests and users. Used by the arbitration
	// commands that change a load and its requests together.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   l, err := uow.LoadRepository().GetForUpdate(ctx, loadID)
	//   pending, err := uow.LoadRequestRepository().ListPendingByLoad(ctx, loadID)
	//   // ... arbitrate and persist
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		LoadRepoFactory
		LoadRequestRepoFactory
		UserRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)
