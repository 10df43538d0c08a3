package queries

import (
	"context"
	"errors"
	"strings"

	"loadboard/internal/core/domain/model/kernel"
	"loadboard/internal/core/domain/model/user"
	"loadboard/internal/core/ports"
	"loadboard/internal/pkg/errs"
	"loadboard/internal/pkg/guard"

	"gorm.io/gorm"
)

var (
	ErrAuthenticateUserQueryIsNotConstructed = errs.NewValueIsRequiredError(
		"AuthenticateUserQuery must be created via NewAuthenticateUserQuery constructor",
	)

	// ErrInvalidCredentials hides whether the username or the password was wrong.
	ErrInvalidCredentials = errs.NewAccessDeniedError("invalid_credentials", "invalid username or password")
)

type AuthenticateUserQuery struct {
	username string
	password string

	guard guard.ConstructorGuard
}

func NewAuthenticateUserQuery(username, password string) (AuthenticateUserQuery, error) {
	username = strings.TrimSpace(username)

	var err error
	if username == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("username"))
	}
	if password == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("password"))
	}
	if err != nil {
		return AuthenticateUserQuery{}, err
	}

	return AuthenticateUserQuery{
		username: username,
		password: password,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q AuthenticateUserQuery) Username() string {
	return q.username
}

type AuthenticatedUser struct {
	Identity user.Identity
	Username string
}

type AuthenticateUserQueryHandler struct {
	db     *gorm.DB
	hasher ports.PasswordHasher
}

func NewAuthenticateUserQueryHandler(db *gorm.DB, hasher ports.PasswordHasher) AuthenticateUserQueryHandler {
	return AuthenticateUserQueryHandler{db: db, hasher: hasher}
}

func (h AuthenticateUserQueryHandler) Handle(
	ctx context.Context,
	query AuthenticateUserQuery,
) (AuthenticatedUser, error) {
	if err := query.guard.Validate(ErrAuthenticateUserQueryIsNotConstructed); err != nil {
		return AuthenticatedUser{}, err
	}

	var row struct {
		ID           int64
		PasswordHash string
		Role         string
	}

	result := h.db.WithContext(ctx).Raw(`
		SELECT id, password_hash, role
		FROM users
		WHERE username = ?
	`, query.Username()).Scan(&row)
	if result.Error != nil {
		return AuthenticatedUser{}, result.Error
	}
	if result.RowsAffected == 0 {
		return AuthenticatedUser{}, ErrInvalidCredentials
	}

	if err := h.hasher.Compare(row.PasswordHash, query.password); err != nil {
		return AuthenticatedUser{}, ErrInvalidCredentials
	}

	role, err := user.RoleFromString(row.Role)
	if err != nil {
		return AuthenticatedUser{}, err
	}

	identity, err := user.NewIdentity(kernel.ID(row.ID), role)
	if err != nil {
		return AuthenticatedUser{}, err
	}

	return AuthenticatedUser{Identity: identity, Username: query.Username()}, nil
}
