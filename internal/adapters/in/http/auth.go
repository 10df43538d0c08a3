package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"loadboard/internal/core/domain/model/kernel"
	"loadboard/internal/core/domain/model/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	DefaultTokenTTL = 24 * time.Hour

	identityContextKey = "identity"
	tokenQueryParam    = "token"
)

var ErrJWTSecretIsEmpty = errors.New("jwt secret is empty")

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 bearer tokens. The subject is the user
// id, the role travels in its own claim.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, ErrJWTSecretIsEmpty
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (t *TokenIssuer) Issue(identity user.Identity) (string, time.Time, error) {
	if err := identity.Validate(); err != nil {
		return "", time.Time{}, err
	}

	now := t.now()
	expiresAt := now.Add(t.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: identity.Role().String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse verifies the signature and expiry and rebuilds the identity.
func (t *TokenIssuer) Parse(raw string) (user.Identity, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return user.Identity{}, err
	}

	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return user.Identity{}, fmt.Errorf("token subject: %w", err)
	}
	role, err := user.RoleFromString(c.Role)
	if err != nil {
		return user.Identity{}, err
	}

	return user.NewIdentity(kernel.ID(id), role)
}

// Middleware accepts only "Authorization: Bearer <token>".
func (t *TokenIssuer) Middleware() echo.MiddlewareFunc {
	return t.middleware(false)
}

// StreamMiddleware also accepts a token query parameter, for websocket clients
// that cannot set headers. Mount it on the stream route only.
func (t *TokenIssuer) StreamMiddleware() echo.MiddlewareFunc {
	return t.middleware(true)
}

func (t *TokenIssuer) middleware(allowQuery bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if raw == "" && allowQuery {
				raw = c.QueryParam(tokenQueryParam)
			}
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, Error{
					Code:    "unauthenticated",
					Message: "authorization bearer token required",
				})
			}

			identity, err := t.Parse(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, Error{
					Code:    "invalid_token",
					Message: "invalid or expired token",
				})
			}

			c.Set(identityContextKey, identity)
			return next(c)
		}
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// identityFrom returns the zero Identity when the middleware did not run;
// every command and query rejects it.
func identityFrom(c echo.Context) user.Identity {
	identity, _ := c.Get(identityContextKey).(user.Identity)
	return identity
}
