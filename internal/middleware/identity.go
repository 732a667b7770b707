package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Token verification happens upstream; by the time a request reaches this
// service the gateway has already resolved the caller and forwards the
// verified identity in these headers.
const (
	HeaderUserID          = "X-User-Id"
	HeaderServiceIdentity = "X-Service-Identity"

	identityContextKey = "caller_identity"
)

// Identity is the authenticated caller handed to the core: an end user,
// a privileged service, or anonymous (both fields empty/false).
type Identity struct {
	UserID  string
	Service bool
}

func CallerIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := Identity{
				UserID:  c.Request().Header.Get(HeaderUserID),
				Service: c.Request().Header.Get(HeaderServiceIdentity) == "true",
			}
			c.Set(identityContextKey, identity)
			return next(c)
		}
	}
}

func IdentityFrom(c echo.Context) Identity {
	if identity, ok := c.Get(identityContextKey).(Identity); ok {
		return identity
	}
	return Identity{}
}

// RequireService guards ingestion and administrative routes.
func RequireService() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !IdentityFrom(c).Service {
				return echo.NewHTTPError(http.StatusForbidden, "service identity required")
			}
			return next(c)
		}
	}
}

// RequireUser guards profile routes, which are owner-only.
func RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if IdentityFrom(c).UserID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "user identity required")
			}
			return next(c)
		}
	}
}
