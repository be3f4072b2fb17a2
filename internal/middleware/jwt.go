package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "context"  // context for the active-user lookup
    "errors"   // errors.Is for token sentinel checks
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming
    "time"     // timeout for the DB lookup

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/iliyamo/paragraph-titler/internal/model"
    "github.com/iliyamo/paragraph-titler/internal/utils"
)

// UserStore is the slice of the user repository the middleware needs: a
// lookup that only ever returns active users.
type UserStore interface {
    GetByID(ctx context.Context, id uint64) (model.User, error)
}

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the authenticated user ID into the request context under
// "user_id".  Tokens carry no revocation state, so after signature and
// expiry checks the middleware additionally loads the user and rejects
// the request when the account no longer exists or has been deactivated.
// Protected handlers can rely on c.Get("user_id") holding a uint64.
func JWTAuth(secret string, users UserStore) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "auth_error", "message": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            uid, err := utils.ParseAccessToken(secret, raw)
            if err != nil {
                if errors.Is(err, utils.ErrTokenExpired) {
                    return c.JSON(http.StatusUnauthorized, echo.Map{"error": "auth_error", "message": "token expired"})
                }
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "auth_error", "message": "invalid token"})
            }

            // The active flag is checked per request; a token issued before
            // deactivation must not keep working.
            ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
            defer cancel()
            if _, err := users.GetByID(ctx, uid); err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "auth_error", "message": "user not found or inactive"})
            }

            c.Set("user_id", uid)
            return next(c)
        }
    }
}
