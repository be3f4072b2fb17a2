package handler // handler defines http handlers

import (
    "context"
    "errors"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/paragraph-titler/internal/model"
)

// UserStore is the user persistence surface the handlers consume.  The
// concrete implementation is repository.UserRepo; tests substitute an
// in-memory fake.
type UserStore interface {
    Create(ctx context.Context, username, email, password string, firstName, lastName *string, cost int) (uint64, error)
    GetByUsername(ctx context.Context, username string) (model.User, error)
    GetByID(ctx context.Context, id uint64) (model.User, error)
    TouchLastLogin(ctx context.Context, id uint64) error
}

// ResultStore is the saved-result persistence surface, implemented by
// repository.ResultRepo.
type ResultStore interface {
    Save(ctx context.Context, rec model.SavedResult) (uint64, error)
    ListByUser(ctx context.Context, userID uint64, limit, offset int) ([]model.SavedResult, error)
    CountByUser(ctx context.Context, userID uint64) (int, error)
    DeleteByIDAndUser(ctx context.Context, resultID, userID uint64) error
}

// Stable error kinds carried in every error response, one per taxonomy
// entry.  Clients can branch on "error" and show "message".
const (
    kindValidation  = "validation_error"
    kindAuth        = "auth_error"
    kindConflict    = "conflict_error"
    kindNotFound    = "not_found"
    kindUpstream    = "upstream_error"
    kindPersistence = "persistence_error"
)

// fail writes the uniform error envelope.
func fail(c echo.Context, status int, kind, msg string) error {
    return c.JSON(status, echo.Map{"error": kind, "message": msg})
}

// getUserID extracts the user_id the JWT middleware stored in the context.
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// reqCtx bounds handler-side database work the way the rest of the
// service does: five seconds, derived from the request context.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// userPayload is the user object embedded in auth responses.  It never
// carries the password hash.
type userPayload struct {
    UserID    uint64     `json:"user_id"`
    Username  string     `json:"username"`
    Email     string     `json:"email"`
    FirstName *string    `json:"first_name"`
    LastName  *string    `json:"last_name"`
    CreatedAt time.Time  `json:"created_at"`
    LastLogin *time.Time `json:"last_login"`
}

func toUserPayload(u model.User) userPayload {
    return userPayload{
        UserID:    u.ID,
        Username:  u.Username,
        Email:     u.Email,
        FirstName: u.FirstName,
        LastName:  u.LastName,
        CreatedAt: u.CreatedAt,
        LastLogin: u.LastLogin,
    }
}
