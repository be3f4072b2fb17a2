package handler

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/paragraph-titler/internal/config"
	"github.com/iliyamo/paragraph-titler/internal/repository"
	"github.com/iliyamo/paragraph-titler/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users UserStore
}

func NewAuthHandler(cfg config.Config, users UserStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users}
}

// ----- DTOs -----

type registerReq struct {
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}
type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResp struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        userPayload `json:"user"`
}

// Register: create user and return a token immediately.  Username and
// email are unique case-sensitively, so no normalization happens here
// beyond whitespace trimming.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, kindValidation, "invalid body")
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if len(req.Username) < 3 || len(req.Username) > 50 {
		return fail(c, http.StatusBadRequest, kindValidation, "username must be 3-50 characters")
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return fail(c, http.StatusBadRequest, kindValidation, "valid email required")
	}
	if len(req.Password) < 6 {
		return fail(c, http.StatusBadRequest, kindValidation, "password must be at least 6 characters")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Username, req.Email, req.Password, req.FirstName, req.LastName, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrUserExists {
			return fail(c, http.StatusConflict, kindConflict, "username or email already exists")
		}
		return fail(c, http.StatusInternalServerError, kindPersistence, "create user failed")
	}

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return fail(c, http.StatusInternalServerError, kindPersistence, "load user failed")
	}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, uid, h.Cfg.AccessTTLMin)
	if err != nil {
		return fail(c, http.StatusInternalServerError, kindPersistence, "issue token failed")
	}

	return c.JSON(http.StatusOK, tokenResp{
		AccessToken: access.Token,
		TokenType:   "bearer",
		User:        toUserPayload(u),
	})
}

// Login: verify credentials and return a fresh token.  Unknown usernames
// and wrong passwords produce the identical response so the endpoint
// cannot be used to probe which usernames exist.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, kindValidation, "invalid body")
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, kindValidation, "username/password required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusUnauthorized, kindAuth, "invalid username or password")
		}
		return fail(c, http.StatusInternalServerError, kindPersistence, "query failed")
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return fail(c, http.StatusUnauthorized, kindAuth, "invalid username or password")
	}

	if err := h.Users.TouchLastLogin(ctx, u.ID); err != nil {
		return fail(c, http.StatusInternalServerError, kindPersistence, "update last login failed")
	}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, h.Cfg.AccessTTLMin)
	if err != nil {
		return fail(c, http.StatusInternalServerError, kindPersistence, "issue token failed")
	}

	// Reload so the response reflects the login that just happened.
	u, err = h.Users.GetByID(ctx, u.ID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, kindPersistence, "load user failed")
	}

	return c.JSON(http.StatusOK, tokenResp{
		AccessToken: access.Token,
		TokenType:   "bearer",
		User:        toUserPayload(u),
	})
}

// Me returns the caller's user record.  The JWT middleware has already
// verified the token and the active flag.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, kindAuth, "unauthorized")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusUnauthorized, kindAuth, "user not found or inactive")
		}
		return fail(c, http.StatusInternalServerError, kindPersistence, "query failed")
	}
	return c.JSON(http.StatusOK, toUserPayload(u))
}
