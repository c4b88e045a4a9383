package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/topic-feed-service/internal/auth"
	"github.com/iliyamo/topic-feed-service/internal/config"
	"github.com/iliyamo/topic-feed-service/internal/middleware"
	"github.com/iliyamo/topic-feed-service/internal/model"
	"github.com/iliyamo/topic-feed-service/internal/repository"
	"github.com/iliyamo/topic-feed-service/internal/service"
)

// UserStore is the slice of user storage the auth endpoints need. It is
// satisfied by *repository.UserRepo.
type UserStore interface {
	Create(ctx context.Context, email, username, passwordHash string) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	Update(ctx context.Context, u model.User) error
}

// AuthHandler bundles dependencies for registration, login and profile
// endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  UserStore
	Tokens *auth.TokenService
	Subs   *service.SubscriptionRegistry
}

func NewAuthHandler(cfg config.Config, u UserStore, t *auth.TokenService, s *service.SubscriptionRegistry) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t, Subs: s}
}

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}
type loginReq struct {
	Identifier string `json:"identifier"` // email or username
	Password   string `json:"password"`
}
type updateProfileReq struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResp struct {
	Token string `json:"token"`
}
type profileResp struct {
	ID            uint64      `json:"id"`
	Email         string      `json:"email"`
	Username      string      `json:"username"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	Subscriptions []topicResp `json:"subscriptions"`
}

// Register: create user and return a bearer token immediately, so
// registering doubles as logging in.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)
	if req.Email == "" || req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/username/password required"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	// Duplicate checks happen before any write; the unique indexes in
	// the table close the race window.
	if _, err := h.Users.GetByEmail(ctx, req.Email); err == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
	}
	if _, err := h.Users.GetByUsername(ctx, req.Username); err == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
	}

	hash, err := auth.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}
	if _, err := h.Users.Create(ctx, req.Email, req.Username, hash); err != nil {
		if errors.Is(err, repository.ErrEmailExists) || errors.Is(err, repository.ErrUsernameExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	token, err := h.Tokens.Issue(req.Email, time.Now().UTC())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusCreated, tokenResp{Token: token})
}

// Login: verify credentials against the stored hash and return a fresh
// token. The identifier may be the email or the username; both failure
// modes answer the same way so accounts cannot be enumerated.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Identifier = strings.TrimSpace(req.Identifier)
	if req.Identifier == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "identifier/password required"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	u, err := h.lookup(ctx, req.Identifier)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !auth.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	token, err := h.Tokens.Issue(u.Email, time.Now().UTC())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, tokenResp{Token: token})
}

// Me returns the authenticated user's profile with subscriptions.
func (h *AuthHandler) Me(c echo.Context) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id.UserID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	return h.profile(c, ctx, u)
}

// UpdateProfile applies a partial update to the authenticated user's
// email, username or password. Uniqueness of email and username is
// checked against other accounts before saving.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id.UserID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	changed := false
	if email := strings.ToLower(strings.TrimSpace(req.Email)); email != "" && email != u.Email {
		if other, err := h.Users.GetByEmail(ctx, email); err == nil && other.ID != u.ID {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already taken"})
		}
		u.Email = email
		changed = true
	}
	if username := strings.TrimSpace(req.Username); username != "" && username != u.Username {
		if other, err := h.Users.GetByUsername(ctx, username); err == nil && other.ID != u.ID {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already taken"})
		}
		u.Username = username
		changed = true
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password, h.Cfg.BcryptCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
		}
		u.PasswordHash = hash
		changed = true
	}

	if changed {
		if err := h.Users.Update(ctx, u); err != nil {
			if errors.Is(err, repository.ErrEmailExists) || errors.Is(err, repository.ErrUsernameExists) {
				return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
		u, err = h.Users.GetByID(ctx, u.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reload failed"})
		}
	}
	return h.profile(c, ctx, u)
}

func (h *AuthHandler) lookup(ctx context.Context, identifier string) (model.User, error) {
	u, err := h.Users.GetByEmail(ctx, identifier)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return model.User{}, err
	}
	return h.Users.GetByUsername(ctx, identifier)
}

func (h *AuthHandler) profile(c echo.Context, ctx context.Context, u model.User) error {
	topics, err := h.Subs.ListSubscriptions(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load subscriptions failed"})
	}
	return c.JSON(http.StatusOK, profileResp{
		ID:            u.ID,
		Email:         u.Email,
		Username:      u.Username,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
		Subscriptions: topicResponses(topics),
	})
}
