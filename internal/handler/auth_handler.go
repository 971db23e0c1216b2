package handler

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Shxbhx/RentGhar/internal/middleware"
	"github.com/Shxbhx/RentGhar/internal/model"
	"github.com/Shxbhx/RentGhar/internal/store"
	"github.com/Shxbhx/RentGhar/pkg/jwtutil"
	"github.com/Shxbhx/RentGhar/pkg/logger"
	"github.com/Shxbhx/RentGhar/pkg/password"
	"github.com/Shxbhx/RentGhar/prometheus"
)

// phoneRegex matches exactly ten ASCII digits, as submitted by the mobile client.
var phoneRegex = regexp.MustCompile(`^[0-9]{10}$`)

// RegisterRequest is the payload for account creation
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Number   string `json:"number" validate:"required"`
	Address  string `json:"address" validate:"required"`
}

// AuthHandler serves registration, login and token verification
type AuthHandler struct {
	users store.UserStore
}

// NewAuthHandler creates a new instance of AuthHandler
func NewAuthHandler(users store.UserStore) *AuthHandler {
	return &AuthHandler{users: users}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RegisterCounter.Inc()

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		log.Error("Incomplete registration data", zap.Error(err))
		prometheus.RecordAuthError("incomplete_registration")
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "All fields are required"})
	}
	if !phoneRegex.MatchString(req.Number) {
		log.Warn("Invalid phone number on registration")
		prometheus.RecordAuthError("invalid_phone")
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Please enter valid 10 digit number"})
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		prometheus.RecordAuthError("password_hash_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Registration failed"})
	}

	user := model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hashed,
		Number:   req.Number,
		Address:  req.Address,
	}

	if err := h.users.Create(c.Request().Context(), &user); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			log.Warn("Email already registered", zap.String("email", req.Email))
			prometheus.RecordAuthError("email_already_exists")
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email already registered"})
		}
		log.Error("Failed to create user", zap.Error(err))
		prometheus.RecordAuthError("user_creation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Registration failed"})
	}

	token, err := jwtutil.GenerateToken(user.ID, user.Email)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Registration failed"})
	}

	log.Info("User registered", zap.String("user_id", user.ID), zap.String("email", user.Email))
	return c.JSON(http.StatusCreated, echo.Map{
		"token": token,
		"user": echo.Map{
			"id":      user.ID,
			"name":    user.Name,
			"email":   user.Email,
			"number":  user.Number,
			"address": user.Address,
		},
	})
}

// Login handles POST /auth/login. Unknown email and wrong password produce
// the same response so the two cases are indistinguishable.
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request data"})
	}

	user, err := h.users.GetByEmail(c.Request().Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("Login with unknown email")
			prometheus.RecordAuthError("user_not_found")
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid email or password"})
		}
		log.Error("Failed to look up user", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Login failed"})
	}

	if !password.Check(req.Password, user.Password) {
		log.Warn("Invalid password", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid email or password"})
	}

	token, err := jwtutil.GenerateToken(user.ID, user.Email)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Login failed"})
	}

	log.Info("User logged in", zap.String("user_id", user.ID))
	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user": echo.Map{
			"id":      user.ID,
			"name":    user.Name,
			"email":   user.Email,
			"address": user.Address,
		},
	})
}

// Logout handles POST /auth/logout. The bearer token is stateless, so there
// is nothing to revoke server-side.
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out successfully"})
}

// Verify handles GET /auth/verify. AuthMiddleware has already validated the
// token and put the user id into the context.
func (h *AuthHandler) Verify(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.TokenVerifyCounter.Inc()

	userID, ok := middleware.UserIDFromContext(c)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid token"})
	}

	user, err := h.users.GetByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("Token resolves to a deleted user", zap.String("user_id", userID))
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
		}
		log.Error("Failed to look up user", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Verification failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"user": user})
}
