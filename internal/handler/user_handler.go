package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Shxbhx/RentGhar/internal/model"
	"github.com/Shxbhx/RentGhar/internal/store"
	"github.com/Shxbhx/RentGhar/pkg/logger"
	"github.com/Shxbhx/RentGhar/pkg/password"
	"github.com/Shxbhx/RentGhar/prometheus"
)

// UserUpdateRequest is the payload for a partial profile update. Only fields
// present in the body are applied.
type UserUpdateRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Number   *string `json:"number"`
	Address  *string `json:"address"`
}

func newUserFromRegister(req RegisterRequest, hashedPassword string) model.User {
	return model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hashedPassword,
		Number:   req.Number,
		Address:  req.Address,
	}
}

// UserHandler serves user CRUD and the saved-property relationship
type UserHandler struct {
	users      store.UserStore
	properties store.PropertyStore
}

// NewUserHandler creates a new instance of UserHandler
func NewUserHandler(users store.UserStore, properties store.PropertyStore) *UserHandler {
	return &UserHandler{users: users, properties: properties}
}

// List handles GET /users
func (h *UserHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordUserOperation("list")

	users, err := h.users.List(c.Request().Context())
	if err != nil {
		log.Error("Failed to list users", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to fetch users"})
	}

	return c.JSON(http.StatusOK, users)
}

// Get handles GET /users/:id. The saved-property references are resolved to
// their current records; ids whose property has been deleted are omitted
// from the response while the stored list stays untouched.
func (h *UserHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordUserOperation("get")
	id := c.Param("id")

	user, err := h.users.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
		}
		log.Error("Failed to fetch user", zap.String("user_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to fetch user"})
	}

	saved, err := h.properties.GetByIDs(c.Request().Context(), user.SavedProperties)
	if err != nil {
		log.Error("Failed to resolve saved properties", zap.String("user_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to fetch user"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"id":              user.ID,
		"name":            user.Name,
		"email":           user.Email,
		"number":          user.Number,
		"address":         user.Address,
		"savedProperties": saved,
		"created_at":      user.CreatedAt,
		"updated_at":      user.UpdatedAt,
	})
}

// Create handles POST /users. Same validation as registration, without
// issuing a token.
func (h *UserHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordUserOperation("create")

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "All fields are required"})
	}
	if !phoneRegex.MatchString(req.Number) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Please enter valid 10 digit number"})
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Registration Failed"})
	}

	user := newUserFromRegister(req, hashed)
	if err := h.users.Create(c.Request().Context(), &user); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email already registered"})
		}
		log.Error("Failed to create user", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Registration Failed"})
	}

	log.Info("User created", zap.String("user_id", user.ID))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully",
		"user": echo.Map{
			"id":      user.ID,
			"name":    user.Name,
			"email":   user.Email,
			"number":  user.Number,
			"address": user.Address,
		},
	})
}

// Update handles PUT /users/:id. A plaintext password in the payload is
// rehashed before storage.
func (h *UserHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordUserOperation("update")
	id := c.Param("id")

	var req UserUpdateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.String("user_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request data"})
	}

	if req.Number != nil && !phoneRegex.MatchString(*req.Number) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Please enter valid 10 digit number"})
	}

	upd := store.UserUpdate{
		Name:    req.Name,
		Email:   req.Email,
		Number:  req.Number,
		Address: req.Address,
	}
	if req.Password != nil {
		hashed, err := password.Hash(*req.Password)
		if err != nil {
			log.Error("Failed to hash password", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to update user"})
		}
		upd.Password = &hashed
	}

	user, err := h.users.Update(c.Request().Context(), id, upd)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
		case errors.Is(err, store.ErrEmailTaken):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email already registered"})
		}
		log.Error("Failed to update user", zap.String("user_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to update user"})
	}

	log.Info("User updated", zap.String("user_id", id))
	return c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /users/:id. Properties owned by the user are left in
// place; removal does not cascade.
func (h *UserHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordUserOperation("delete")
	id := c.Param("id")

	if err := h.users.Delete(c.Request().Context(), id); err != nil {
		log.Error("Failed to delete user", zap.String("user_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to delete user"})
	}

	log.Info("User deleted", zap.String("user_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "User deleted successfully"})
}

// AddSaved handles POST /users/:id/saved/:propertyId
func (h *UserHandler) AddSaved(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordSavedOperation("add")
	userID := c.Param("id")
	propertyID := c.Param("propertyId")

	err := h.users.AddSaved(c.Request().Context(), userID, propertyID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
		case errors.Is(err, store.ErrAlreadySaved):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Property already saved"})
		}
		log.Error("Failed to save property",
			zap.String("user_id", userID),
			zap.String("property_id", propertyID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to save property"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Property saved successfully"})
}

// RemoveSaved handles DELETE /users/:id/saved/:propertyId. Removing an id
// that is not in the list is a success.
func (h *UserHandler) RemoveSaved(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordSavedOperation("remove")
	userID := c.Param("id")
	propertyID := c.Param("propertyId")

	err := h.users.RemoveSaved(c.Request().Context(), userID, propertyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
		}
		log.Error("Failed to remove saved property",
			zap.String("user_id", userID),
			zap.String("property_id", propertyID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to remove property"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Property removed successfully"})
}

// ListSaved handles GET /users/:id/saved. Dangling references are dropped
// from the response; the stored list is not cleaned up by the read.
func (h *UserHandler) ListSaved(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordSavedOperation("list")
	userID := c.Param("id")

	user, err := h.users.GetByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
		}
		log.Error("Failed to fetch user", zap.String("user_id", userID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to get saved properties"})
	}

	saved, err := h.properties.GetByIDs(c.Request().Context(), user.SavedProperties)
	if err != nil {
		log.Error("Failed to resolve saved properties", zap.String("user_id", userID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to get saved properties"})
	}

	return c.JSON(http.StatusOK, saved)
}
