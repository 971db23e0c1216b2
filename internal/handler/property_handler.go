package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Shxbhx/RentGhar/internal/model"
	"github.com/Shxbhx/RentGhar/internal/store"
	"github.com/Shxbhx/RentGhar/pkg/logger"
	"github.com/Shxbhx/RentGhar/prometheus"
)

// PropertyCreateRequest is the payload for listing creation
type PropertyCreateRequest struct {
	Type           string             `json:"type"`
	Title          string             `json:"title"`
	Price          string             `json:"price"`
	Location       string             `json:"location"`
	Category       string             `json:"category"`
	Bedroom        string             `json:"bedroom"`
	Bathroom       string             `json:"bathroom"`
	Kitchen        string             `json:"kitchen"`
	Floor          string             `json:"floor"`
	Balcony        string             `json:"balcony"`
	Sqft           string             `json:"sqft"`
	KeyFeatures    []string           `json:"keyFeatures"`
	Specifications string             `json:"specifications"`
	Amenities      []string           `json:"amenities"`
	Nearby         []string           `json:"nearby"`
	UserID         string             `json:"userId"`
	Images         []model.ImageInput `json:"images"`
}

// PropertyUpdateRequest is the payload for a partial listing update. Only
// fields present in the body are applied.
type PropertyUpdateRequest struct {
	Type           *string             `json:"type"`
	Title          *string             `json:"title"`
	Price          *string             `json:"price"`
	Location       *string             `json:"location"`
	Category       *string             `json:"category"`
	Bedroom        *string             `json:"bedroom"`
	Bathroom       *string             `json:"bathroom"`
	Kitchen        *string             `json:"kitchen"`
	Floor          *string             `json:"floor"`
	Balcony        *string             `json:"balcony"`
	Sqft           *string             `json:"sqft"`
	KeyFeatures    *[]string           `json:"keyFeatures"`
	Specifications *string             `json:"specifications"`
	Amenities      *[]string           `json:"amenities"`
	Nearby         *[]string           `json:"nearby"`
	Images         *[]model.ImageInput `json:"images"`
}

// PropertyHandler serves the listing CRUD and search endpoints
type PropertyHandler struct {
	properties store.PropertyStore
}

// NewPropertyHandler creates a new instance of PropertyHandler
func NewPropertyHandler(properties store.PropertyStore) *PropertyHandler {
	return &PropertyHandler{properties: properties}
}

// List handles GET /properties with optional filtering
func (h *PropertyHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordPropertyOperation("list")

	filter := store.Filter{
		Type:     c.QueryParam("type"),
		Category: c.QueryParam("category"),
		Location: c.QueryParam("location"),
		MinPrice: c.QueryParam("minPrice"),
		MaxPrice: c.QueryParam("maxPrice"),
	}

	properties, total, err := h.properties.List(c.Request().Context(), filter)
	if err != nil {
		log.Error("Failed to list properties", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to fetch properties"})
	}

	if total == 0 {
		return c.JSON(http.StatusOK, echo.Map{
			"message":    "No properties found for the given criteria",
			"properties": properties,
			"total":      0,
		})
	}

	log.Info("Properties retrieved", zap.Int("count", total))
	return c.JSON(http.StatusOK, echo.Map{
		"message":    "Properties found successfully",
		"properties": properties,
		"total":      total,
	})
}

// Get handles GET /properties/:id
func (h *PropertyHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordPropertyOperation("get")
	id := c.Param("id")

	property, err := h.properties.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Property not found"})
		}
		log.Error("Failed to fetch property", zap.String("property_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to fetch property"})
	}

	return c.JSON(http.StatusOK, property)
}

// ListByOwner handles GET /properties/owner/:id
func (h *PropertyHandler) ListByOwner(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordPropertyOperation("list_by_owner")

	ownerID := c.Param("id")
	if ownerID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "User ID is required"})
	}

	properties, err := h.properties.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		log.Error("Failed to fetch user properties", zap.String("owner_id", ownerID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to fetch properties"})
	}

	return c.JSON(http.StatusOK, properties)
}

// Create handles POST /properties. The owner id must be present but is not
// dereferenced against the users collection, matching the upstream contract.
func (h *PropertyHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordPropertyOperation("create")

	var req PropertyCreateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request data"})
	}

	if req.UserID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "userId is required"})
	}

	// The user-facing path always submits images; entries without a payload
	// are dropped, and an all-invalid list is rejected. A request with no
	// images array at all is the administrative path and passes through.
	var images []model.PropertyImage
	if req.Images != nil {
		images = model.NormalizeNewImages(req.Images)
		if len(images) == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "At least one valid image is required"})
		}
	}

	property := model.Property{
		Type:           req.Type,
		Title:          req.Title,
		Price:          req.Price,
		Location:       req.Location,
		Category:       req.Category,
		Bedroom:        req.Bedroom,
		Bathroom:       req.Bathroom,
		Kitchen:        req.Kitchen,
		Floor:          req.Floor,
		Balcony:        req.Balcony,
		Sqft:           req.Sqft,
		KeyFeatures:    req.KeyFeatures,
		Specifications: req.Specifications,
		Amenities:      req.Amenities,
		Nearby:         req.Nearby,
		Images:         images,
		UserID:         req.UserID,
	}

	if err := h.properties.Create(c.Request().Context(), &property); err != nil {
		log.Error("Failed to create property", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error adding property"})
	}

	log.Info("Property created",
		zap.String("property_id", property.ID),
		zap.Int("image_count", len(property.Images)))
	return c.JSON(http.StatusCreated, echo.Map{
		"message":  "Property added successfully",
		"property": property,
	})
}

// Update handles PUT /properties/:id
func (h *PropertyHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordPropertyOperation("update")
	id := c.Param("id")

	var req PropertyUpdateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.String("property_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request data"})
	}

	upd := store.PropertyUpdate{
		Type:           req.Type,
		Title:          req.Title,
		Price:          req.Price,
		Location:       req.Location,
		Category:       req.Category,
		Bedroom:        req.Bedroom,
		Bathroom:       req.Bathroom,
		Kitchen:        req.Kitchen,
		Floor:          req.Floor,
		Balcony:        req.Balcony,
		Sqft:           req.Sqft,
		KeyFeatures:    req.KeyFeatures,
		Specifications: req.Specifications,
		Amenities:      req.Amenities,
		Nearby:         req.Nearby,
	}

	// The caller sends the reconciled list: kept images by path, new ones as
	// payloads. The stored list is replaced wholesale, never merged.
	if req.Images != nil {
		reconciled := model.ReconcileImages(*req.Images)
		upd.Images = &reconciled
	}

	property, err := h.properties.Update(c.Request().Context(), id, upd)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Property not found"})
		}
		log.Error("Failed to update property", zap.String("property_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to update property"})
	}

	log.Info("Property updated",
		zap.String("property_id", id),
		zap.Int("image_count", len(property.Images)))
	return c.JSON(http.StatusOK, echo.Map{
		"message":  "Property updated successfully",
		"property": property,
	})
}

// Delete handles DELETE /properties/:id. Deletion is idempotent: removing an
// unknown id reports success.
func (h *PropertyHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordPropertyOperation("delete")
	id := c.Param("id")

	if err := h.properties.Delete(c.Request().Context(), id); err != nil {
		log.Error("Failed to delete property", zap.String("property_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to delete property"})
	}

	log.Info("Property deleted", zap.String("property_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Property deleted successfully"})
}
