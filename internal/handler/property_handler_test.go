package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyCreate(t *testing.T) {
	e, _, properties := newTestServer()
	userID := registerUser(t, e, "owner@example.com")

	rec := doRequest(e, http.MethodPost, "/properties", propertyPayload(userID, "Sunny 2BHK", "15000", "Andheri West"), nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "Property added successfully", body["message"])
	created := body["property"].(map[string]interface{})
	assert.NotEmpty(t, created["id"])
	assert.Equal(t, userID, created["userId"])

	// The base64 payload was wrapped into a data URI.
	stored, err := properties.GetByID(context.Background(), created["id"].(string))
	require.NoError(t, err)
	require.Len(t, stored.Images, 1)
	assert.True(t, strings.HasPrefix(stored.Images[0].Path, "data:image/jpeg;base64,"))
	assert.Equal(t, "image/jpeg", stored.Images[0].ContentType)
}

func TestPropertyCreateRequiresOwner(t *testing.T) {
	e, _, _ := newTestServer()

	payload := propertyPayload("", "Sunny 2BHK", "15000", "Andheri West")
	delete(payload, "userId")
	rec := doRequest(e, http.MethodPost, "/properties", payload, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "userId is required", decodeBody(t, rec)["message"])
}

func TestPropertyCreateRejectsEmptyImages(t *testing.T) {
	e, _, _ := newTestServer()
	userID := registerUser(t, e, "owner@example.com")

	payload := propertyPayload(userID, "Sunny 2BHK", "15000", "Andheri West")
	// Entries without a payload are dropped, leaving nothing valid.
	payload["images"] = []map[string]string{{"path": "uploads/old.jpg"}}
	rec := doRequest(e, http.MethodPost, "/properties", payload, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "At least one valid image is required", decodeBody(t, rec)["message"])
}

// A body without an images array at all is the administrative path and is
// accepted as-is.
func TestPropertyCreateWithoutImagesField(t *testing.T) {
	e, _, _ := newTestServer()
	userID := registerUser(t, e, "owner@example.com")

	payload := propertyPayload(userID, "Bulk import", "15000", "Andheri West")
	delete(payload, "images")
	rec := doRequest(e, http.MethodPost, "/properties", payload, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestPropertyGet(t *testing.T) {
	e, _, _ := newTestServer()
	userID := registerUser(t, e, "owner@example.com")
	propertyID := createProperty(t, e, userID, "Sunny 2BHK", "15000", "Andheri West")

	rec := doRequest(e, http.MethodGet, "/properties/"+propertyID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Sunny 2BHK", decodeBody(t, rec)["title"])

	rec = doRequest(e, http.MethodGet, "/properties/missing-id", nil, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Property not found", decodeBody(t, rec)["message"])
}

func TestPropertyListNewestFirst(t *testing.T) {
	e, _, _ := newTestServer()
	userID := registerUser(t, e, "owner@example.com")
	createProperty(t, e, userID, "Older", "15000", "Andheri")
	createProperty(t, e, userID, "Newer", "18000", "Bandra")

	rec := doRequest(e, http.MethodGet, "/properties", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "Properties found successfully", body["message"])
	assert.Equal(t, float64(2), body["total"])

	listed := body["properties"].([]interface{})
	require.Len(t, listed, 2)
	assert.Equal(t, "Newer", listed[0].(map[string]interface{})["title"])
	assert.Equal(t, "Older", listed[1].(map[string]interface{})["title"])
}

func TestPropertyListEmptyResult(t *testing.T) {
	e, _, _ := newTestServer()

	rec := doRequest(e, http.MethodGet, "/properties?location=nowhere", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "No properties found for the given criteria", body["message"])
	assert.Equal(t, float64(0), body["total"])
	assert.Empty(t, body["properties"])
}

func TestPropertyListPriceRange(t *testing.T) {
	e, _, _ := newTestServer()
	userID := registerUser(t, e, "owner@example.com")
	createProperty(t, e, userID, "Cheap", "1000", "Andheri")
	match := createProperty(t, e, userID, "Middle", "2000", "Andheri")
	createProperty(t, e, userID, "Expensive", "3000", "Andheri")

	rec := doRequest(e, http.MethodGet, "/properties?minPrice=1500&maxPrice=2500", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["total"])
	listed := body["properties"].([]interface{})
	require.Len(t, listed, 1)
	assert.Equal(t, match, listed[0].(map[string]interface{})["id"])
}

// A listing whose stored price is not a plain integer drops out of
// price-filtered results; it must not break the search for everyone else.
func TestPropertyListPriceRangeSkipsNonNumericStoredPrice(t *testing.T) {
	e, _, _ := newTestServer()
	userID := registerUser(t, e, "owner@example.com")
	createProperty(t, e, userID, "Free text price", "15k", "Andheri")
	match := createProperty(t, e, userID, "Numeric price", "2000", "Andheri")

	rec := doRequest(e, http.MethodGet, "/properties?minPrice=1000", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["total"])
	listed := body["properties"].([]interface{})
	require.Len(t, listed, 1)
	assert.Equal(t, match, listed[0].(map[string]interface{})["id"])
}

// Location filtering is a case-insensitive substring match.
func TestPropertyListLocationSubstring(t *testing.T) {
	e, _, _ := newTestServer()
	userID := registerUser(t, e, "owner@example.com")
	match := createProperty(t, e, userID, "West flat", "15000", "Andheri West")
	createProperty(t, e, userID, "Elsewhere", "15000", "Powai")

	rec := doRequest(e, http.MethodGet, "/properties?location=andheri", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["total"])
	listed := body["properties"].([]interface{})
	require.Len(t, listed, 1)
	assert.Equal(t, match, listed[0].(map[string]interface{})["id"])
}

func TestPropertyListByOwner(t *testing.T) {
	e, _, _ := newTestServer()
	owner := registerUser(t, e, "owner@example.com")
	other := registerUser(t, e, "other@example.com")
	mine := createProperty(t, e, owner, "Mine", "15000", "Andheri")
	createProperty(t, e, other, "Theirs", "18000", "Bandra")

	rec := doRequest(e, http.MethodGet, "/properties/owner/"+owner, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	listed := decodeList(t, rec)
	require.Len(t, listed, 1)
	assert.Equal(t, mine, listed[0]["id"])
}

func TestPropertyPartialUpdate(t *testing.T) {
	e, _, properties := newTestServer()
	userID := registerUser(t, e, "owner@example.com")
	propertyID := createProperty(t, e, userID, "Sunny 2BHK", "15000", "Andheri West")

	rec := doRequest(e, http.MethodPut, "/properties/"+propertyID, map[string]interface{}{
		"price": "16500",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Property updated successfully", decodeBody(t, rec)["message"])

	updated, err := properties.GetByID(context.Background(), propertyID)
	require.NoError(t, err)
	assert.Equal(t, "16500", updated.Price)
	// Fields absent from the body are untouched.
	assert.Equal(t, "Sunny 2BHK", updated.Title)
	assert.Equal(t, "Andheri West", updated.Location)
	assert.Len(t, updated.Images, 1)
}

// An images array on update replaces the stored list wholesale: kept entries
// arrive by path, new uploads as payloads, and omitted entries are gone.
func TestPropertyUpdateReplacesImages(t *testing.T) {
	e, _, properties := newTestServer()
	userID := registerUser(t, e, "owner@example.com")
	propertyID := createProperty(t, e, userID, "Sunny 2BHK", "15000", "Andheri West")

	existing, err := properties.GetByID(context.Background(), propertyID)
	require.NoError(t, err)
	require.Len(t, existing.Images, 1)

	rec := doRequest(e, http.MethodPut, "/properties/"+propertyID, map[string]interface{}{
		"images": []map[string]string{
			{"path": existing.Images[0].Path, "contentType": existing.Images[0].ContentType},
			{"base64": "R0lGODlhAQABAAAAACw="},
		},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	updated, err := properties.GetByID(context.Background(), propertyID)
	require.NoError(t, err)
	require.Len(t, updated.Images, 2)
	assert.Equal(t, existing.Images[0].Path, updated.Images[0].Path)
	assert.True(t, strings.HasPrefix(updated.Images[1].Path, "data:image/jpeg;base64,"))
}

func TestPropertyUpdateNotFound(t *testing.T) {
	e, _, _ := newTestServer()

	rec := doRequest(e, http.MethodPut, "/properties/missing-id", map[string]interface{}{
		"price": "16500",
	}, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Property not found", decodeBody(t, rec)["message"])
}

func TestPropertyDeleteIsIdempotent(t *testing.T) {
	e, _, _ := newTestServer()
	userID := registerUser(t, e, "owner@example.com")
	propertyID := createProperty(t, e, userID, "Sunny 2BHK", "15000", "Andheri West")

	for i := 0; i < 2; i++ {
		rec := doRequest(e, http.MethodDelete, "/properties/"+propertyID, nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Property deleted successfully", decodeBody(t, rec)["message"])
	}

	rec := doRequest(e, http.MethodGet, "/properties/"+propertyID, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
