package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PropertyImage is the canonical stored form of a listing image: a path is
// either an upload location or a data URI with the payload inlined.
type PropertyImage struct {
	Path        string `json:"path"`
	ContentType string `json:"contentType"`
}

// Property represents a listing. Counts and the price are kept as strings
// the way clients submit them; the price is cast to a number for range
// filtering on the query side.
type Property struct {
	ID             string          `json:"id" gorm:"type:uuid;primaryKey"`
	Type           string          `json:"type" gorm:"type:varchar(50);index"`
	Title          string          `json:"title"`
	Price          string          `json:"price" gorm:"type:varchar(20)"`
	Location       string          `json:"location"`
	Category       string          `json:"category" gorm:"type:varchar(50);index"`
	Bedroom        string          `json:"bedroom"`
	Bathroom       string          `json:"bathroom"`
	Kitchen        string          `json:"kitchen"`
	Floor          string          `json:"floor"`
	Balcony        string          `json:"balcony"`
	Sqft           string          `json:"sqft"`
	KeyFeatures    []string        `json:"keyFeatures" gorm:"serializer:json;type:jsonb"`
	Specifications string          `json:"specifications"`
	Amenities      []string        `json:"amenities" gorm:"serializer:json;type:jsonb"`
	Nearby         []string        `json:"nearby" gorm:"serializer:json;type:jsonb"`
	Images         []PropertyImage `json:"images" gorm:"serializer:json;type:jsonb"`
	UserID         string          `json:"userId" gorm:"type:uuid;not null;index"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (Property) TableName() string {
	return "properties"
}

// BeforeCreate assigns an id when none was provided
func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// ImageInput is one entry of the images array on create and update requests.
// New uploads carry Base64; images already stored carry Path.
type ImageInput struct {
	Path        string `json:"path,omitempty"`
	Base64      string `json:"base64,omitempty"`
	ContentType string `json:"contentType,omitempty"`
}

const defaultImageContentType = "image/jpeg"

func wrapBase64(payload string) string {
	if strings.HasPrefix(payload, "data:image") {
		return payload
	}
	return "data:image/jpeg;base64," + payload
}

// NormalizeNewImages converts freshly uploaded images to canonical form.
// Entries without a payload are dropped.
func NormalizeNewImages(in []ImageInput) []PropertyImage {
	out := make([]PropertyImage, 0, len(in))
	for _, img := range in {
		if img.Base64 == "" {
			continue
		}
		out = append(out, PropertyImage{
			Path:        wrapBase64(img.Base64),
			ContentType: defaultImageContentType,
		})
	}
	return out
}

// ReconcileImages builds the replacement image list for an update. Entries
// already in canonical form pass through unchanged; new payloads are
// normalized; entries with neither a path nor a payload are dropped.
func ReconcileImages(in []ImageInput) []PropertyImage {
	out := make([]PropertyImage, 0, len(in))
	for _, img := range in {
		switch {
		case img.Path != "" && img.Base64 == "":
			contentType := img.ContentType
			if contentType == "" {
				contentType = defaultImageContentType
			}
			out = append(out, PropertyImage{Path: img.Path, ContentType: contentType})
		case img.Base64 != "":
			out = append(out, PropertyImage{
				Path:        wrapBase64(img.Base64),
				ContentType: defaultImageContentType,
			})
		}
	}
	return out
}
