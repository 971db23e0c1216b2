package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Shxbhx/RentGhar/internal/model"
	"github.com/Shxbhx/RentGhar/pkg/cache"
	"github.com/Shxbhx/RentGhar/prometheus"
)

type gormPropertyStore struct {
	db *gorm.DB
}

// NewPropertyStore returns a gorm-backed PropertyStore. Single-record reads
// go through the redis cache when one is configured.
func NewPropertyStore(db *gorm.DB) PropertyStore {
	return &gormPropertyStore{db: db}
}

func propertyCacheKey(id string) string {
	return fmt.Sprintf("property:%s", id)
}

func (s *gormPropertyStore) Create(ctx context.Context, p *model.Property) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	return s.db.WithContext(ctx).Create(p).Error
}

func (s *gormPropertyStore) GetByID(ctx context.Context, id string) (*model.Property, error) {
	// Cache trouble is never a read failure; fall through to the database.
	if rdb := cache.Client(); rdb != nil {
		if cached, err := rdb.Get(ctx, propertyCacheKey(id)).Result(); err == nil {
			var property model.Property
			if err := json.Unmarshal([]byte(cached), &property); err == nil {
				return &property, nil
			}
		}
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var property model.Property
	err := s.db.WithContext(ctx).First(&property, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if rdb := cache.Client(); rdb != nil {
		if payload, err := json.Marshal(&property); err == nil {
			rdb.Set(ctx, propertyCacheKey(id), payload, cache.TTL())
		}
	}
	return &property, nil
}

func (s *gormPropertyStore) GetByIDs(ctx context.Context, ids []string) ([]model.Property, error) {
	if len(ids) == 0 {
		return []model.Property{}, nil
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var found []model.Property
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}

	// Preserve the callers' ordering; ids that no longer resolve are dropped.
	byID := make(map[string]model.Property, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	out := make([]model.Property, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *gormPropertyStore) List(ctx context.Context, f Filter) ([]model.Property, int, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var properties []model.Property
	query := f.apply(s.db.WithContext(ctx).Model(&model.Property{}))
	if err := query.Order("created_at DESC").Find(&properties).Error; err != nil {
		return nil, 0, err
	}
	if properties == nil {
		properties = []model.Property{}
	}
	return properties, len(properties), nil
}

func (s *gormPropertyStore) ListByOwner(ctx context.Context, ownerID string) ([]model.Property, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var properties []model.Property
	err := s.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&properties).Error
	if err != nil {
		return nil, err
	}
	if properties == nil {
		properties = []model.Property{}
	}
	return properties, nil
}

func (s *gormPropertyStore) Update(ctx context.Context, id string, upd PropertyUpdate) (*model.Property, error) {
	defer prometheus.TrackDBOperation("update")(time.Now())

	var property model.Property
	err := s.db.WithContext(ctx).First(&property, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	applyPropertyUpdate(&property, upd)

	if err := s.db.WithContext(ctx).Save(&property).Error; err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return &property, nil
}

func (s *gormPropertyStore) Delete(ctx context.Context, id string) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())

	if err := s.db.WithContext(ctx).Delete(&model.Property{}, "id = ?", id).Error; err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *gormPropertyStore) invalidate(ctx context.Context, id string) {
	if rdb := cache.Client(); rdb != nil {
		rdb.Del(ctx, propertyCacheKey(id))
	}
}

func applyPropertyUpdate(p *model.Property, upd PropertyUpdate) {
	if upd.Type != nil {
		p.Type = *upd.Type
	}
	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Price != nil {
		p.Price = *upd.Price
	}
	if upd.Location != nil {
		p.Location = *upd.Location
	}
	if upd.Category != nil {
		p.Category = *upd.Category
	}
	if upd.Bedroom != nil {
		p.Bedroom = *upd.Bedroom
	}
	if upd.Bathroom != nil {
		p.Bathroom = *upd.Bathroom
	}
	if upd.Kitchen != nil {
		p.Kitchen = *upd.Kitchen
	}
	if upd.Floor != nil {
		p.Floor = *upd.Floor
	}
	if upd.Balcony != nil {
		p.Balcony = *upd.Balcony
	}
	if upd.Sqft != nil {
		p.Sqft = *upd.Sqft
	}
	if upd.KeyFeatures != nil {
		p.KeyFeatures = *upd.KeyFeatures
	}
	if upd.Specifications != nil {
		p.Specifications = *upd.Specifications
	}
	if upd.Amenities != nil {
		p.Amenities = *upd.Amenities
	}
	if upd.Nearby != nil {
		p.Nearby = *upd.Nearby
	}
	if upd.Images != nil {
		p.Images = *upd.Images
	}
}
