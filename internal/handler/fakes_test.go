package handler

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Shxbhx/RentGhar/internal/model"
	"github.com/Shxbhx/RentGhar/internal/store"
)

// In-memory store fakes implementing the store interfaces, so handler tests
// run without a database while keeping the documented store semantics.

type fakeUserStore struct {
	users map[string]*model.User
	clock *fakeClock
}

type fakePropertyStore struct {
	properties map[string]*model.Property
	clock      *fakeClock
}

// fakeClock hands out strictly increasing timestamps so ordering by
// creation time is deterministic.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) tick() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

func newFakes() (*fakeUserStore, *fakePropertyStore) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	return &fakeUserStore{users: map[string]*model.User{}, clock: clock},
		&fakePropertyStore{properties: map[string]*model.Property{}, clock: clock}
}

func cloneUser(u *model.User) *model.User {
	cp := *u
	cp.SavedProperties = append([]string(nil), u.SavedProperties...)
	return &cp
}

func cloneProperty(p *model.Property) *model.Property {
	cp := *p
	cp.KeyFeatures = append([]string(nil), p.KeyFeatures...)
	cp.Amenities = append([]string(nil), p.Amenities...)
	cp.Nearby = append([]string(nil), p.Nearby...)
	cp.Images = append([]model.PropertyImage(nil), p.Images...)
	return &cp
}

func (s *fakeUserStore) Create(ctx context.Context, u *model.User) error {
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return store.ErrEmailTaken
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = s.clock.tick()
	u.UpdatedAt = u.CreatedAt
	s.users[u.ID] = cloneUser(u)
	return nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeUserStore) List(ctx context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *cloneUser(u))
	}
	return out, nil
}

func (s *fakeUserStore) Update(ctx context.Context, id string, upd store.UserUpdate) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if upd.Email != nil && *upd.Email != u.Email {
		for otherID, other := range s.users {
			if otherID != id && other.Email == *upd.Email {
				return nil, store.ErrEmailTaken
			}
		}
		u.Email = *upd.Email
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Password != nil {
		u.Password = *upd.Password
	}
	if upd.Number != nil {
		u.Number = *upd.Number
	}
	if upd.Address != nil {
		u.Address = *upd.Address
	}
	u.UpdatedAt = s.clock.tick()
	return cloneUser(u), nil
}

func (s *fakeUserStore) Delete(ctx context.Context, id string) error {
	delete(s.users, id)
	return nil
}

func (s *fakeUserStore) AddSaved(ctx context.Context, userID, propertyID string) error {
	u, ok := s.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	if u.HasSaved(propertyID) {
		return store.ErrAlreadySaved
	}
	u.SavedProperties = append(u.SavedProperties, propertyID)
	return nil
}

func (s *fakeUserStore) RemoveSaved(ctx context.Context, userID, propertyID string) error {
	u, ok := s.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	kept := u.SavedProperties[:0]
	for _, id := range u.SavedProperties {
		if id != propertyID {
			kept = append(kept, id)
		}
	}
	u.SavedProperties = kept
	return nil
}

// savedList exposes the raw stored reference list for invariant checks.
func (s *fakeUserStore) savedList(userID string) []string {
	return append([]string(nil), s.users[userID].SavedProperties...)
}

func (s *fakePropertyStore) Create(ctx context.Context, p *model.Property) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = s.clock.tick()
	p.UpdatedAt = p.CreatedAt
	s.properties[p.ID] = cloneProperty(p)
	return nil
}

func (s *fakePropertyStore) GetByID(ctx context.Context, id string) (*model.Property, error) {
	p, ok := s.properties[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return cloneProperty(p), nil
}

func (s *fakePropertyStore) GetByIDs(ctx context.Context, ids []string) ([]model.Property, error) {
	out := make([]model.Property, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.properties[id]; ok {
			out = append(out, *cloneProperty(p))
		}
	}
	return out, nil
}

func matchesFilter(p *model.Property, f store.Filter) bool {
	if f.Type != "" && p.Type != f.Type {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if location := strings.TrimSpace(f.Location); location != "" {
		if !strings.Contains(strings.ToLower(p.Location), strings.ToLower(location)) {
			return false
		}
	}
	if f.MinPrice != "" {
		if min, err := strconv.Atoi(f.MinPrice); err == nil {
			price, err := strconv.Atoi(p.Price)
			if err != nil || price < min {
				return false
			}
		}
	}
	if f.MaxPrice != "" {
		if max, err := strconv.Atoi(f.MaxPrice); err == nil {
			price, err := strconv.Atoi(p.Price)
			if err != nil || price > max {
				return false
			}
		}
	}
	return true
}

func (s *fakePropertyStore) List(ctx context.Context, f store.Filter) ([]model.Property, int, error) {
	out := []model.Property{}
	for _, p := range s.properties {
		if matchesFilter(p, f) {
			out = append(out, *cloneProperty(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, len(out), nil
}

func (s *fakePropertyStore) ListByOwner(ctx context.Context, ownerID string) ([]model.Property, error) {
	out := []model.Property{}
	for _, p := range s.properties {
		if p.UserID == ownerID {
			out = append(out, *cloneProperty(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *fakePropertyStore) Update(ctx context.Context, id string, upd store.PropertyUpdate) (*model.Property, error) {
	p, ok := s.properties[id]
	if !ok {
		return nil, store.ErrNotFound
	}
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
	p.UpdatedAt = s.clock.tick()
	return cloneProperty(p), nil
}

func (s *fakePropertyStore) Delete(ctx context.Context, id string) error {
	delete(s.properties, id)
	return nil
}
