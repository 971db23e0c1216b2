package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Shxbhx/RentGhar/internal/model"
	"github.com/Shxbhx/RentGhar/prometheus"
)

type gormUserStore struct {
	db *gorm.DB
}

// NewUserStore returns a gorm-backed UserStore.
func NewUserStore(db *gorm.DB) UserStore {
	return &gormUserStore{db: db}
}

func (s *gormUserStore) Create(ctx context.Context, u *model.User) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ?", u.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailTaken
	}
	return s.db.WithContext(ctx).Create(u).Error
}

func (s *gormUserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var user model.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *gormUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *gormUserStore) List(ctx context.Context) ([]model.User, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var users []model.User
	if err := s.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *gormUserStore) Update(ctx context.Context, id string, upd UserUpdate) (*model.User, error) {
	defer prometheus.TrackDBOperation("update")(time.Now())

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Email != nil && *upd.Email != user.Email {
		var count int64
		if err := s.db.WithContext(ctx).Model(&model.User{}).
			Where("email = ? AND id <> ?", *upd.Email, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrEmailTaken
		}
		user.Email = *upd.Email
	}
	if upd.Name != nil {
		user.Name = *upd.Name
	}
	if upd.Password != nil {
		user.Password = *upd.Password
	}
	if upd.Number != nil {
		user.Number = *upd.Number
	}
	if upd.Address != nil {
		user.Address = *upd.Address
	}

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *gormUserStore) Delete(ctx context.Context, id string) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())

	return s.db.WithContext(ctx).Delete(&model.User{}, "id = ?", id).Error
}

func (s *gormUserStore) AddSaved(ctx context.Context, userID, propertyID string) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.HasSaved(propertyID) {
		return ErrAlreadySaved
	}

	user.SavedProperties = append(user.SavedProperties, propertyID)
	return s.db.WithContext(ctx).Save(user).Error
}

func (s *gormUserStore) RemoveSaved(ctx context.Context, userID, propertyID string) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	kept := user.SavedProperties[:0]
	for _, id := range user.SavedProperties {
		if id != propertyID {
			kept = append(kept, id)
		}
	}
	user.SavedProperties = kept
	return s.db.WithContext(ctx).Save(user).Error
}
