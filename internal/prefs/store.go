package prefs

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the persistence port for console-local preference state: the
// single role-request slot per user and the image override map. Injected
// so tests can swap the gorm implementation for the in-memory fake.
type Store interface {
	GetSolicitation(ctx context.Context, userID uint) (*AdminSolicitation, error)
	SaveSolicitation(ctx context.Context, s *AdminSolicitation) error
	UpdateSolicitationStatus(ctx context.Context, userID uint, status string) error
	MarkNotified(ctx context.Context, userID uint) error
	ClearSolicitation(ctx context.Context, userID uint) error
	HasPendingSolicitation(ctx context.Context, userID uint) (bool, error)

	GetCustomImage(ctx context.Context, eventID uint) (string, error)
	SaveCustomImage(ctx context.Context, eventID uint, url string) error
	RemoveCustomImage(ctx context.Context, eventID uint) error
	AllCustomImages(ctx context.Context) (map[uint]string, error)
	ClearCustomImages(ctx context.Context) error
}

type gormStore struct {
	db *gorm.DB
}

// NewStore builds the gorm-backed preference store
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// GetSolicitation returns the user's slot, nil when empty
func (g *gormStore) GetSolicitation(ctx context.Context, userID uint) (*AdminSolicitation, error) {
	var s AdminSolicitation
	err := g.db.WithContext(ctx).First(&s, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SaveSolicitation fills (or supersedes) the user's single slot
func (g *gormStore) SaveSolicitation(ctx context.Context, s *AdminSolicitation) error {
	if s.RequestedAt.IsZero() {
		s.RequestedAt = time.Now()
	}
	return g.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(s).Error
}

// UpdateSolicitationStatus writes the new status and stamps last_checked
func (g *gormStore) UpdateSolicitationStatus(ctx context.Context, userID uint, status string) error {
	now := time.Now()
	return g.db.WithContext(ctx).
		Model(&AdminSolicitation{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"status":       status,
			"last_checked": &now,
		}).Error
}

func (g *gormStore) MarkNotified(ctx context.Context, userID uint) error {
	return g.db.WithContext(ctx).
		Model(&AdminSolicitation{}).
		Where("user_id = ?", userID).
		Update("notified", true).Error
}

func (g *gormStore) ClearSolicitation(ctx context.Context, userID uint) error {
	return g.db.WithContext(ctx).Delete(&AdminSolicitation{}, "user_id = ?", userID).Error
}

func (g *gormStore) HasPendingSolicitation(ctx context.Context, userID uint) (bool, error) {
	s, err := g.GetSolicitation(ctx, userID)
	if err != nil {
		return false, err
	}
	return s != nil && s.Status == StatusPendente, nil
}

func (g *gormStore) GetCustomImage(ctx context.Context, eventID uint) (string, error) {
	var o ImageOverride
	err := g.db.WithContext(ctx).First(&o, "event_id = ?", eventID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return o.URL, nil
}

func (g *gormStore) SaveCustomImage(ctx context.Context, eventID uint, url string) error {
	return g.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			UpdateAll: true,
		}).
		Create(&ImageOverride{EventID: eventID, URL: url, UpdatedAt: time.Now()}).Error
}

func (g *gormStore) RemoveCustomImage(ctx context.Context, eventID uint) error {
	return g.db.WithContext(ctx).Delete(&ImageOverride{}, "event_id = ?", eventID).Error
}

func (g *gormStore) AllCustomImages(ctx context.Context) (map[uint]string, error) {
	var overrides []ImageOverride
	if err := g.db.WithContext(ctx).Find(&overrides).Error; err != nil {
		return nil, err
	}
	images := make(map[uint]string, len(overrides))
	for _, o := range overrides {
		images[o.EventID] = o.URL
	}
	return images, nil
}

func (g *gormStore) ClearCustomImages(ctx context.Context) error {
	return g.db.WithContext(ctx).Where("1 = 1").Delete(&ImageOverride{}).Error
}
