package persistence

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/notification"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

const (
	defaultNotificationLimit = 50
	maxNotificationLimit     = 200
)

// GormNotificationRepository implements notification.Repository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Create inserts a notification
func (r *GormNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Create(models.NotificationModelFromDomain(n)).Error
}

// FindByID finds a notification by ID
func (r *GormNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	var model models.NotificationModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List returns notifications newest first
func (r *GormNotificationRepository) List(ctx context.Context, filter notification.ListFilter) ([]notification.Notification, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	if limit > maxNotificationLimit {
		limit = maxNotificationLimit
	}

	q := r.db.WithContext(ctx).Model(&models.NotificationModel{})
	if filter.UnacknowledgedBy != nil {
		// acknowledged_by is a JSON array of quoted ids in both dialects
		q = q.Where("CAST(acknowledged_by AS TEXT) NOT LIKE ?", `%"`+filter.UnacknowledgedBy.String()+`"%`)
	}
	if len(filter.Types) > 0 {
		q = q.Where("type IN ?", filter.Types)
	}

	var rows []models.NotificationModel
	if err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]notification.Notification, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, nil
}

// SaveAcknowledgements overwrites the stored acknowledgement set
func (r *GormNotificationRepository) SaveAcknowledgements(ctx context.Context, n *notification.Notification) error {
	acked := n.AcknowledgedBy
	if acked == nil {
		acked = []uuid.UUID{}
	}
	encoded, err := json.Marshal(acked)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&models.NotificationModel{}).
		Where("id = ?", n.ID).
		Update("acknowledged_by", string(encoded))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// LatestOfType returns the newest notification of the given type
func (r *GormNotificationRepository) LatestOfType(ctx context.Context, typ string) (*notification.Notification, error) {
	var model models.NotificationModel
	err := r.db.WithContext(ctx).
		Where("type = ?", typ).
		Order("created_at DESC").
		Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

var _ notification.Repository = (*GormNotificationRepository)(nil)
