package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pestops/backend/internal/domain/fieldops"
	"github.com/pestops/backend/internal/domain/shared"
)

// GormVisitRepository implements VisitRepository using GORM
type GormVisitRepository struct {
	db *gorm.DB
}

// NewGormVisitRepository creates a new GormVisitRepository
func NewGormVisitRepository(db *gorm.DB) *GormVisitRepository {
	return &GormVisitRepository{db: db}
}

// Save creates or updates a visit
func (r *GormVisitRepository) Save(ctx context.Context, visit *fieldops.Visit) error {
	return r.db.WithContext(ctx).Save(visit).Error
}

// FindByID finds a visit by its ID
func (r *GormVisitRepository) FindByID(ctx context.Context, id uuid.UUID) (*fieldops.Visit, error) {
	var visit fieldops.Visit
	if err := r.db.WithContext(ctx).First(&visit, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &visit, nil
}

// FindCompletedInPeriod finds completed visits whose occurrence date falls
// within [from, to).
func (r *GormVisitRepository) FindCompletedInPeriod(ctx context.Context, from, to time.Time) ([]fieldops.Visit, error) {
	var visits []fieldops.Visit
	if err := r.db.WithContext(ctx).
		Where("status = ? AND occurred_at >= ? AND occurred_at < ?", fieldops.VisitStatusCompleted, from, to).
		Order("occurred_at ASC").
		Find(&visits).Error; err != nil {
		return nil, err
	}
	return visits, nil
}

// Ensure GormVisitRepository implements VisitRepository
var _ fieldops.VisitRepository = (*GormVisitRepository)(nil)
