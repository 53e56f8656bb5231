package notes

import (
	"context"

	"gorm.io/gorm"

	"github.com/morelandmachine/dispatch-backend/pkg/db/models"
	"github.com/morelandmachine/dispatch-backend/pkg/pagination"
)

// Repository exposes persistence helpers for production notes.
type Repository interface {
	Create(ctx context.Context, note *models.Note) error
	ListByJob(ctx context.Context, jobNumber string) ([]models.Note, error)
	ListAll(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.Note, *pagination.Cursor, error)
	DeleteByID(ctx context.Context, id int64) (bool, error)
	CountByJob(ctx context.Context, jobNumber string) (int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a notes repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Create(ctx context.Context, note *models.Note) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *repositoryImpl) ListByJob(ctx context.Context, jobNumber string) ([]models.Note, error) {
	var notes []models.Note
	err := r.db.WithContext(ctx).
		Where("job_number = ?", jobNumber).
		Order("created_at DESC, id DESC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *repositoryImpl) ListAll(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.Note, *pagination.Cursor, error) {
	buffered := pagination.LimitWithBuffer(limit)
	normalized := pagination.NormalizeLimit(limit)

	query := r.db.WithContext(ctx).Model(&models.Note{})
	if cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var notes []models.Note
	if err := query.Order("created_at DESC").Order("id DESC").Limit(buffered).Find(&notes).Error; err != nil {
		return nil, nil, err
	}

	if len(notes) > normalized {
		notes = notes[:normalized]
		last := notes[len(notes)-1]
		return notes, &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return notes, nil, nil
}

func (r *repositoryImpl) DeleteByID(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Note{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) CountByJob(ctx context.Context, jobNumber string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Note{}).
		Where("job_number = ?", jobNumber).
		Count(&count).Error
	return count, err
}
