package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/arima15/Employee-management/internal/apperror"
)

// GormStore presents the Repository contract over a relational database. It
// is interchangeable with FileStore; entity services never see which one they
// were handed.
type GormStore[T any, PT Pointer[T]] struct {
	db *gorm.DB
}

func NewGormStore[T any, PT Pointer[T]](db *gorm.DB) *GormStore[T, PT] {
	return &GormStore[T, PT]{db: db}
}

func (s *GormStore[T, PT]) FindAll(ctx context.Context) ([]PT, error) {
	var records []PT
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	return records, nil
}

func (s *GormStore[T, PT]) FindByID(ctx context.Context, id uint) (PT, error) {
	record := PT(new(T))
	if err := s.db.WithContext(ctx).First(record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load record: %w", err)
	}
	return record, nil
}

func (s *GormStore[T, PT]) FindBy(ctx context.Context, criteria map[string]any) ([]PT, error) {
	var records []PT
	if err := s.db.WithContext(ctx).Where(criteria).Order("id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("load records by criteria: %w", err)
	}
	return records, nil
}

func (s *GormStore[T, PT]) Create(ctx context.Context, record PT) (PT, error) {
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, mapDatabaseError(err)
	}
	return record, nil
}

// Update merges the patch through the record's JSON form, exactly as the file
// store does, then writes the full row back.
func (s *GormStore[T, PT]) Update(ctx context.Context, id uint, patch map[string]any) (PT, error) {
	record := PT(new(T))
	if err := s.db.WithContext(ctx).First(record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load record: %w", err)
	}

	merged, err := mergePatch[T, PT](record, patch)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(merged).Error; err != nil {
		return nil, mapDatabaseError(err)
	}
	return merged, nil
}

func (s *GormStore[T, PT]) Delete(ctx context.Context, id uint) (bool, error) {
	result := s.db.WithContext(ctx).Delete(PT(new(T)), id)
	if result.Error != nil {
		return false, mapDatabaseError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func mapDatabaseError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return apperror.Conflict("resource with the same unique attributes already exists")
		}
		if pgErr.Code == "23503" {
			return apperror.Validation("invalid foreign key reference")
		}
	}
	return err
}
