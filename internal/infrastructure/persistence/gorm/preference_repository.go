package gorm

import (
	"context"
	"errors"

	"github.com/frigozen/v1/internal/ports/outbound"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PreferenceRepository implements key/value preference persistence using GORM.
type PreferenceRepository struct {
	db *gorm.DB
}

// NewPreferenceRepository creates a new preference repository
func NewPreferenceRepository(db *gorm.DB) outbound.PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// Get retrieves a preference value by key
func (r *PreferenceRepository) Get(ctx context.Context, key string) (string, error) {
	var model PreferenceModel
	err := r.db.WithContext(ctx).First(&model, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", outbound.ErrPreferenceNotFound
	}
	if err != nil {
		return "", err
	}
	return model.Value, nil
}

// Set stores a preference value, overwriting any previous one
func (r *PreferenceRepository) Set(ctx context.Context, key, value string) error {
	model := PreferenceModel{Key: key, Value: value}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&model).Error
}

// Delete removes a preference value. Deleting a missing key is not an error.
func (r *PreferenceRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Delete(&PreferenceModel{}, "key = ?", key).Error
}
