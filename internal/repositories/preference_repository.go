package repositories

import (
	"errors"

	"github.com/mhasan512/openwave/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PreferenceRepository defines the interface for notification preference operations
type PreferenceRepository interface {
	// GetPreferences returns (nil, nil) when the user has no row. Absence is
	// a valid state meaning "all families enabled"; the caller decides.
	GetPreferences(userID uint) (*models.NotificationPreference, error)
	UpsertPreferences(pref *models.NotificationPreference) error
}

type postgresPreferenceRepository struct {
	db *gorm.DB
}

func NewPostgresPreferenceRepository(db *gorm.DB) PreferenceRepository {
	return &postgresPreferenceRepository{db: db}
}

func (r *postgresPreferenceRepository) GetPreferences(userID uint) (*models.NotificationPreference, error) {
	var pref models.NotificationPreference
	if err := r.db.Where("user_id = ?", userID).First(&pref).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pref, nil
}

func (r *postgresPreferenceRepository) UpsertPreferences(pref *models.NotificationPreference) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"reactions", "comments", "mentions", "follows", "direct_messages", "updated_at",
		}),
	}).Create(pref).Error
}
