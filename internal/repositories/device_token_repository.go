package repositories

import (
	"github.com/mhasan512/openwave/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeviceTokenRepository defines the interface for FCM device token operations
type DeviceTokenRepository interface {
	SaveToken(token *models.DeviceToken) error
	DeleteToken(userID uint, token string) error
	ListTokensByUser(userID uint) ([]string, error)
}

type postgresDeviceTokenRepository struct {
	db *gorm.DB
}

func NewPostgresDeviceTokenRepository(db *gorm.DB) DeviceTokenRepository {
	return &postgresDeviceTokenRepository{db: db}
}

// SaveToken upserts on the token value so a device switching accounts is
// reassigned rather than duplicated.
func (r *postgresDeviceTokenRepository) SaveToken(token *models.DeviceToken) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "platform"}),
	}).Create(token).Error
}

func (r *postgresDeviceTokenRepository) DeleteToken(userID uint, token string) error {
	return r.db.Where("user_id = ? AND token = ?", userID, token).Delete(&models.DeviceToken{}).Error
}

func (r *postgresDeviceTokenRepository) ListTokensByUser(userID uint) ([]string, error) {
	var tokens []string
	err := r.db.Model(&models.DeviceToken{}).Where("user_id = ?", userID).Pluck("token", &tokens).Error
	return tokens, err
}
