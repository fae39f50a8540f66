package repo

import (
	"context"

	"github.com/go-orz/orz"
	"github.com/treansai/traidano/internal/models"
	"gorm.io/gorm"
)

func NewAccountHistoryRepo(db *gorm.DB) *AccountHistoryRepo {
	return &AccountHistoryRepo{
		Repository: orz.NewRepository[models.AccountHistory, string](db),
	}
}

type AccountHistoryRepo struct {
	orz.Repository[models.AccountHistory, string]
}

// FindAllOrderByRecordedAt returns the full snapshot history, oldest first.
func (r AccountHistoryRepo) FindAllOrderByRecordedAt(ctx context.Context) ([]models.AccountHistory, error) {
	var histories []models.AccountHistory
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Order("recorded_at ASC").
		Find(&histories).Error
	return histories, err
}
