package repo

import (
	"context"

	"github.com/go-orz/orz"
	"github.com/treansai/traidano/internal/models"
	"gorm.io/gorm"
)

func NewBotRepo(db *gorm.DB) *BotRepo {
	return &BotRepo{
		Repository: orz.NewRepository[models.Bot, string](db),
	}
}

type BotRepo struct {
	orz.Repository[models.Bot, string]
}

// FindRunning returns the bot records flagged as running, used for startup
// rehydration.
func (r BotRepo) FindRunning(ctx context.Context) ([]models.Bot, error) {
	var bots []models.Bot
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Where("is_running = ?", true).
		Order("created_at ASC").
		Find(&bots).Error
	return bots, err
}

// UpdateRunning flips the persisted run flag of one bot.
func (r BotRepo) UpdateRunning(ctx context.Context, id string, running bool) error {
	db := r.GetDB(ctx)
	return db.Table(r.GetTableName()).
		Where("id = ?", id).
		Update("is_running", running).Error
}
