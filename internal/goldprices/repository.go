package goldprices

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aurumid/goldpos-backend/pkg/db/models"
	"github.com/aurumid/goldpos-backend/pkg/enums"
)

// Repository persists daily gold quotes. The table holds at most one row per
// (date, gold type, purity); Upsert relies on that unique index.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Upsert(ctx context.Context, price *models.GoldPrice) error
	FindByDay(ctx context.Context, date string, goldType enums.GoldType, purity int) (*models.GoldPrice, error)
	ListByDate(ctx context.Context, date string) ([]models.GoldPrice, error)
	History(ctx context.Context, goldType enums.GoldType, purity int, days int) ([]models.GoldPrice, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a gold price repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Upsert(ctx context.Context, price *models.GoldPrice) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}, {Name: "gold_type"}, {Name: "purity"}},
			DoUpdates: clause.AssignmentColumns([]string{"buy_price", "sell_price", "source"}),
		}).
		Create(price).Error
}

func (r *repository) FindByDay(ctx context.Context, date string, goldType enums.GoldType, purity int) (*models.GoldPrice, error) {
	var price models.GoldPrice
	err := r.db.WithContext(ctx).
		Where("date = ? AND gold_type = ? AND purity = ?", date, goldType, purity).
		First(&price).Error
	if err != nil {
		return nil, err
	}
	return &price, nil
}

func (r *repository) ListByDate(ctx context.Context, date string) ([]models.GoldPrice, error) {
	var prices []models.GoldPrice
	err := r.db.WithContext(ctx).
		Where("date = ?", date).
		Order("gold_type, purity DESC").
		Find(&prices).Error
	if err != nil {
		return nil, err
	}
	return prices, nil
}

func (r *repository) History(ctx context.Context, goldType enums.GoldType, purity int, days int) ([]models.GoldPrice, error) {
	var prices []models.GoldPrice
	err := r.db.WithContext(ctx).
		Where("gold_type = ? AND purity = ?", goldType, purity).
		Order("date DESC").
		Limit(days).
		Find(&prices).Error
	if err != nil {
		return nil, err
	}
	return prices, nil
}
