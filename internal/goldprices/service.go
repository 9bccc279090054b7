package goldprices

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aurumid/goldpos-backend/internal/pricing"
	"github.com/aurumid/goldpos-backend/pkg/db/models"
	"github.com/aurumid/goldpos-backend/pkg/enums"
	pkgerrors "github.com/aurumid/goldpos-backend/pkg/errors"
	"github.com/aurumid/goldpos-backend/pkg/outbox"
)

const defaultHistoryDays = 30

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// SetPriceInput is one manual quote entry for today.
type SetPriceInput struct {
	GoldType  enums.GoldType
	Purity    int
	BuyPrice  int64
	SellPrice int64
	Source    *string
	Actor     *outbox.ActorRef
}

// Service manages the daily quote board the whole shop prices against.
type Service interface {
	SetPrice(ctx context.Context, input SetPriceInput) (*models.GoldPrice, error)
	TodayPrices(ctx context.Context) ([]models.GoldPrice, error)
	PricesForDate(ctx context.Context, date string) ([]models.GoldPrice, error)
	History(ctx context.Context, goldType enums.GoldType, purity int, days int) ([]models.GoldPrice, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	events outboxEmitter
	now    func() time.Time
}

// NewService builds the gold price service.
func NewService(repo Repository, tx txRunner, events outboxEmitter, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("gold price repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if events == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, tx: tx, events: events, now: now}, nil
}

type goldPricePayload struct {
	PriceID   uuid.UUID      `json:"priceId"`
	Date      string         `json:"date"`
	GoldType  enums.GoldType `json:"goldType"`
	Purity    int            `json:"purity"`
	BuyPrice  int64          `json:"buyPrice"`
	SellPrice int64          `json:"sellPrice"`
}

// SetPrice upserts today's quote for one (gold type, purity) pair. Repeated
// entries on the same day overwrite the earlier quote rather than stacking.
func (s *service) SetPrice(ctx context.Context, input SetPriceInput) (*models.GoldPrice, error) {
	if !input.GoldType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid gold type %q", input.GoldType))
	}
	if !enums.ValidPurity(input.Purity) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("purity %d out of range", input.Purity))
	}
	if input.BuyPrice <= 0 || input.SellPrice <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buy and sell prices must be positive")
	}
	if input.BuyPrice > input.SellPrice {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buy price cannot exceed sell price")
	}

	source := "Manual"
	if input.Source != nil && *input.Source != "" {
		source = *input.Source
	}

	today := s.now().Format(pricing.DateLayout)
	var saved *models.GoldPrice
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		price := &models.GoldPrice{
			Date:      today,
			GoldType:  input.GoldType,
			Purity:    input.Purity,
			BuyPrice:  input.BuyPrice,
			SellPrice: input.SellPrice,
			Source:    &source,
		}
		if err := repo.Upsert(ctx, price); err != nil {
			return err
		}

		// Re-read: on conflict the existing row keeps its id.
		current, err := repo.FindByDay(ctx, today, input.GoldType, input.Purity)
		if err != nil {
			return err
		}
		saved = current

		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventGoldPriceUpdated,
			AggregateType: enums.AggregateGoldPrice,
			AggregateID:   current.ID,
			Actor:         input.Actor,
			Version:       1,
			Data: goldPricePayload{
				PriceID:   current.ID,
				Date:      current.Date,
				GoldType:  current.GoldType,
				Purity:    current.Purity,
				BuyPrice:  current.BuyPrice,
				SellPrice: current.SellPrice,
			},
		})
	})
	if err != nil {
		return nil, wrapErr(err, "set gold price")
	}
	return saved, nil
}

func (s *service) TodayPrices(ctx context.Context) ([]models.GoldPrice, error) {
	return s.PricesForDate(ctx, s.now().Format(pricing.DateLayout))
}

func (s *service) PricesForDate(ctx context.Context, date string) ([]models.GoldPrice, error) {
	if _, err := time.Parse(pricing.DateLayout, date); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date must be formatted YYYY-MM-DD")
	}
	prices, err := s.repo.ListByDate(ctx, date)
	if err != nil {
		return nil, wrapErr(err, "list gold prices")
	}
	return prices, nil
}

func (s *service) History(ctx context.Context, goldType enums.GoldType, purity int, days int) ([]models.GoldPrice, error) {
	if !goldType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid gold type %q", goldType))
	}
	if !enums.ValidPurity(purity) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("purity %d out of range", purity))
	}
	if days <= 0 {
		days = defaultHistoryDays
	}
	prices, err := s.repo.History(ctx, goldType, purity, days)
	if err != nil {
		return nil, wrapErr(err, "load price history")
	}
	return prices, nil
}

func wrapErr(err error, msg string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}
