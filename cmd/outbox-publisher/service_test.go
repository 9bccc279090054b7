package main

import (
	"context"
	"errors"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurumid/goldpos-backend/pkg/config"
	"github.com/aurumid/goldpos-backend/pkg/db/models"
	"github.com/aurumid/goldpos-backend/pkg/enums"
	"github.com/aurumid/goldpos-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubRepo struct {
	pending []models.OutboxEvent

	published []uuid.UUID
	failed    []uuid.UUID

	fetchLimit       int
	fetchMaxAttempts int
}

func (s *stubRepo) FetchUnpublished(limit, maxAttempts int) ([]models.OutboxEvent, error) {
	s.fetchLimit = limit
	s.fetchMaxAttempts = maxAttempts
	return s.pending, nil
}

func (s *stubRepo) MarkPublished(id uuid.UUID) error {
	s.published = append(s.published, id)
	return nil
}

func (s *stubRepo) MarkFailed(id uuid.UUID, _ error) error {
	s.failed = append(s.failed, id)
	return nil
}

type stubResult struct {
	err error
}

func (r stubResult) Get(context.Context) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return "msg-id", nil
}

type stubPublisher struct {
	errs     map[string]error
	messages []*gcppubsub.Message
}

func (s *stubPublisher) Publish(_ context.Context, msg *gcppubsub.Message) publishResult {
	s.messages = append(s.messages, msg)
	return stubResult{err: s.errs[msg.Attributes["aggregate_id"]]}
}

func pendingEvent(aggregateID uuid.UUID) models.OutboxEvent {
	return models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventTransactionCreated,
		AggregateType: enums.AggregateTransaction,
		AggregateID:   aggregateID,
		Payload:       []byte(`{"version":1}`),
	}
}

func newTestService(t *testing.T, repo *stubRepo, pub *stubPublisher) *Service {
	t.Helper()

	cfg := &config.Config{}
	cfg.Outbox.BatchSize = 10
	cfg.Outbox.MaxAttempts = 3

	svc, err := NewService(ServiceParams{
		Config:    cfg,
		Logger:    logger.New(logger.Options{ServiceName: "test"}),
		DB:        stubPinger{},
		PubSub:    stubPinger{},
		Repo:      repo,
		Publisher: pub,
	})
	require.NoError(t, err)
	return svc
}

func TestProcessBatchPublishesAndMarks(t *testing.T) {
	eventA := pendingEvent(uuid.New())
	eventB := pendingEvent(uuid.New())
	repo := &stubRepo{pending: []models.OutboxEvent{eventA, eventB}}
	pub := &stubPublisher{}
	svc := newTestService(t, repo, pub)

	processed, err := svc.processBatch(context.Background())
	require.NoError(t, err)
	assert.True(t, processed)
	assert.Equal(t, []uuid.UUID{eventA.ID, eventB.ID}, repo.published)
	assert.Empty(t, repo.failed)
	require.Len(t, pub.messages, 2)
	assert.Equal(t, "transaction_created", pub.messages[0].Attributes["event_type"])
	assert.Equal(t, 10, repo.fetchLimit)
	assert.Equal(t, 3, repo.fetchMaxAttempts)
}

func TestProcessBatchFailureSkipsAndContinues(t *testing.T) {
	bad := pendingEvent(uuid.New())
	good := pendingEvent(uuid.New())
	repo := &stubRepo{pending: []models.OutboxEvent{bad, good}}
	pub := &stubPublisher{errs: map[string]error{
		bad.AggregateID.String(): errors.New("topic unavailable"),
	}}
	svc := newTestService(t, repo, pub)

	processed, err := svc.processBatch(context.Background())
	require.NoError(t, err)
	assert.True(t, processed)
	assert.Equal(t, []uuid.UUID{bad.ID}, repo.failed, "failed publish bumps the attempt counter")
	assert.Equal(t, []uuid.UUID{good.ID}, repo.published, "one poison event must not block the rest")
}

func TestProcessBatchEmptyIsIdle(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(t, repo, &stubPublisher{})

	processed, err := svc.processBatch(context.Background())
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestNextBackoffDoublesToCap(t *testing.T) {
	base := 500 * time.Millisecond
	assert.Equal(t, time.Second, nextBackoff(base, base, maxBackoff))
	assert.Equal(t, maxBackoff, nextBackoff(maxBackoff, base, maxBackoff))
}
