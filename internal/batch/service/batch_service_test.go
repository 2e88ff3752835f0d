package service

import (
	"context"
	"errors"
	"testing"

	"golang-alpha-seek/internal/batch/dto"
	"golang-alpha-seek/internal/entity"
	"golang-alpha-seek/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubscriptionRepo struct {
	subscriptions []entity.Subscription
	err           error
}

func (f *fakeSubscriptionRepo) FindActive(_ context.Context) ([]entity.Subscription, error) {
	return f.subscriptions, f.err
}

type fakeHistoryRepo struct {
	created []*entity.ReportHistory
	updated []*entity.ReportHistory
}

// Both methods store copies: the service mutates the same struct across the
// run, and the assertions care about the value at call time.
func (f *fakeHistoryRepo) Create(_ context.Context, h *entity.ReportHistory) error {
	snapshot := *h
	f.created = append(f.created, &snapshot)
	return nil
}

func (f *fakeHistoryRepo) Update(_ context.Context, h *entity.ReportHistory) error {
	snapshot := *h
	f.updated = append(f.updated, &snapshot)
	return nil
}

type fakePipeline struct {
	failFor map[string]error
	runs    []dto.PipelineState
}

func (f *fakePipeline) Run(_ context.Context, state dto.PipelineState) (dto.PipelineState, error) {
	f.runs = append(f.runs, state)
	if err, ok := f.failFor[state.UserEmail]; ok {
		return state, err
	}
	state.TotalValue = 100
	return state, nil
}

func TestRunOnce_GroupsSubscriptionsPerUser(t *testing.T) {
	subRepo := &fakeSubscriptionRepo{subscriptions: []entity.Subscription{
		{ID: 1, UserEmail: "alice@example.com", Ticker: "AAA", Shares: 1},
		{ID: 2, UserEmail: "bob@example.com", Ticker: "BBB", Shares: 2},
		{ID: 3, UserEmail: "alice@example.com", Ticker: "CCC", Shares: 3},
	}}
	historyRepo := &fakeHistoryRepo{}
	pipeline := &fakePipeline{}

	svc := NewBatchService(nil, subRepo, historyRepo, pipeline, nil, logger.NewNop())
	require.NoError(t, svc.RunOnce(context.Background()))

	require.Len(t, pipeline.runs, 2)
	// users in first-seen order, tickers in subscription order
	assert.Equal(t, "alice@example.com", pipeline.runs[0].UserEmail)
	assert.Equal(t, []dto.Holding{{Ticker: "AAA", Shares: 1}, {Ticker: "CCC", Shares: 3}}, pipeline.runs[0].Portfolio)
	assert.Equal(t, "bob@example.com", pipeline.runs[1].UserEmail)
	assert.Equal(t, []dto.Holding{{Ticker: "BBB", Shares: 2}}, pipeline.runs[1].Portfolio)
}

func TestRunOnce_OneUserFailureDoesNotStopOthers(t *testing.T) {
	subRepo := &fakeSubscriptionRepo{subscriptions: []entity.Subscription{
		{ID: 1, UserEmail: "alice@example.com", Ticker: "AAA", Shares: 1},
		{ID: 2, UserEmail: "bob@example.com", Ticker: "BBB", Shares: 2},
	}}
	historyRepo := &fakeHistoryRepo{}
	pipeline := &fakePipeline{failFor: map[string]error{
		"alice@example.com": errors.New("smtp refused"),
	}}

	svc := NewBatchService(nil, subRepo, historyRepo, pipeline, nil, logger.NewNop())
	require.NoError(t, svc.RunOnce(context.Background()))

	require.Len(t, pipeline.runs, 2)
	require.Len(t, historyRepo.updated, 2)

	assert.Equal(t, entity.StatusFailed, historyRepo.updated[0].Status)
	assert.True(t, historyRepo.updated[0].ErrorMessage.Valid)
	assert.Equal(t, "smtp refused", historyRepo.updated[0].ErrorMessage.String)

	assert.Equal(t, entity.StatusCompleted, historyRepo.updated[1].Status)
	assert.False(t, historyRepo.updated[1].ErrorMessage.Valid)
	assert.True(t, historyRepo.updated[1].CompletedAt.Valid)
}

func TestRunOnce_SubscriptionLoadFailure(t *testing.T) {
	subRepo := &fakeSubscriptionRepo{err: errors.New("db down")}
	svc := NewBatchService(nil, subRepo, &fakeHistoryRepo{}, &fakePipeline{}, nil, logger.NewNop())

	err := svc.RunOnce(context.Background())
	assert.Error(t, err)
}

func TestRunOnce_RecordsHistoryLifecycle(t *testing.T) {
	subRepo := &fakeSubscriptionRepo{subscriptions: []entity.Subscription{
		{ID: 1, UserEmail: "alice@example.com", Ticker: "AAA", Shares: 1},
	}}
	historyRepo := &fakeHistoryRepo{}
	pipeline := &fakePipeline{}

	svc := NewBatchService(nil, subRepo, historyRepo, pipeline, nil, logger.NewNop())
	require.NoError(t, svc.RunOnce(context.Background()))

	require.Len(t, historyRepo.created, 1)
	assert.Equal(t, entity.StatusRunning, historyRepo.created[0].Status)
	assert.Equal(t, 1, historyRepo.created[0].TickerCount)

	require.Len(t, historyRepo.updated, 1)
	assert.Equal(t, entity.StatusCompleted, historyRepo.updated[0].Status)
	assert.InDelta(t, 100, historyRepo.updated[0].TotalValue, 1e-9)
}
