package processor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"flexreviews/reviews-service/internal/app/reviews/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockReviewSyncer мок для ReviewSyncer
type MockReviewSyncer struct {
	mock.Mock
}

func (m *MockReviewSyncer) SyncGoogleReviews(ctx context.Context) (service.SyncResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(service.SyncResult), args.Error(1)
}

func TestNewCronScheduler(t *testing.T) {
	// Arrange
	syncer := new(MockReviewSyncer)

	// Act
	scheduler := NewCronScheduler(syncer)

	// Assert
	assert.NotNil(t, scheduler.cron)
	assert.Equal(t, syncer, scheduler.syncer)
	assert.Empty(t, scheduler.GetEntries())
}

func TestCronScheduler_Start_Success(t *testing.T) {
	// Arrange
	syncer := new(MockReviewSyncer)
	scheduler := NewCronScheduler(syncer)

	// Initial sync при старте
	syncer.On("SyncGoogleReviews", mock.Anything).Return(service.SyncResult{Listings: 2, Imported: 5}, nil)

	// Act
	err := scheduler.Start(context.Background(), "0 3 * * *")

	// Assert
	assert.NoError(t, err)
	assert.Len(t, scheduler.GetEntries(), 1)
	syncer.AssertNumberOfCalls(t, "SyncGoogleReviews", 1)

	scheduler.Stop()
}

func TestCronScheduler_Start_InvalidSchedule(t *testing.T) {
	syncer := new(MockReviewSyncer)
	scheduler := NewCronScheduler(syncer)

	err := scheduler.Start(context.Background(), "every tuesday")

	assert.Error(t, err)
	syncer.AssertNotCalled(t, "SyncGoogleReviews", mock.Anything)
}

// cron округляет @every до целой секунды, поэтому интервал не меньше 1s
func TestCronScheduler_JobExecution(t *testing.T) {
	syncer := new(MockReviewSyncer)
	scheduler := NewCronScheduler(syncer)

	var calls int32
	syncer.On("SyncGoogleReviews", mock.Anything).
		Run(func(mock.Arguments) { atomic.AddInt32(&calls, 1) }).
		Return(service.SyncResult{}, nil)

	err := scheduler.Start(context.Background(), "@every 1s")
	assert.NoError(t, err)
	defer scheduler.Stop()

	// initial + хотя бы один запуск по расписанию
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) >= 2
	}, 3*time.Second, 50*time.Millisecond)
}

func TestCronScheduler_JobExecution_WithError(t *testing.T) {
	// Ошибки синхронизации не останавливают расписание
	syncer := new(MockReviewSyncer)
	scheduler := NewCronScheduler(syncer)

	var calls int32
	syncer.On("SyncGoogleReviews", mock.Anything).
		Run(func(mock.Arguments) { atomic.AddInt32(&calls, 1) }).
		Return(service.SyncResult{}, errors.New("storage failure"))

	err := scheduler.Start(context.Background(), "@every 1s")
	assert.NoError(t, err)
	defer scheduler.Stop()

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) >= 2
	}, 3*time.Second, 50*time.Millisecond)
}
