package integration_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeysi05/pickle-jar-courts/internal/court"
	"github.com/jeysi05/pickle-jar-courts/internal/reservation"
)

const bookingDate = "2030-06-05"

func centreCourt(t *testing.T, repo *court.PostgresRepository) court.Court {
	t.Helper()
	courts, err := repo.List(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, courts, "courts are seeded by migration")
	assert.Equal(t, "Centre Court", courts[0].Name)
	return courts[0]
}

func request(courtID int, slots ...string) []*reservation.Reservation {
	id := uuid.NewString()
	rows := make([]*reservation.Reservation, len(slots))
	for i, s := range slots {
		rows[i] = &reservation.Reservation{
			RequestID:       id,
			CourtID:         courtID,
			Date:            bookingDate,
			TimeSlot:        s,
			CustomerName:    "Ana Cruz",
			CustomerContact: "+639171234567",
			Status:          reservation.StatusPending,
			TotalPrice:      int64(300 * len(slots)),
			PricingMode:     "standard",
		}
	}
	return rows
}

func TestReservationLifecycle_Integration(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	c := centreCourt(t, court.NewRepository(database))
	repo := reservation.NewRepository(database)

	rows := request(c.ID, "10:00 AM", "11:00 AM")
	for _, r := range rows {
		require.NoError(t, repo.Create(ctx, r))
		assert.NotZero(t, r.ID)
	}

	taken, err := repo.ListTaken(ctx, c.ID, bookingDate)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"10:00 AM", "11:00 AM"}, taken)

	got, err := repo.GetByID(ctx, rows[0].ID)
	require.NoError(t, err)
	assert.Equal(t, bookingDate, got.Date)
	assert.Equal(t, c.Name, got.CourtName)

	require.NoError(t, repo.UpdateStatus(ctx, rows[0].ID, reservation.StatusPending, reservation.StatusApproved))
	err = repo.UpdateStatus(ctx, rows[0].ID, reservation.StatusPending, reservation.StatusApproved)
	assert.ErrorIs(t, err, reservation.ErrInvalidTransition)

	summary, err := repo.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.Pending)
	assert.Equal(t, 1, summary.Approved)
	assert.Equal(t, int64(600), summary.Revenue, "revenue counts each request once")

	require.NoError(t, repo.DeleteWithStatus(ctx, rows[1].ID, reservation.StatusPending))
	taken, err = repo.ListTaken(ctx, c.ID, bookingDate)
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00 AM"}, taken)

	pending, err := repo.List(ctx, reservation.Filter{Status: reservation.StatusPending})
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestCreateBatch_ConcurrentRequests_Integration(t *testing.T) {
	database := setupTestDB(t)
	c := centreCourt(t, court.NewRepository(database))
	repo := reservation.NewRepository(database)

	const racers = 5
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		saved   int
		refused int
	)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.CreateBatch(context.Background(), request(c.ID, "06:00 PM", "07:00 PM"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				saved++
			case errors.Is(err, reservation.ErrSlotTaken):
				refused++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, saved)
	assert.Equal(t, racers-1, refused)

	taken, err := repo.ListTaken(context.Background(), c.ID, bookingDate)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"06:00 PM", "07:00 PM"}, taken)
}
