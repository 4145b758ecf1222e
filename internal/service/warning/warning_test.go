package warning

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Tri-omph/backend/internal/models"
	"github.com/Tri-omph/backend/internal/scancache"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Customer{}, &models.Warning{}))
	return db
}

// newTestService puts the ledger and the tracker on one stepped clock, so a
// single *time.Time advances both windows.
func newTestService(t *testing.T) (*Service, *time.Time) {
	t.Helper()
	now := time.Now().Truncate(time.Second)
	clock := func() time.Time { return now }
	svc := NewService(newTestDB(t), scancache.NewTracker())
	svc.now = clock
	svc.Tracker.SetNow(clock)
	return svc, &now
}

func TestNotSuspiciousNoPersistence(t *testing.T) {
	svc, _ := newTestService(t)
	customer := &models.Customer{ID: 7}

	res, err := svc.HandleWarning(context.Background(), customer, "123", 5)
	require.NoError(t, err)
	require.False(t, res.Confirmed)
	require.Equal(t, 1, res.TotalRequests)

	var count int64
	require.NoError(t, svc.DB.Model(&models.Warning{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestRefreshSameRowWithinWindow(t *testing.T) {
	svc, now := newTestService(t)
	customer := &models.Customer{ID: 9}
	ctx := context.Background()

	res, err := svc.HandleWarning(ctx, customer, "abc", 1)
	require.NoError(t, err)
	require.True(t, res.Confirmed)
	require.Equal(t, 1, res.TotalRequests)

	var first models.Warning
	require.NoError(t, svc.DB.First(&first).Error)
	require.Equal(t, 1, first.ScanCount)

	*now = now.Add(30 * time.Minute)
	res, err = svc.HandleWarning(ctx, customer, "abc", 1)
	require.NoError(t, err)
	require.True(t, res.Confirmed)
	require.Equal(t, 2, res.TotalRequests)

	var count int64
	require.NoError(t, svc.DB.Model(&models.Warning{}).Count(&count).Error)
	require.EqualValues(t, 1, count, "the same row is refreshed inside the window")

	var refreshed models.Warning
	require.NoError(t, svc.DB.First(&refreshed, first.ID).Error)
	require.Equal(t, 2, refreshed.ScanCount)
}

func TestNewRowAfterWindowElapsed(t *testing.T) {
	svc, now := newTestService(t)
	customer := &models.Customer{ID: 9}
	ctx := context.Background()

	res, err := svc.HandleWarning(ctx, customer, "abc", 1)
	require.NoError(t, err)
	require.True(t, res.Confirmed)

	res, err = svc.HandleWarning(ctx, customer, "abc", 1)
	require.NoError(t, err)
	require.Equal(t, 2, res.TotalRequests)

	var first models.Warning
	require.NoError(t, svc.DB.First(&first).Error)
	require.Equal(t, 2, first.ScanCount)

	// Two hours of silence reset the tracker window and age the row out of
	// its refresh window.
	*now = now.Add(2 * time.Hour)
	res, err = svc.HandleWarning(ctx, customer, "abc", 1)
	require.NoError(t, err)
	require.True(t, res.Confirmed)
	require.Equal(t, 1, res.TotalRequests, "counter restarts with the new window")

	var warnings []models.Warning
	require.NoError(t, svc.DB.Order("id ASC").Find(&warnings).Error)
	require.Len(t, warnings, 2, "an elapsed window gets a fresh row")
	require.Equal(t, first.ID, warnings[0].ID)
	require.Equal(t, 2, warnings[0].ScanCount, "old row is kept unchanged")
	require.Equal(t, 1, warnings[1].ScanCount, "new row starts from the reset counter")
	require.NotEqual(t, first.ID, warnings[1].ID)
}

func TestScanCountFollowsTracker(t *testing.T) {
	svc, _ := newTestService(t)
	customer := &models.Customer{ID: 4}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.HandleWarning(ctx, customer, "xyz", 2)
		require.NoError(t, err)
	}

	var w models.Warning
	require.NoError(t, svc.DB.Order("created_at DESC").First(&w).Error)
	require.Equal(t, 3, w.ScanCount, "refresh stores the latest tracker total")
}

func TestForCustomerNewestFirst(t *testing.T) {
	svc, _ := newTestService(t)
	base := time.Now().Truncate(time.Second)

	rows := []models.Warning{
		{CustomerID: 3, Barcode: "a", ScanCount: 5, CreatedAt: base.Add(-2 * time.Hour)},
		{CustomerID: 3, Barcode: "a", ScanCount: 8, CreatedAt: base},
		{CustomerID: 4, Barcode: "b", ScanCount: 2, CreatedAt: base},
	}
	for i := range rows {
		require.NoError(t, svc.DB.Create(&rows[i]).Error)
	}

	got, err := svc.ForCustomer(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, 8, got[0].ScanCount)
	require.Equal(t, 5, got[1].ScanCount)
}
