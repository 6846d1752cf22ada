package hearings

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/cembalci/casedesk/pkg/apperr"
	"github.com/cembalci/casedesk/pkg/models"
)

/* ===== helpers ===== */

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	_ = godotenv.Load()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Fatal("TEST_DATABASE_URL is empty")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Case{}, &models.Hearing{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		sql := `
TRUNCATE TABLE
	hearings,
	cases
RESTART IDENTITY CASCADE`
		if err := db.Exec(sql).Error; err != nil {
			t.Logf("truncate failed (ignored): %v", err)
		}
	})

	return db
}

func withTx(t *testing.T, db *gorm.DB, fn func(tx *gorm.DB)) {
	t.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback().Error
			panic(r)
		}
	}()
	fn(tx)
	if err := tx.Commit().Error; err != nil {
		t.Fatalf("commit tx: %v", err)
	}
}

func seedCase(t *testing.T, tx *gorm.DB, number string) *models.Case {
	t.Helper()
	cs := models.Case{
		CaseNumber: number,
		Title:      "State v. Doe",
		Type:       models.CaseTypeCriminal,
		Status:     models.CaseActive,
	}
	require.NoError(t, tx.Create(&cs).Error)
	return &cs
}

/* ================== TESTS ================== */

func Test_CreateHearing_TruncatesSubSecond(t *testing.T) {
	db := openTestDB(t)
	withTx(t, db, func(tx *gorm.DB) {
		svc := NewService(tx, zap.NewNop())
		ctx := context.Background()

		cs := seedCase(t, tx, "H-100")

		when := time.Date(2026, 9, 14, 10, 30, 42, 450_000_000, time.UTC)
		hr, err := svc.Create(ctx, CreateHearingInput{
			CaseID:      cs.ID,
			HearingDate: when,
			Judge:       "J. Park",
			Location:    "Courtroom 3",
		})
		require.NoError(t, err)
		require.Equal(t, models.HearingScheduled, hr.Status)
		require.Zero(t, hr.HearingDate.Nanosecond())
		require.Equal(t, when.Unix(), hr.HearingDate.Unix())

		// the stored value round-trips to the same second
		got, err := svc.Get(ctx, hr.ID)
		require.NoError(t, err)
		require.Equal(t, when.Unix(), got.HearingDate.Unix())
		require.Zero(t, got.HearingDate.Nanosecond())
	})
}

func Test_CreateHearing_UnknownCaseIsValidation(t *testing.T) {
	db := openTestDB(t)
	withTx(t, db, func(tx *gorm.DB) {
		svc := NewService(tx, zap.NewNop())
		ctx := context.Background()

		_, err := svc.Create(ctx, CreateHearingInput{
			CaseID:      uuid.New(),
			HearingDate: time.Now().Add(24 * time.Hour),
		})
		// bad reference from the caller, not a missing resource
		require.True(t, apperr.IsValidation(err))
		require.False(t, apperr.IsNotFound(err))

		var cnt int64
		require.NoError(t, tx.Model(&models.Hearing{}).Count(&cnt).Error)
		require.EqualValues(t, 0, cnt)
	})
}

func Test_UpdateHearing_StatusUnconstrained(t *testing.T) {
	db := openTestDB(t)
	withTx(t, db, func(tx *gorm.DB) {
		svc := NewService(tx, zap.NewNop())
		ctx := context.Background()

		cs := seedCase(t, tx, "H-200")
		hr, err := svc.Create(ctx, CreateHearingInput{
			CaseID:      cs.ID,
			HearingDate: time.Now().Add(48 * time.Hour),
		})
		require.NoError(t, err)

		// hearings have no lifecycle: any order of statuses is fine
		for _, st := range []string{"cancelled", "scheduled", "completed", "postponed"} {
			got, err := svc.Update(ctx, hr.ID, UpdateHearingInput{Status: &st})
			require.NoError(t, err)
			require.Equal(t, models.HearingStatus(st), got.Status)
		}
	})
}

func Test_UpdateHearing_RescheduleTruncatesAgain(t *testing.T) {
	db := openTestDB(t)
	withTx(t, db, func(tx *gorm.DB) {
		svc := NewService(tx, zap.NewNop())
		ctx := context.Background()

		cs := seedCase(t, tx, "H-300")
		hr, err := svc.Create(ctx, CreateHearingInput{
			CaseID:      cs.ID,
			HearingDate: time.Now().Add(24 * time.Hour),
		})
		require.NoError(t, err)

		next := time.Date(2026, 10, 1, 9, 0, 15, 999_999_999, time.UTC)
		got, err := svc.Update(ctx, hr.ID, UpdateHearingInput{HearingDate: &next})
		require.NoError(t, err)
		require.Equal(t, next.Unix(), got.HearingDate.Unix())
		require.Zero(t, got.HearingDate.Nanosecond())
	})
}

func Test_ListByCase_MissingCaseNotFound(t *testing.T) {
	db := openTestDB(t)
	withTx(t, db, func(tx *gorm.DB) {
		svc := NewService(tx, zap.NewNop())
		ctx := context.Background()

		_, err := svc.ListByCase(ctx, uuid.New())
		require.True(t, apperr.IsNotFound(err))

		// existing case with no hearings answers an empty list
		cs := seedCase(t, tx, "H-400")
		got, err := svc.ListByCase(ctx, cs.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Len(t, got, 0)
	})
}
