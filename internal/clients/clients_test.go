package clients

import (
	"context"
	"errors"
	"os"
	"testing"

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
	if err := db.AutoMigrate(&models.Client{}, &models.Case{}, &models.CaseClient{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		sql := `
TRUNCATE TABLE
	case_clients,
	cases,
	clients
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

func newSvc(tx *gorm.DB) *Service {
	return NewService(tx, zap.NewNop())
}

/* ================== TESTS ================== */

func Test_CreateClient_ReturnsPersistedFields(t *testing.T) {
	db := openTestDB(t)
	withTx(t, db, func(tx *gorm.DB) {
		svc := newSvc(tx)
		ctx := context.Background()

		cl, err := svc.Create(ctx, CreateClientInput{
			Name:    "  Ann ",
			Surname: "Lee",
			Email:   "Ann@Example.COM",
			Phone:   "5551234567",
			Address: "1 Main St",
		})
		require.NoError(t, err)
		require.NotEqual(t, uuid.Nil, cl.ID)
		require.Equal(t, "Ann", cl.Name)
		require.NotNil(t, cl.Email)
		require.Equal(t, "ann@example.com", *cl.Email)

		got, err := svc.Get(ctx, cl.ID)
		require.NoError(t, err)
		require.Equal(t, cl.Name, got.Name)
		require.Equal(t, cl.Surname, got.Surname)
	})
}

func Test_CreateClient_MissingNameRejected(t *testing.T) {
	db := openTestDB(t)
	withTx(t, db, func(tx *gorm.DB) {
		svc := newSvc(tx)

		_, err := svc.Create(context.Background(), CreateClientInput{Surname: "Lee"})
		require.True(t, apperr.IsValidation(err))

		var ve *apperr.ValidationError
		require.True(t, errors.As(err, &ve))
		require.Contains(t, ve.Fields, "name")
	})
}

func Test_CreateClient_DuplicateEmailRejected(t *testing.T) {
	db := openTestDB(t)
	withTx(t, db, func(tx *gorm.DB) {
		svc := newSvc(tx)
		ctx := context.Background()

		_, err := svc.Create(ctx, CreateClientInput{Name: "Ann", Surname: "Lee", Email: "ann@test.local"})
		require.NoError(t, err)

		_, err = svc.Create(ctx, CreateClientInput{Name: "Ben", Surname: "Kim", Email: "ANN@test.local"})
		require.True(t, apperr.IsValidation(err))

		var ve *apperr.ValidationError
		require.True(t, errors.As(err, &ve))
		require.True(t, ve.Conflict)

		// two clients without email are fine: null is not a duplicate
		_, err = svc.Create(ctx, CreateClientInput{Name: "Cara", Surname: "Diaz"})
		require.NoError(t, err)
		_, err = svc.Create(ctx, CreateClientInput{Name: "Dana", Surname: "Moss"})
		require.NoError(t, err)
	})
}

func Test_UpdateClient_Partial(t *testing.T) {
	db := openTestDB(t)
	withTx(t, db, func(tx *gorm.DB) {
		svc := newSvc(tx)
		ctx := context.Background()

		cl, err := svc.Create(ctx, CreateClientInput{Name: "Ann", Surname: "Lee", Email: "ann2@test.local"})
		require.NoError(t, err)

		phone := "5559876543"
		got, err := svc.Update(ctx, cl.ID, UpdateClientInput{Phone: &phone})
		require.NoError(t, err)
		require.Equal(t, phone, got.Phone)
		require.Equal(t, "Ann", got.Name)
		require.NotNil(t, got.Email)

		// empty email clears it
		empty := ""
		got, err = svc.Update(ctx, cl.ID, UpdateClientInput{Email: &empty})
		require.NoError(t, err)
		require.Nil(t, got.Email)
	})
}

func Test_DeleteClient_MissingIsNotFound(t *testing.T) {
	db := openTestDB(t)
	withTx(t, db, func(tx *gorm.DB) {
		svc := newSvc(tx)
		ctx := context.Background()

		_, err := svc.Create(ctx, CreateClientInput{Name: "Ann", Surname: "Lee"})
		require.NoError(t, err)

		var before int64
		require.NoError(t, tx.Model(&models.Client{}).Count(&before).Error)

		require.True(t, apperr.IsNotFound(svc.Delete(ctx, uuid.New())))

		var after int64
		require.NoError(t, tx.Model(&models.Client{}).Count(&after).Error)
		require.Equal(t, before, after)
	})
}

func Test_SearchByName_CaseInsensitive(t *testing.T) {
	db := openTestDB(t)
	withTx(t, db, func(tx *gorm.DB) {
		svc := newSvc(tx)
		ctx := context.Background()

		for _, p := range [][2]string{{"Ann", "Lee"}, {"Ben", "Leeds"}, {"Cara", "Diaz"}} {
			_, err := svc.Create(ctx, CreateClientInput{Name: p[0], Surname: p[1]})
			require.NoError(t, err)
		}

		got, err := svc.SearchByName(ctx, "lee")
		require.NoError(t, err)
		require.Len(t, got, 2)

		// blank query falls back to the full list
		got, err = svc.SearchByName(ctx, "  ")
		require.NoError(t, err)
		require.Len(t, got, 3)
	})
}
