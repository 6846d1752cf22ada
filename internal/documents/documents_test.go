package documents

import (
	"context"
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
	if err := db.AutoMigrate(&models.Case{}, &models.Document{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		sql := `
TRUNCATE TABLE
	documents,
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
		Title:      "Estate of Roe",
		Type:       models.CaseTypeCivil,
		Status:     models.CaseActive,
	}
	require.NoError(t, tx.Create(&cs).Error)
	return &cs
}

/* ================== TESTS ================== */

func Test_CreateDocument_UnknownCaseIsValidation(t *testing.T) {
	db := openTestDB(t)
	withTx(t, db, func(tx *gorm.DB) {
		svc := NewService(tx, zap.NewNop())
		ctx := context.Background()

		_, err := svc.Create(ctx, CreateDocumentInput{
			CaseID: uuid.New(),
			Title:  "Contract",
			Type:   string(models.DocContract),
		})
		require.True(t, apperr.IsValidation(err))
		require.False(t, apperr.IsNotFound(err))

		var cnt int64
		require.NoError(t, tx.Model(&models.Document{}).Count(&cnt).Error)
		require.EqualValues(t, 0, cnt)
	})
}

func Test_DocumentCRUD_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	withTx(t, db, func(tx *gorm.DB) {
		svc := NewService(tx, zap.NewNop())
		ctx := context.Background()

		cs := seedCase(t, tx, "D-100")

		doc, err := svc.Create(ctx, CreateDocumentInput{
			CaseID:      cs.ID,
			Title:       "Retainer Agreement",
			Type:        string(models.DocContract),
			ContentType: "text/plain",
			Content:     "This agreement is made between...",
		})
		require.NoError(t, err)
		require.Equal(t, cs.ID, doc.CaseID)

		// partial update touches only the supplied field
		title := "Retainer Agreement (signed)"
		got, err := svc.Update(ctx, doc.ID, UpdateDocumentInput{Title: &title})
		require.NoError(t, err)
		require.Equal(t, title, got.Title)
		require.Equal(t, doc.Type, got.Type)
		require.Equal(t, doc.Content, got.Content)

		require.NoError(t, svc.Delete(ctx, doc.ID))
		_, err = svc.Get(ctx, doc.ID)
		require.True(t, apperr.IsNotFound(err))

		require.True(t, apperr.IsNotFound(svc.Delete(ctx, doc.ID)))
	})
}

func Test_ListByCase_AndFilterByType(t *testing.T) {
	db := openTestDB(t)
	withTx(t, db, func(tx *gorm.DB) {
		svc := NewService(tx, zap.NewNop())
		ctx := context.Background()

		cs := seedCase(t, tx, "D-200")
		other := seedCase(t, tx, "D-201")

		for _, in := range []CreateDocumentInput{
			{CaseID: cs.ID, Title: "Exhibit A", Type: string(models.DocEvidence)},
			{CaseID: cs.ID, Title: "Initial Petition", Type: string(models.DocPetition)},
			{CaseID: other.ID, Title: "Exhibit B", Type: string(models.DocEvidence)},
		} {
			_, err := svc.Create(ctx, in)
			require.NoError(t, err)
		}

		got, err := svc.ListByCase(ctx, cs.ID)
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Equal(t, "Exhibit A", got[0].Title) // insertion order

		evidence, err := svc.FilterByType(ctx, models.DocEvidence)
		require.NoError(t, err)
		require.Len(t, evidence, 2)

		_, err = svc.ListByCase(ctx, uuid.New())
		require.True(t, apperr.IsNotFound(err))
	})
}
