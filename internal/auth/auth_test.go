package auth

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
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
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Exec(`TRUNCATE TABLE users RESTART IDENTITY CASCADE`).Error; err != nil {
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

func registerInput(username string) RegisterInput {
	return RegisterInput{
		Username: username,
		Password: "hunter22",
		Email:    username + "@test.local",
		Name:     "Test",
		Surname:  "User",
		Role:     string(models.RoleLawyer),
	}
}

/* ================== TESTS ================== */

func Test_RegisterLogin_RoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := openTestDB(t)
	withTx(t, db, func(tx *gorm.DB) {
		svc := NewService(tx, zap.NewNop())
		ctx := context.Background()

		u, err := svc.Register(ctx, registerInput("Alice"))
		require.NoError(t, err)
		require.Equal(t, "alice", u.Username) // normalized
		require.True(t, u.Enabled)
		require.NotEqual(t, "hunter22", u.PasswordHash)

		sess, err := svc.Login(ctx, "ALICE ", "hunter22")
		require.NoError(t, err)
		require.NotEmpty(t, sess.Token)
		require.Equal(t, u.ID, sess.User.ID)
		require.False(t, sess.IssuedAt.IsZero())

		svc.Logout(sess)
		require.Nil(t, sess.User)
		require.Empty(t, sess.Token)
	})
}

func Test_Login_BadCredentialsAnswerAlike(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := openTestDB(t)
	withTx(t, db, func(tx *gorm.DB) {
		svc := NewService(tx, zap.NewNop())
		ctx := context.Background()

		_, err := svc.Register(ctx, registerInput("bob"))
		require.NoError(t, err)

		_, wrongPw := svc.Login(ctx, "bob", "not-it")
		_, noUser := svc.Login(ctx, "nobody", "hunter22")

		// same category and message for both, so accounts cannot be probed
		require.True(t, apperr.IsValidation(wrongPw))
		require.True(t, apperr.IsValidation(noUser))
		require.Equal(t, wrongPw.Error(), noUser.Error())

		// disabled account behaves the same
		require.NoError(t, tx.Model(&models.User{}).Where("username = ?", "bob").Update("enabled", false).Error)
		_, disabled := svc.Login(ctx, "bob", "hunter22")
		require.True(t, apperr.IsValidation(disabled))
		require.Equal(t, wrongPw.Error(), disabled.Error())
	})
}

func Test_Register_DuplicateUsernameRejected(t *testing.T) {
	db := openTestDB(t)
	withTx(t, db, func(tx *gorm.DB) {
		svc := NewService(tx, zap.NewNop())
		ctx := context.Background()

		_, err := svc.Register(ctx, registerInput("carol"))
		require.NoError(t, err)

		dup := registerInput("carol")
		dup.Email = "other@test.local"
		_, err = svc.Register(ctx, dup)
		require.True(t, apperr.IsValidation(err))

		var ve *apperr.ValidationError
		require.True(t, errors.As(err, &ve))
		require.True(t, ve.Conflict)
		require.Contains(t, ve.Fields, "username")
	})
}

func Test_Register_BadRoleRejected(t *testing.T) {
	db := openTestDB(t)
	withTx(t, db, func(tx *gorm.DB) {
		svc := NewService(tx, zap.NewNop())

		in := registerInput("dave")
		in.Role = "superuser"
		_, err := svc.Register(context.Background(), in)
		require.True(t, apperr.IsValidation(err))
	})
}

func Test_LoginHandler_WrongPasswordIs401(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := openTestDB(t)
	withTx(t, db, func(tx *gorm.DB) {
		svc := NewService(tx, zap.NewNop())
		_, err := svc.Register(context.Background(), registerInput("erin"))
		require.NoError(t, err)

		h := NewHandler(tx, svc)
		app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
		app.Post("/api/login", h.Login)
		app.Get("/api/me", RequireAuth(), h.Me)

		req := httptest.NewRequest("POST", "/api/login", strings.NewReader(`{"username":"erin","password":"wrong"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

		// no token, no profile
		req = httptest.NewRequest("GET", "/api/me", nil)
		resp, err = app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}
