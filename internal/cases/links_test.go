package cases

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cembalci/casedesk/pkg/apperr"
	"github.com/cembalci/casedesk/pkg/models"
)

func seedClient(t *testing.T, tx *gorm.DB, name, surname string) *models.Client {
	t.Helper()
	cl := models.Client{Name: name, Surname: surname}
	require.NoError(t, tx.Create(&cl).Error)
	return &cl
}

func Test_AddClient_IdempotentSingleRow(t *testing.T) {
	db := openTestDB(t)
	withTx(t, db, func(tx *gorm.DB) {
		svc := newSvc(tx)
		ctx := context.Background()

		cs := mustCreate(t, svc, "L-100")
		cl := seedClient(t, tx, "Ann", "Lee")

		require.NoError(t, svc.AddClient(ctx, cs.ID, cl.ID))
		// second add is a no-op, not an error
		require.NoError(t, svc.AddClient(ctx, cs.ID, cl.ID))

		var cnt int64
		require.NoError(t, tx.Model(&models.CaseClient{}).
			Where("case_id = ? AND client_id = ?", cs.ID, cl.ID).
			Count(&cnt).Error)
		require.EqualValues(t, 1, cnt)
	})
}

func Test_AddClient_UnknownIDsNotFound(t *testing.T) {
	db := openTestDB(t)
	withTx(t, db, func(tx *gorm.DB) {
		svc := newSvc(tx)
		ctx := context.Background()

		cs := mustCreate(t, svc, "L-200")
		cl := seedClient(t, tx, "Ben", "Kim")

		require.True(t, apperr.IsNotFound(svc.AddClient(ctx, uuid.New(), cl.ID)))
		require.True(t, apperr.IsNotFound(svc.AddClient(ctx, cs.ID, uuid.New())))

		var cnt int64
		require.NoError(t, tx.Model(&models.CaseClient{}).Count(&cnt).Error)
		require.EqualValues(t, 0, cnt)
	})
}

func Test_Links_VisibleFromBothDirections(t *testing.T) {
	db := openTestDB(t)
	withTx(t, db, func(tx *gorm.DB) {
		svc := newSvc(tx)
		ctx := context.Background()

		cs := mustCreate(t, svc, "L-300")
		other := mustCreate(t, svc, "L-301")
		ann := seedClient(t, tx, "Ann", "Lee")
		ben := seedClient(t, tx, "Ben", "Kim")

		require.NoError(t, svc.AddClient(ctx, cs.ID, ann.ID))
		require.NoError(t, svc.AddClient(ctx, cs.ID, ben.ID))
		require.NoError(t, svc.AddClient(ctx, other.ID, ann.ID))

		cls, err := svc.ClientsForCase(ctx, cs.ID)
		require.NoError(t, err)
		require.Len(t, cls, 2)
		require.Equal(t, ann.ID, cls[0].ID) // association order
		require.Equal(t, ben.ID, cls[1].ID)

		css, err := svc.CasesForClient(ctx, ann.ID)
		require.NoError(t, err)
		require.Len(t, css, 2)

		// removing drops the link from both directions
		require.NoError(t, svc.RemoveClient(ctx, cs.ID, ann.ID))

		cls, err = svc.ClientsForCase(ctx, cs.ID)
		require.NoError(t, err)
		require.Len(t, cls, 1)
		require.Equal(t, ben.ID, cls[0].ID)

		css, err = svc.CasesForClient(ctx, ann.ID)
		require.NoError(t, err)
		require.Len(t, css, 1)
		require.Equal(t, other.ID, css[0].ID)
	})
}

func Test_RemoveClient_AbsentPairNotFound(t *testing.T) {
	db := openTestDB(t)
	withTx(t, db, func(tx *gorm.DB) {
		svc := newSvc(tx)
		ctx := context.Background()

		cs := mustCreate(t, svc, "L-400")
		cl := seedClient(t, tx, "Cara", "Diaz")

		// never linked
		require.True(t, apperr.IsNotFound(svc.RemoveClient(ctx, cs.ID, cl.ID)))

		// linked, removed, removed again
		require.NoError(t, svc.AddClient(ctx, cs.ID, cl.ID))
		require.NoError(t, svc.RemoveClient(ctx, cs.ID, cl.ID))
		require.True(t, apperr.IsNotFound(svc.RemoveClient(ctx, cs.ID, cl.ID)))
	})
}

func Test_ClientsForCase_MissingAnchor(t *testing.T) {
	db := openTestDB(t)
	withTx(t, db, func(tx *gorm.DB) {
		svc := newSvc(tx)
		ctx := context.Background()

		_, err := svc.ClientsForCase(ctx, uuid.New())
		require.True(t, apperr.IsNotFound(err))

		_, err = svc.CasesForClient(ctx, uuid.New())
		require.True(t, apperr.IsNotFound(err))
	})
}
