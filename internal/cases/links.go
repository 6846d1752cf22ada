package cases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cembalci/casedesk/pkg/apperr"
	"github.com/cembalci/casedesk/pkg/models"
)

// Case/client association management. The case_clients join table is the
// only record of the relation; both directions are derived by querying it,
// so there is no cached list that could fall out of sync.

// AddClient associates a client with a case. Both ids must resolve.
// Adding an existing pair is a no-op: the join row is unique per pair and
// the whole operation runs in one transaction.
func (s *Service) AddClient(ctx context.Context, caseID, clientID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cs models.Case
		if err := tx.First(&cs, "id = ?", caseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("case")
			}
			return apperr.Internal(err)
		}
		var cl models.Client
		if err := tx.First(&cl, "id = ?", clientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("client")
			}
			return apperr.Internal(err)
		}

		var cnt int64
		if err := tx.Model(&models.CaseClient{}).
			Where("case_id = ? AND client_id = ?", caseID, clientID).
			Count(&cnt).Error; err != nil {
			return apperr.Internal(err)
		}
		if cnt > 0 {
			return nil // already associated
		}

		if err := tx.Create(&models.CaseClient{CaseID: caseID, ClientID: clientID}).Error; err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
	if err == nil {
		s.log.Info("client linked to case",
			zap.String("case_id", caseID.String()),
			zap.String("client_id", clientID.String()))
	}
	return err
}

// RemoveClient drops the association. A pair that was never associated is
// reported as not found.
func (s *Service) RemoveClient(ctx context.Context, caseID, clientID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("case_id = ? AND client_id = ?", caseID, clientID).
			Delete(&models.CaseClient{})
		if res.Error != nil {
			return apperr.Internal(res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("association")
		}
		return nil
	})
}

// ClientsForCase returns the clients associated with a case, in the order
// the associations were made.
func (s *Service) ClientsForCase(ctx context.Context, caseID uuid.UUID) ([]models.Client, error) {
	var cnt int64
	if err := s.db.WithContext(ctx).Model(&models.Case{}).
		Where("id = ?", caseID).Count(&cnt).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	if cnt == 0 {
		return nil, apperr.NotFound("case")
	}

	out := []models.Client{}
	if err := s.db.WithContext(ctx).
		Table("clients").
		Joins("JOIN case_clients ON case_clients.client_id = clients.id").
		Where("case_clients.case_id = ?", caseID).
		Order("case_clients.created_at ASC").
		Find(&out).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

// CasesForClient returns the cases a client is associated with, in the
// order the associations were made.
func (s *Service) CasesForClient(ctx context.Context, clientID uuid.UUID) ([]models.Case, error) {
	var cnt int64
	if err := s.db.WithContext(ctx).Model(&models.Client{}).
		Where("id = ?", clientID).Count(&cnt).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	if cnt == 0 {
		return nil, apperr.NotFound("client")
	}

	out := []models.Case{}
	if err := s.db.WithContext(ctx).
		Table("cases").
		Joins("JOIN case_clients ON case_clients.case_id = cases.id").
		Where("case_clients.client_id = ?", clientID).
		Order("case_clients.created_at ASC").
		Find(&out).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}
