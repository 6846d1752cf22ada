package hearings

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cembalci/casedesk/pkg/apperr"
	"github.com/cembalci/casedesk/pkg/models"
	"github.com/cembalci/casedesk/pkg/validation"
)

/* ================================ Inputs ================================ */

type CreateHearingInput struct {
	CaseID      uuid.UUID `json:"case_id"`
	HearingDate time.Time `json:"hearing_date"`
	Judge       string    `json:"judge" validate:"max=80"`
	Location    string    `json:"location" validate:"max=120"`
	Notes       string    `json:"notes" validate:"max=2000"`
}

// UpdateHearingInput uses pointer fields: nil means "leave unchanged".
type UpdateHearingInput struct {
	HearingDate *time.Time `json:"hearing_date"`
	Judge       *string    `json:"judge" validate:"omitempty,max=80"`
	Status      *string    `json:"status" validate:"omitempty,oneof=scheduled completed postponed cancelled"`
	Location    *string    `json:"location" validate:"omitempty,max=120"`
	Notes       *string    `json:"notes" validate:"omitempty,max=2000"`
}

/* ================================ Service =============================== */

// Service owns hearing CRUD. Hearing dates are persisted at second
// precision; anything finer is discarded on every write.
type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	return &Service{db: db, log: log}
}

// Create schedules a hearing for an existing case. A case id that does
// not resolve is a validation error, not a not-found: the caller supplied
// a bad reference.
func (s *Service) Create(ctx context.Context, in CreateHearingInput) (*models.Hearing, error) {
	if errs, err := validation.Validate(in); err != nil {
		return nil, apperr.Internal(err)
	} else if errs != nil {
		return nil, apperr.ValidationMap(errs)
	}
	if in.CaseID == uuid.Nil {
		return nil, apperr.Validation("case_id", "This field is required")
	}
	if in.HearingDate.IsZero() {
		return nil, apperr.Validation("hearing_date", "This field is required")
	}
	if err := s.caseExists(ctx, in.CaseID); err != nil {
		return nil, err
	}

	hr := models.Hearing{
		CaseID:      in.CaseID,
		HearingDate: in.HearingDate.Truncate(time.Second),
		Judge:       strings.TrimSpace(in.Judge),
		Status:      models.HearingScheduled,
		Location:    strings.TrimSpace(in.Location),
		Notes:       strings.TrimSpace(in.Notes),
	}
	if err := s.db.WithContext(ctx).Create(&hr).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	s.log.Info("hearing created",
		zap.String("id", hr.ID.String()),
		zap.String("case_id", hr.CaseID.String()))
	return &hr, nil
}

// Update applies only the supplied fields. Status changes are not
// constrained: a postponed hearing may be rescheduled or cancelled in any
// order.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateHearingInput) (*models.Hearing, error) {
	if errs, err := validation.Validate(in); err != nil {
		return nil, apperr.Internal(err)
	} else if errs != nil {
		return nil, apperr.ValidationMap(errs)
	}

	var hr models.Hearing
	if err := s.db.WithContext(ctx).First(&hr, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("hearing")
		}
		return nil, apperr.Internal(err)
	}

	if in.HearingDate != nil {
		if in.HearingDate.IsZero() {
			return nil, apperr.Validation("hearing_date", "This field is required")
		}
		hr.HearingDate = in.HearingDate.Truncate(time.Second)
	}
	if in.Judge != nil {
		hr.Judge = strings.TrimSpace(*in.Judge)
	}
	if in.Status != nil {
		hr.Status = models.HearingStatus(*in.Status)
	}
	if in.Location != nil {
		hr.Location = strings.TrimSpace(*in.Location)
	}
	if in.Notes != nil {
		hr.Notes = strings.TrimSpace(*in.Notes)
	}

	if err := s.db.WithContext(ctx).Save(&hr).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return &hr, nil
}

// Delete removes the hearing.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Hearing{})
	if res.Error != nil {
		return apperr.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("hearing")
	}
	return nil
}

// Get returns the hearing or the not-found sentinel.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Hearing, error) {
	var hr models.Hearing
	if err := s.db.WithContext(ctx).First(&hr, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("hearing")
		}
		return nil, apperr.Internal(err)
	}
	return &hr, nil
}

// ListByCase returns the case's hearings in insertion order.
func (s *Service) ListByCase(ctx context.Context, caseID uuid.UUID) ([]models.Hearing, error) {
	if err := s.caseFound(ctx, caseID); err != nil {
		return nil, err
	}
	out := []models.Hearing{}
	if err := s.db.WithContext(ctx).
		Where("case_id = ?", caseID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

// FilterByStatus returns all hearings with the given status.
func (s *Service) FilterByStatus(ctx context.Context, status models.HearingStatus) ([]models.Hearing, error) {
	out := []models.Hearing{}
	if err := s.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

// caseExists reports a missing case as a validation error (creation-time
// dangling reference).
func (s *Service) caseExists(ctx context.Context, caseID uuid.UUID) error {
	var cnt int64
	if err := s.db.WithContext(ctx).Model(&models.Case{}).
		Where("id = ?", caseID).Count(&cnt).Error; err != nil {
		return apperr.Internal(err)
	}
	if cnt == 0 {
		return apperr.Validation("case_id", "case not found")
	}
	return nil
}

// caseFound reports a missing case as not-found (read-time anchor).
func (s *Service) caseFound(ctx context.Context, caseID uuid.UUID) error {
	var cnt int64
	if err := s.db.WithContext(ctx).Model(&models.Case{}).
		Where("id = ?", caseID).Count(&cnt).Error; err != nil {
		return apperr.Internal(err)
	}
	if cnt == 0 {
		return apperr.NotFound("case")
	}
	return nil
}
