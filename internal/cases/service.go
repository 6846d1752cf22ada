package cases

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cembalci/casedesk/pkg/apperr"
	"github.com/cembalci/casedesk/pkg/models"
	"github.com/cembalci/casedesk/pkg/utils"
	"github.com/cembalci/casedesk/pkg/validation"
)

/* ================================ Inputs ================================ */

type CreateCaseInput struct {
	CaseNumber  string `json:"case_number" validate:"required,casenum"`
	Title       string `json:"title" validate:"required,max=120"`
	Type        string `json:"type" validate:"required,oneof=civil criminal family corporate other"`
	Description string `json:"description" validate:"max=2000"`
}

// UpdateCaseInput uses pointer fields: nil means "leave unchanged".
// Status changes are checked against the case lifecycle.
type UpdateCaseInput struct {
	CaseNumber  *string `json:"case_number" validate:"omitempty,casenum"`
	Title       *string `json:"title" validate:"omitempty,max=120"`
	Type        *string `json:"type" validate:"omitempty,oneof=civil criminal family corporate other"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Status      *string `json:"status" validate:"omitempty,oneof=new active pending closed archived"`
}

/* ============================== Lifecycle =============================== */

// legalTransitions is the forward-only case lifecycle. PENDING may move
// back to ACTIVE; everything else only advances.
var legalTransitions = map[models.CaseStatus][]models.CaseStatus{
	models.CaseNew:     {models.CaseActive},
	models.CaseActive:  {models.CasePending, models.CaseClosed},
	models.CasePending: {models.CaseActive, models.CaseClosed},
	models.CaseClosed:  {models.CaseArchived},
}

func transitionAllowed(from, to models.CaseStatus) bool {
	if from == to {
		return true
	}
	for _, s := range legalTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

/* ================================ Service =============================== */

// Service owns case CRUD, the status lifecycle and the case/client
// association (links.go).
type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	return &Service{db: db, log: log}
}

// Create validates the input, pre-checks case number uniqueness and
// persists a new case with status NEW.
func (s *Service) Create(ctx context.Context, in CreateCaseInput) (*models.Case, error) {
	in.CaseNumber = strings.TrimSpace(in.CaseNumber)
	in.Title = strings.TrimSpace(in.Title)

	if errs, err := validation.Validate(in); err != nil {
		return nil, apperr.Internal(err)
	} else if errs != nil {
		return nil, apperr.ValidationMap(errs)
	}
	if err := s.checkNumberFree(ctx, in.CaseNumber, uuid.Nil); err != nil {
		return nil, err
	}

	cs := models.Case{
		CaseNumber:  in.CaseNumber,
		Title:       in.Title,
		Type:        models.CaseType(in.Type),
		Description: strings.TrimSpace(in.Description),
		Status:      models.CaseNew,
	}
	if err := s.db.WithContext(ctx).Create(&cs).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	s.log.Info("case created",
		zap.String("id", cs.ID.String()),
		zap.String("case_number", cs.CaseNumber))
	return &cs, nil
}

// Update applies only the supplied fields. A changed case number is
// re-checked for uniqueness; a changed status must be a legal transition.
// actor is recorded in the audit log for status changes (zero for the
// console).
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateCaseInput, actor uuid.UUID) (*models.Case, error) {
	if errs, err := validation.Validate(in); err != nil {
		return nil, apperr.Internal(err)
	} else if errs != nil {
		return nil, apperr.ValidationMap(errs)
	}

	var cs models.Case
	if err := s.db.WithContext(ctx).First(&cs, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("case")
		}
		return nil, apperr.Internal(err)
	}
	oldStatus := cs.Status

	if in.CaseNumber != nil {
		num := strings.TrimSpace(*in.CaseNumber)
		if num == "" {
			return nil, apperr.Validation("case_number", "This field is required")
		}
		if num != cs.CaseNumber {
			if err := s.checkNumberFree(ctx, num, cs.ID); err != nil {
				return nil, err
			}
		}
		cs.CaseNumber = num
	}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, apperr.Validation("title", "This field is required")
		}
		cs.Title = strings.TrimSpace(*in.Title)
	}
	if in.Type != nil {
		cs.Type = models.CaseType(*in.Type)
	}
	if in.Description != nil {
		cs.Description = strings.TrimSpace(*in.Description)
	}
	if in.Status != nil {
		next := models.CaseStatus(*in.Status)
		if !transitionAllowed(cs.Status, next) {
			return nil, apperr.Validation("status",
				"illegal transition "+string(cs.Status)+" -> "+string(next))
		}
		cs.Status = next
	}

	if err := s.db.WithContext(ctx).Save(&cs).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	if cs.Status != oldStatus {
		utils.LogCaseHistory(ctx, s.db, cs.ID, actor, "status_changed", oldStatus, cs.Status, "")
	}
	return &cs, nil
}

// Delete removes the case together with its hearings, documents and
// client associations in one transaction. Audit rows are kept.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cs models.Case
		if err := tx.First(&cs, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("case")
			}
			return apperr.Internal(err)
		}
		if err := tx.Where("case_id = ?", id).Delete(&models.Hearing{}).Error; err != nil {
			return apperr.Internal(err)
		}
		if err := tx.Where("case_id = ?", id).Delete(&models.Document{}).Error; err != nil {
			return apperr.Internal(err)
		}
		if err := tx.Where("case_id = ?", id).Delete(&models.CaseClient{}).Error; err != nil {
			return apperr.Internal(err)
		}
		if err := tx.Delete(&cs).Error; err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
	if err == nil {
		s.log.Info("case deleted", zap.String("id", id.String()))
	}
	return err
}

// Get returns the case with its hearings and documents preloaded in
// insertion order.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Case, error) {
	var cs models.Case
	err := s.db.WithContext(ctx).
		Preload("Hearings", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Documents", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&cs, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("case")
		}
		return nil, apperr.Internal(err)
	}
	if cs.Hearings == nil {
		cs.Hearings = []models.Hearing{}
	}
	if cs.Documents == nil {
		cs.Documents = []models.Document{}
	}
	return &cs, nil
}

// GetByNumber resolves a case by its unique case number.
func (s *Service) GetByNumber(ctx context.Context, number string) (*models.Case, error) {
	var cs models.Case
	err := s.db.WithContext(ctx).First(&cs, "case_number = ?", strings.TrimSpace(number)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("case")
		}
		return nil, apperr.Internal(err)
	}
	return &cs, nil
}

// List returns all cases in insertion order.
func (s *Service) List(ctx context.Context) ([]models.Case, error) {
	out := []models.Case{}
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

// FilterByStatus returns cases with the given status, insertion order.
func (s *Service) FilterByStatus(ctx context.Context, status models.CaseStatus) ([]models.Case, error) {
	out := []models.Case{}
	if err := s.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

// FilterByType returns cases of the given type, insertion order.
func (s *Service) FilterByType(ctx context.Context, t models.CaseType) ([]models.Case, error) {
	out := []models.Case{}
	if err := s.db.WithContext(ctx).
		Where("type = ?", t).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

// checkNumberFree pre-checks the unique case number constraint. exclude
// skips the case being updated.
func (s *Service) checkNumberFree(ctx context.Context, number string, exclude uuid.UUID) error {
	var cnt int64
	q := s.db.WithContext(ctx).Model(&models.Case{}).Where("case_number = ?", number)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	if err := q.Count(&cnt).Error; err != nil {
		return apperr.Internal(err)
	}
	if cnt > 0 {
		return apperr.Duplicate("case_number", "case number already exists")
	}
	return nil
}
