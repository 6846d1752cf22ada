package documents

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cembalci/casedesk/pkg/apperr"
	"github.com/cembalci/casedesk/pkg/models"
	"github.com/cembalci/casedesk/pkg/validation"
)

/* ================================ Inputs ================================ */

type CreateDocumentInput struct {
	CaseID      uuid.UUID `json:"case_id"`
	Title       string    `json:"title" validate:"required,max=120"`
	Type        string    `json:"type" validate:"required,oneof=contract evidence petition court_order other"`
	ContentType string    `json:"content_type" validate:"max=100"`
	Content     string    `json:"content"`
}

// UpdateDocumentInput uses pointer fields: nil means "leave unchanged".
type UpdateDocumentInput struct {
	Title       *string `json:"title" validate:"omitempty,max=120"`
	Type        *string `json:"type" validate:"omitempty,oneof=contract evidence petition court_order other"`
	ContentType *string `json:"content_type" validate:"omitempty,max=100"`
	Content     *string `json:"content"`
}

/* ================================ Service =============================== */

// Service owns document CRUD.
type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	return &Service{db: db, log: log}
}

// Create attaches a document to an existing case. A case id that does not
// resolve is a validation error: the caller supplied a bad reference.
func (s *Service) Create(ctx context.Context, in CreateDocumentInput) (*models.Document, error) {
	in.Title = strings.TrimSpace(in.Title)

	if errs, err := validation.Validate(in); err != nil {
		return nil, apperr.Internal(err)
	} else if errs != nil {
		return nil, apperr.ValidationMap(errs)
	}
	if in.CaseID == uuid.Nil {
		return nil, apperr.Validation("case_id", "This field is required")
	}

	var cnt int64
	if err := s.db.WithContext(ctx).Model(&models.Case{}).
		Where("id = ?", in.CaseID).Count(&cnt).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	if cnt == 0 {
		return nil, apperr.Validation("case_id", "case not found")
	}

	doc := models.Document{
		CaseID:      in.CaseID,
		Title:       in.Title,
		Type:        models.DocumentType(in.Type),
		ContentType: strings.TrimSpace(in.ContentType),
		Content:     in.Content,
	}
	if err := s.db.WithContext(ctx).Create(&doc).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	s.log.Info("document created",
		zap.String("id", doc.ID.String()),
		zap.String("case_id", doc.CaseID.String()))
	return &doc, nil
}

// Update applies only the supplied fields.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateDocumentInput) (*models.Document, error) {
	if errs, err := validation.Validate(in); err != nil {
		return nil, apperr.Internal(err)
	} else if errs != nil {
		return nil, apperr.ValidationMap(errs)
	}

	var doc models.Document
	if err := s.db.WithContext(ctx).First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("document")
		}
		return nil, apperr.Internal(err)
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, apperr.Validation("title", "This field is required")
		}
		doc.Title = strings.TrimSpace(*in.Title)
	}
	if in.Type != nil {
		doc.Type = models.DocumentType(*in.Type)
	}
	if in.ContentType != nil {
		doc.ContentType = strings.TrimSpace(*in.ContentType)
	}
	if in.Content != nil {
		doc.Content = *in.Content
	}

	if err := s.db.WithContext(ctx).Save(&doc).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return &doc, nil
}

// Delete removes the document.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Document{})
	if res.Error != nil {
		return apperr.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("document")
	}
	return nil
}

// Get returns the document or the not-found sentinel.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	var doc models.Document
	if err := s.db.WithContext(ctx).First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("document")
		}
		return nil, apperr.Internal(err)
	}
	return &doc, nil
}

// ListByCase returns the case's documents in insertion order.
func (s *Service) ListByCase(ctx context.Context, caseID uuid.UUID) ([]models.Document, error) {
	var cnt int64
	if err := s.db.WithContext(ctx).Model(&models.Case{}).
		Where("id = ?", caseID).Count(&cnt).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	if cnt == 0 {
		return nil, apperr.NotFound("case")
	}

	out := []models.Document{}
	if err := s.db.WithContext(ctx).
		Where("case_id = ?", caseID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

// FilterByType returns all documents of the given type.
func (s *Service) FilterByType(ctx context.Context, t models.DocumentType) ([]models.Document, error) {
	out := []models.Document{}
	if err := s.db.WithContext(ctx).
		Where("type = ?", t).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}
