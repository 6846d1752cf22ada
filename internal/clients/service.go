package clients

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

type CreateClientInput struct {
	Name    string `json:"name" validate:"required,max=80"`
	Surname string `json:"surname" validate:"required,max=80"`
	Email   string `json:"email" validate:"omitempty,email,max=120"`
	Phone   string `json:"phone" validate:"omitempty,digits"`
	Address string `json:"address" validate:"max=200"`
}

// UpdateClientInput uses pointer fields: nil means "leave unchanged".
type UpdateClientInput struct {
	Name    *string `json:"name" validate:"omitempty,max=80"`
	Surname *string `json:"surname" validate:"omitempty,max=80"`
	Email   *string `json:"email" validate:"omitempty,email,max=120"`
	Phone   *string `json:"phone" validate:"omitempty,digits"`
	Address *string `json:"address" validate:"omitempty,max=200"`
}

/* ================================ Service =============================== */

// Service owns client CRUD and validation. All lookups that miss return
// the not-found category; storage failures come back wrapped as internal.
type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	return &Service{db: db, log: log}
}

// Create validates the input, pre-checks email uniqueness and persists a
// new client.
func (s *Service) Create(ctx context.Context, in CreateClientInput) (*models.Client, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Surname = strings.TrimSpace(in.Surname)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)

	if errs, err := validation.Validate(in); err != nil {
		return nil, apperr.Internal(err)
	} else if errs != nil {
		return nil, apperr.ValidationMap(errs)
	}

	cl := models.Client{
		Name:    in.Name,
		Surname: in.Surname,
		Phone:   in.Phone,
		Address: strings.TrimSpace(in.Address),
	}
	if in.Email != "" {
		if err := s.checkEmailFree(ctx, in.Email, uuid.Nil); err != nil {
			return nil, err
		}
		cl.Email = &in.Email
	}

	if err := s.db.WithContext(ctx).Create(&cl).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	s.log.Info("client created", zap.String("id", cl.ID.String()))
	return &cl, nil
}

// Update applies only the fields that were supplied and re-checks email
// uniqueness when the email changes.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateClientInput) (*models.Client, error) {
	if errs, err := validation.Validate(in); err != nil {
		return nil, apperr.Internal(err)
	} else if errs != nil {
		return nil, apperr.ValidationMap(errs)
	}

	var cl models.Client
	if err := s.db.WithContext(ctx).First(&cl, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("client")
		}
		return nil, apperr.Internal(err)
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, apperr.Validation("name", "This field is required")
		}
		cl.Name = strings.TrimSpace(*in.Name)
	}
	if in.Surname != nil {
		if strings.TrimSpace(*in.Surname) == "" {
			return nil, apperr.Validation("surname", "This field is required")
		}
		cl.Surname = strings.TrimSpace(*in.Surname)
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email == "" {
			cl.Email = nil
		} else {
			if err := s.checkEmailFree(ctx, email, cl.ID); err != nil {
				return nil, err
			}
			cl.Email = &email
		}
	}
	if in.Phone != nil {
		cl.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Address != nil {
		cl.Address = strings.TrimSpace(*in.Address)
	}

	if err := s.db.WithContext(ctx).Save(&cl).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return &cl, nil
}

// Delete removes the client and its case associations in one transaction.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cl models.Client
		if err := tx.First(&cl, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("client")
			}
			return apperr.Internal(err)
		}
		if err := tx.Where("client_id = ?", id).Delete(&models.CaseClient{}).Error; err != nil {
			return apperr.Internal(err)
		}
		if err := tx.Delete(&cl).Error; err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
	if err == nil {
		s.log.Info("client deleted", zap.String("id", id.String()))
	}
	return err
}

// Get returns the client or the not-found sentinel.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	var cl models.Client
	if err := s.db.WithContext(ctx).First(&cl, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("client")
		}
		return nil, apperr.Internal(err)
	}
	return &cl, nil
}

// GetByEmail returns the client with the given email, if any.
func (s *Service) GetByEmail(ctx context.Context, email string) (*models.Client, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var cl models.Client
	if err := s.db.WithContext(ctx).First(&cl, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("client")
		}
		return nil, apperr.Internal(err)
	}
	return &cl, nil
}

// List returns all clients in insertion order.
func (s *Service) List(ctx context.Context) ([]models.Client, error) {
	out := []models.Client{}
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

// SearchByName matches name or surname, case-insensitively.
func (s *Service) SearchByName(ctx context.Context, q string) ([]models.Client, error) {
	q = strings.TrimSpace(q)
	out := []models.Client{}
	if q == "" {
		return s.List(ctx)
	}
	pat := "%" + q + "%"
	if err := s.db.WithContext(ctx).
		Where("name ILIKE ? OR surname ILIKE ?", pat, pat).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

// checkEmailFree pre-checks the unique email constraint so callers get a
// descriptive error instead of a raw constraint violation. exclude skips
// the client being updated.
func (s *Service) checkEmailFree(ctx context.Context, email string, exclude uuid.UUID) error {
	var cnt int64
	q := s.db.WithContext(ctx).Model(&models.Client{}).Where("email = ?", email)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	if err := q.Count(&cnt).Error; err != nil {
		return apperr.Internal(err)
	}
	if cnt > 0 {
		return apperr.Duplicate("email", "email already in use")
	}
	return nil
}
