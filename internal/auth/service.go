package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/cembalci/casedesk/pkg/apperr"
	"github.com/cembalci/casedesk/pkg/models"
	"github.com/cembalci/casedesk/pkg/validation"
)

/* ================================ Inputs ================================ */

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=40"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Email    string `json:"email" validate:"required,email,max=120"`
	Name     string `json:"name" validate:"max=80"`
	Surname  string `json:"surname" validate:"max=80"`
	Role     string `json:"role" validate:"required,oneof=admin lawyer assistant judge client"`
}

// Session is the state a successful login hands back to the caller. It is
// an explicit value, not process-global state: the console holds one per
// run, the HTTP layer encodes it as the JWT.
type Session struct {
	User     *models.User
	Token    string
	IssuedAt time.Time
}

/* ================================ Service =============================== */

// Service owns user registration and credential checks.
type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	return &Service{db: db, log: log}
}

// Register validates the input, pre-checks username and email uniqueness
// and stores the user with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if errs, err := validation.Validate(in); err != nil {
		return nil, apperr.Internal(err)
	} else if errs != nil {
		return nil, apperr.ValidationMap(errs)
	}

	var cnt int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ?", in.Username).Count(&cnt).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	if cnt > 0 {
		return nil, apperr.Duplicate("username", "username already exists")
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", in.Email).Count(&cnt).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	if cnt > 0 {
		return nil, apperr.Duplicate("email", "email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	u := models.User{
		Username:     in.Username,
		PasswordHash: string(hash),
		Email:        in.Email,
		Name:         strings.TrimSpace(in.Name),
		Surname:      strings.TrimSpace(in.Surname),
		Role:         models.Role(in.Role),
		Enabled:      true,
	}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	s.log.Info("user registered", zap.String("username", u.Username))
	return &u, nil
}

// Login checks the credentials and returns a fresh session. Unknown
// username, wrong password and disabled account all answer the same way
// so accounts cannot be enumerated.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	username = strings.ToLower(strings.TrimSpace(username))

	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Validation("credentials", "invalid username or password")
		}
		return nil, apperr.Internal(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, apperr.Validation("credentials", "invalid username or password")
	}
	if !u.Enabled {
		return nil, apperr.Validation("credentials", "invalid username or password")
	}

	token, err := IssueToken(u.ID.String(), string(u.Role))
	if err != nil {
		return nil, apperr.Internal(err)
	}
	s.log.Info("user logged in", zap.String("username", u.Username))
	return &Session{User: &u, Token: token, IssuedAt: time.Now()}, nil
}

// Logout clears the session value.
func (s *Service) Logout(sess *Session) {
	if sess == nil {
		return
	}
	sess.User = nil
	sess.Token = ""
}
