package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"memeboard/internal/apperror"
	"memeboard/internal/models"
	"memeboard/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	forgetPasswordPrefix = "forget-password:"
	resetTokenTTL        = 3 * 24 * time.Hour
)

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserService struct {
	db         *gorm.DB
	tokens     *utils.GlobalCache
	mailer     Mailer
	corsOrigin string
}

func NewUserService(conn *gorm.DB, tokens *utils.GlobalCache, mailer Mailer, corsOrigin string) *UserService {
	return &UserService{db: conn, tokens: tokens, mailer: mailer, corsOrigin: corsOrigin}
}

// ValidateRegister returns the first problem with the input, or nil.
func ValidateRegister(in RegisterInput) []apperror.FieldError {
	switch {
	case len(in.Username) < 3:
		return fieldErr("username", "username must contain at least 3 characters")
	case strings.Contains(in.Username, "@"):
		return fieldErr("username", "username cannot contain @")
	case !strings.Contains(in.Email, "@"):
		return fieldErr("email", "invalid email")
	case len(in.Password) < 6:
		return fieldErr("password", "password must contain at least 6 characters")
	}
	return nil
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, []apperror.FieldError, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if errs := ValidateRegister(in); errs != nil {
		return nil, errs, nil
	}

	tx := s.db.WithContext(ctx)
	taken, err := exists(tx, "username = ?", in.Username)
	if err != nil {
		return nil, nil, err
	}
	if taken {
		return nil, fieldErr("username", "username already taken"), nil
	}
	taken, err = exists(tx, "email = ?", in.Email)
	if err != nil {
		return nil, nil, err
	}
	if taken {
		return nil, fieldErr("email", "email already exists"), nil
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("hashing password: %w", err)
	}
	user := models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hash,
	}
	if err := tx.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fieldErr("username", "username already taken"), nil
		}
		return nil, nil, fmt.Errorf("creating user: %w", err)
	}
	return &user, nil, nil
}

// Login accepts either a username or an email; an "@" selects email.
func (s *UserService) Login(ctx context.Context, usernameOrEmail, password string) (*models.User, []apperror.FieldError, error) {
	column := "username = ?"
	if strings.Contains(usernameOrEmail, "@") {
		column = "email = ?"
	}

	var user models.User
	err := s.db.WithContext(ctx).Where(column, usernameOrEmail).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fieldErr("usernameOrEmail", "That username or email doesn't exist"), nil
	}
	if err != nil {
		return nil, nil, err
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, fieldErr("password", "Incorrect password"), nil
	}
	return &user, nil, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("user", id)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ForgotPassword mails a one-time reset link. Unknown emails succeed silently
// so the endpoint does not reveal which addresses are registered.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	token := uuid.NewString()
	s.tokens.Set(forgetPasswordPrefix+token, user.ID, resetTokenTTL)
	s.mailer.SendPasswordResetEmail(user.Email, fmt.Sprintf("%s/change-password/%s", s.corsOrigin, token))
	return nil
}

func (s *UserService) ChangePassword(ctx context.Context, token, newPassword string) (*models.User, []apperror.FieldError, error) {
	if len(newPassword) < 6 {
		return nil, fieldErr("newPassword", "new password must contain at least 6 characters"), nil
	}

	userID, ok := s.tokens.Take(forgetPasswordPrefix + token).(uint)
	if !ok {
		return nil, fieldErr("token", "token expired"), nil
	}

	user, err := s.Get(ctx, userID)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, fieldErr("token", "user no longer exists"), nil
	}
	if err != nil {
		return nil, nil, err
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return nil, nil, fmt.Errorf("hashing password: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(user).Update("password", hash).Error; err != nil {
		return nil, nil, err
	}
	return user, nil, nil
}

func exists(tx *gorm.DB, query string, arg any) (bool, error) {
	var count int64
	if err := tx.Model(&models.User{}).Where(query, arg).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func fieldErr(field, message string) []apperror.FieldError {
	return []apperror.FieldError{{Field: field, Message: message}}
}
