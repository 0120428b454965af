// Package auth содержит бизнес-логику регистрации, входа и разрешения сессии по токену.
package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/magabrotheeeer/course-hub/internal/lib/apperr"
	"github.com/magabrotheeeer/course-hub/internal/lib/jwt"
	"github.com/magabrotheeeer/course-hub/internal/lib/password"
	"github.com/magabrotheeeer/course-hub/internal/models"
	"github.com/magabrotheeeer/course-hub/internal/storage/repository"
)

// Сообщения об ошибках, которые видит клиент.
const (
	MsgSignupFieldsRequired = "Please provide name, email, and password"
	MsgLoginFieldsRequired  = "Please provide email and password"
	MsgInvalidEmail         = "Please provide a valid email address"
	MsgEmailTaken           = "User with this email already exists"
	MsgInvalidCredentials   = "Invalid email or password"
	MsgNoToken              = "Not authorized, no token provided"
	MsgInvalidToken         = "Not authorized, invalid token"
	MsgExpiredToken         = "Not authorized, token expired"
	MsgUserNotFound         = "User not found"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UserRepository описывает контракт хранилища пользователей.
type UserRepository interface {
	// CreateUser сохраняет пользователя; повтор email возвращает repository.ErrAlreadyExists.
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	// GetUserByEmail возвращает пользователя или repository.ErrNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserByID возвращает пользователя или repository.ErrNotFound.
	GetUserByID(ctx context.Context, userUID string) (*models.User, error)
}

// Metrics учёт попыток регистрации и входа.
type Metrics interface {
	AuthAttempt(action string, success bool)
}

// AuthService отвечает за регистрацию, вход и проверку токенов.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	metrics  Metrics
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, metrics Metrics) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		metrics:  metrics,
	}
}

// NormalizeEmail приводит email к виду, в котором он хранится и ищется.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup регистрирует пользователя и возвращает его вместе с токеном.
func (s *AuthService) Signup(ctx context.Context, name, email, rawPassword string) (*models.User, string, error) {
	const op = "auth.Signup"

	user, token, err := s.signup(ctx, name, email, rawPassword)
	s.metrics.AuthAttempt("signup", err == nil)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return user, token, nil
}

func (s *AuthService) signup(ctx context.Context, name, email, rawPassword string) (*models.User, string, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" || email == "" || rawPassword == "" {
		return nil, "", apperr.New(apperr.Invalid, MsgSignupFieldsRequired)
	}
	if !emailPattern.MatchString(email) {
		return nil, "", apperr.New(apperr.Invalid, MsgInvalidEmail)
	}
	if err := password.CheckStrength(rawPassword); err != nil {
		return nil, "", apperr.Wrap(apperr.Invalid, err.Error(), err)
	}

	_, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, "", apperr.New(apperr.Conflict, MsgEmailTaken)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, "", err
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, "", err
	}

	user, err := s.users.CreateUser(ctx, models.User{
		Email:        email,
		Name:         name,
		PasswordHash: hashed,
	})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, "", apperr.Wrap(apperr.Conflict, MsgEmailTaken, err)
		}
		return nil, "", err
	}

	token, err := s.jwtMaker.GenerateToken(user.UUID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login проверяет email и пароль и выдаёт токен.
// Неизвестный email и неверный пароль неразличимы для клиента.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (*models.User, string, error) {
	const op = "auth.Login"

	user, token, err := s.login(ctx, email, rawPassword)
	s.metrics.AuthAttempt("login", err == nil)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return user, token, nil
}

func (s *AuthService) login(ctx context.Context, email, rawPassword string) (*models.User, string, error) {
	email = NormalizeEmail(email)
	if email == "" || rawPassword == "" {
		return nil, "", apperr.New(apperr.Invalid, MsgLoginFieldsRequired)
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", apperr.Wrap(apperr.Unauthenticated, MsgInvalidCredentials, err)
		}
		return nil, "", err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, "", apperr.Wrap(apperr.Unauthenticated, MsgInvalidCredentials, err)
	}

	token, err := s.jwtMaker.GenerateToken(user.UUID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ResolveToken проверяет токен и возвращает пользователя, которому он выдан.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (*models.User, error) {
	const op = "auth.ResolveToken"

	if strings.TrimSpace(token) == "" {
		return nil, apperr.New(apperr.Unauthenticated, MsgNoToken)
	}
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return nil, apperr.Wrap(apperr.Unauthenticated, MsgExpiredToken, err)
		}
		return nil, apperr.Wrap(apperr.Unauthenticated, MsgInvalidToken, err)
	}

	user, err := s.users.GetUserByID(ctx, claims.UserUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Wrap(apperr.Unauthenticated, MsgUserNotFound, err)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// GetUser перечитывает пользователя из хранилища.
func (s *AuthService) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "auth.GetUser"

	user, err := s.users.GetUserByID(ctx, userUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Wrap(apperr.NotFound, MsgUserNotFound, err)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}
