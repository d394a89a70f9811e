package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yoockh/devconnector/internal/auth"
	"github.com/yoockh/devconnector/internal/models"
	pgrepo "github.com/yoockh/devconnector/internal/repositories/postgres"
	"github.com/yoockh/devconnector/internal/utils"
)

type TokenIssuer interface {
	Issue(id auth.Identity) (string, error)
}

type AuthService interface {
	// Register creates the account and returns a token for it.
	Register(ctx context.Context, name, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
}

type authService struct {
	users  pgrepo.UserRepository
	tokens TokenIssuer
}

func NewAuthService(users pgrepo.UserRepository, tokens TokenIssuer) AuthService {
	return &authService{users: users, tokens: tokens}
}

func (s *authService) Register(ctx context.Context, name, email, password string) (string, error) {
	const op = "AuthService.Register"

	email = strings.ToLower(strings.TrimSpace(email))
	exists := utils.Invalid(op, utils.FieldError{Msg: "User already exists", Param: "email", Location: "body"})

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return "", exists
	case !errors.Is(err, utils.ErrNotFound):
		return "", utils.E(utils.CodeInternal, op, "failed to look up user", err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return "", utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}

	u := &models.User{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Email:     email,
		Password:  hash,
		Avatar:    utils.GravatarURL(email),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return "", exists
		}
		return "", utils.E(utils.CodeInternal, op, "failed to create user", err)
	}

	return s.issue(op, u.ID)
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	const op = "AuthService.Login"

	invalid := utils.Invalid(op, utils.FieldError{Msg: "Invalid credentials"})

	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return "", invalid
		}
		return "", utils.E(utils.CodeInternal, op, "failed to look up user", err)
	}
	if err := utils.CheckPassword(u.Password, password); err != nil {
		return "", invalid
	}

	return s.issue(op, u.ID)
}

func (s *authService) issue(op, userID string) (string, error) {
	tok, err := s.tokens.Issue(auth.Identity{ID: userID})
	if err != nil {
		return "", utils.E(utils.CodeInternal, op, "failed to issue token", err)
	}
	return tok, nil
}
