package query

import (
	"context"
	"errors"

	"github.com/deweycatalog/catalog/shared/apperr"
	"github.com/deweycatalog/catalog/shared/cqrs"
	"github.com/deweycatalog/catalog/shared/models"
	"github.com/deweycatalog/catalog/shared/token"
	"github.com/deweycatalog/catalog/shared/utils"
)

type UserReader interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// AuthQueryService handles login and token refresh. Neither mutates state.
type AuthQueryService struct {
	users  UserReader
	tokens *token.Manager
}

func NewAuthQueryService(users UserReader, tokens *token.Manager) *AuthQueryService {
	return &AuthQueryService{users: users, tokens: tokens}
}

func (s *AuthQueryService) Login(ctx context.Context, cmd cqrs.LoginCommand) (string, error) {
	user, err := s.users.GetByUsername(ctx, cmd.Username)
	if errors.Is(err, apperr.ErrNotFound) {
		return "", apperr.Unauthorized("Invalid username or password")
	}
	if err != nil {
		return "", err
	}
	if !utils.CheckPassword(cmd.Password, user.PasswordHash) {
		return "", apperr.Unauthorized("Invalid username or password")
	}
	return s.tokens.Issue(user.ID, user.Username)
}

// RefreshToken exchanges a valid token for a fresh one, provided the user
// still exists.
func (s *AuthQueryService) RefreshToken(ctx context.Context, cmd cqrs.RefreshTokenCommand) (string, error) {
	identity, err := s.tokens.Verify(cmd.Token)
	if err != nil {
		return "", err
	}
	if !utils.ValidateUserID(identity.UserID) {
		return "", apperr.Unauthorized("Invalid token")
	}
	user, err := s.users.GetByID(ctx, identity.UserID)
	if errors.Is(err, apperr.ErrNotFound) {
		return "", apperr.Unauthorized("Invalid token")
	}
	if err != nil {
		return "", err
	}
	return s.tokens.Issue(user.ID, user.Username)
}
