package command

import (
	"context"
	"fmt"
	"time"

	"github.com/deweycatalog/catalog/shared/cqrs"
	"github.com/deweycatalog/catalog/shared/models"
	"github.com/deweycatalog/catalog/shared/token"
	"github.com/deweycatalog/catalog/shared/utils"
)

type UserWriter interface {
	Create(ctx context.Context, user *models.User) error
}

// AuthCommandService creates accounts.
type AuthCommandService struct {
	users  UserWriter
	tokens *token.Manager
}

func NewAuthCommandService(users UserWriter, tokens *token.Manager) *AuthCommandService {
	return &AuthCommandService{users: users, tokens: tokens}
}

// Register stores a new user and returns a token for it. A taken username
// fails with apperr.ErrConflict and no token is issued.
func (s *AuthCommandService) Register(ctx context.Context, cmd cqrs.RegisterCommand) (*models.User, string, error) {
	hash, err := utils.HashPassword(cmd.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}
	user := &models.User{
		ID:           utils.GenerateID("usr"),
		Username:     cmd.Username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}
	tok, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, "", err
	}
	return user, tok, nil
}
