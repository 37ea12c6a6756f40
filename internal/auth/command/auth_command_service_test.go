package command

import (
	"context"
	"testing"
	"time"

	"github.com/deweycatalog/catalog/shared/apperr"
	"github.com/deweycatalog/catalog/shared/cqrs"
	"github.com/deweycatalog/catalog/shared/models"
	"github.com/deweycatalog/catalog/shared/token"
	"github.com/deweycatalog/catalog/shared/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryUsers struct {
	byName map[string]*models.User
}

func (m *memoryUsers) Create(_ context.Context, user *models.User) error {
	if _, taken := m.byName[user.Username]; taken {
		return apperr.Conflict("Username %s is already taken", user.Username)
	}
	m.byName[user.Username] = user
	return nil
}

func TestRegisterHashesPasswordAndIssuesToken(t *testing.T) {
	users := &memoryUsers{byName: map[string]*models.User{}}
	tokens := token.NewManager("test-secret", time.Hour)
	svc := NewAuthCommandService(users, tokens)

	user, tok, err := svc.Register(context.Background(), cqrs.RegisterCommand{Username: "alice", Password: "correcthorse"})
	require.NoError(t, err)
	assert.True(t, utils.ValidateUserID(user.ID))
	assert.NotEqual(t, "correcthorse", user.PasswordHash)
	assert.True(t, utils.CheckPassword("correcthorse", users.byName["alice"].PasswordHash))

	identity, err := tokens.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.UserID)
}

func TestRegisterDuplicateIsConflictWithoutToken(t *testing.T) {
	users := &memoryUsers{byName: map[string]*models.User{"alice": {ID: "usr-0123456789", Username: "alice"}}}
	svc := NewAuthCommandService(users, token.NewManager("test-secret", time.Hour))

	user, tok, err := svc.Register(context.Background(), cqrs.RegisterCommand{Username: "alice", Password: "anotherpass"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Nil(t, user)
	assert.Empty(t, tok)
}
