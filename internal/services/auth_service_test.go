package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/AnshRaj112/campsite/internal/models"
	"github.com/AnshRaj112/campsite/internal/services"
	"github.com/AnshRaj112/campsite/internal/services/servicestest"
	"github.com/AnshRaj112/campsite/pkg/utils"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newAuth(t *testing.T) (*services.AuthService, *servicestest.UserStore, *servicestest.ResetNotifier) {
	t.Helper()
	users := servicestest.NewUserStore()
	notifier := &servicestest.ResetNotifier{}
	svc := services.NewAuthService(services.AuthServiceConfig{
		Users:     users,
		Notifier:  notifier,
		AdminCode: "letmein",
		BaseURL:   "http://camp.test/",
		Logger:    zerolog.Nop(),
	})
	return svc, users, notifier
}

func TestRegisterAndLogin(t *testing.T) {
	svc, users, _ := newAuth(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, services.RegisterInput{
		Username: "alice", Email: "Alice@Example.com", Password: "hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, models.DefaultAvatar, user.Avatar)
	assert.False(t, user.IsAdmin)

	stored, err := users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NotContains(t, stored.PasswordHash, "hunter22")
	assert.True(t, strings.HasPrefix(stored.PasswordHash, "$argon2id$"))

	got, err := svc.Login(ctx, "alice", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody", "hunter22")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestRegister_Duplicate(t *testing.T) {
	svc, _, _ := newAuth(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, services.RegisterInput{Username: "alice", Email: "a@example.com", Password: "hunter22"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, services.RegisterInput{Username: "alice", Email: "other@example.com", Password: "hunter22"})
	assert.ErrorIs(t, err, services.ErrUserAlreadyExists)
	_, err = svc.Register(ctx, services.RegisterInput{Username: "alice2", Email: "A@example.com", Password: "hunter22"})
	assert.ErrorIs(t, err, services.ErrUserAlreadyExists)
}

func TestRegister_Validation(t *testing.T) {
	svc, _, _ := newAuth(t)

	tests := []struct {
		in    services.RegisterInput
		field string
	}{
		{services.RegisterInput{Username: "a", Email: "a@example.com", Password: "hunter22"}, "username"},
		{services.RegisterInput{Username: "alice", Email: "not-an-email", Password: "hunter22"}, "email"},
		{services.RegisterInput{Username: "alice", Email: "a@example.com", Password: "123"}, "password"},
		{services.RegisterInput{Username: "alice", Email: "a@example.com", Password: "hunter22", Avatar: "nope"}, "avatar"},
	}
	for _, tc := range tests {
		_, err := svc.Register(context.Background(), tc.in)
		var verr *utils.ValidationError
		require.ErrorAs(t, err, &verr, tc.field)
		assert.Equal(t, tc.field, verr.Field)
	}
}

func TestRegister_AdminCode(t *testing.T) {
	svc, _, _ := newAuth(t)
	ctx := context.Background()

	admin, err := svc.Register(ctx, services.RegisterInput{Username: "ranger", Email: "r@example.com", Password: "hunter22", AdminCode: "letmein"})
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)

	user, err := svc.Register(ctx, services.RegisterInput{Username: "eve", Email: "e@example.com", Password: "hunter22", AdminCode: "guess"})
	require.NoError(t, err)
	assert.False(t, user.IsAdmin)
}

func TestCurrentUser(t *testing.T) {
	svc, _, _ := newAuth(t)
	ctx := context.Background()
	user, err := svc.Register(ctx, services.RegisterInput{Username: "alice", Email: "a@example.com", Password: "hunter22"})
	require.NoError(t, err)

	got, err := svc.CurrentUser(ctx, user.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	for _, id := range []string{"", "garbage", primitive.NewObjectID().Hex()} {
		got, err = svc.CurrentUser(ctx, id)
		assert.NoError(t, err)
		assert.Nil(t, got)
	}
}

func TestPasswordReset(t *testing.T) {
	svc, users, notifier := newAuth(t)
	ctx := context.Background()
	user, err := svc.Register(ctx, services.RegisterInput{Username: "alice", Email: "a@example.com", Password: "hunter22"})
	require.NoError(t, err)

	require.NoError(t, svc.RequestPasswordReset(ctx, "nobody@example.com"))
	assert.Zero(t, notifier.Sent)

	require.NoError(t, svc.RequestPasswordReset(ctx, "A@example.com"))
	require.Equal(t, 1, notifier.Sent)
	assert.Equal(t, "a@example.com", notifier.Email)
	require.True(t, strings.HasPrefix(notifier.Link, "http://camp.test/reset/"))
	token := strings.TrimPrefix(notifier.Link, "http://camp.test/reset/")

	_, err = svc.ResetPassword(ctx, token, "newpass1", "different")
	assert.ErrorIs(t, err, services.ErrPasswordMismatch)

	_, err = svc.ResetPassword(ctx, token, "newpass1", "newpass1")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice", "hunter22")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "alice", "newpass1")
	assert.NoError(t, err)

	// tokens are single use
	_, err = svc.CheckResetToken(ctx, token)
	assert.ErrorIs(t, err, services.ErrResetTokenInvalid)

	stored, _ := users.GetByID(ctx, user.ID)
	assert.Empty(t, stored.ResetPasswordToken)
	assert.Nil(t, stored.ResetPasswordExpires)
}

func TestPasswordReset_Expired(t *testing.T) {
	svc, users, _ := newAuth(t)
	ctx := context.Background()
	user, err := svc.Register(ctx, services.RegisterInput{Username: "alice", Email: "a@example.com", Password: "hunter22"})
	require.NoError(t, err)

	expired := time.Now().Add(-time.Minute)
	user.ResetPasswordToken = "stale"
	user.ResetPasswordExpires = &expired
	require.NoError(t, users.Update(ctx, user))

	_, err = svc.CheckResetToken(ctx, "stale")
	assert.ErrorIs(t, err, services.ErrResetTokenInvalid)
	_, err = svc.CheckResetToken(ctx, "")
	assert.ErrorIs(t, err, services.ErrResetTokenInvalid)
}

func TestIsOwnerOrAdmin(t *testing.T) {
	alice := newUser("alice")
	bob := newUser("bob")
	admin := newUser("ranger")
	admin.IsAdmin = true

	assert.True(t, services.IsOwnerOrAdmin(alice, alice.ID))
	assert.False(t, services.IsOwnerOrAdmin(bob, alice.ID))
	assert.True(t, services.IsOwnerOrAdmin(admin, alice.ID))
	assert.False(t, services.IsOwnerOrAdmin(nil, alice.ID))
}
