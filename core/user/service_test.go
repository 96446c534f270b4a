package user_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KB1707/CramJam/core"
	"github.com/KB1707/CramJam/core/user"
	inmemdb "github.com/KB1707/CramJam/storage/database/inmem"
	testutil "github.com/KB1707/CramJam/tests"
)

func newService() user.Service {
	return user.NewService(inmemdb.NewUserRepository(inmemdb.Open()))
}

func TestService_AddUserTwice(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	usr, err := svc.AddUser(ctx, user.NewUser{Username: "ana", Password: "Pass1234"})
	require.NoError(t, err)
	assert.NotEmpty(t, usr.ID)
	assert.Equal(t, "ana", usr.Username)

	_, err = svc.AddUser(ctx, user.NewUser{Username: "ana", Password: "other-pass"})
	require.Error(t, err)
	assert.True(t, core.IsValidation(err))
	assert.Equal(t, user.ErrUserExists, errors.Cause(err).(*core.ValidationError).Err)
	assert.Equal(t, "User already exists!", err.Error())
}

func TestService_FindUser(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	testutil.CreateUser(t, svc, "ana", "Pass1234")

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "match", username: "ana", password: "Pass1234"},
		{name: "padded username", username: "  ana ", password: "Pass1234"},
		{name: "wrong password", username: "ana", password: "wrong", wantErr: user.ErrInvalidCredentials},
		{name: "unknown user", username: "bob", password: "Pass1234", wantErr: user.ErrInvalidCredentials},
		{name: "case matters", username: "ANA", password: "Pass1234", wantErr: user.ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usr, err := svc.FindUser(ctx, tt.username, tt.password)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "ana", usr.Username)
			assert.False(t, usr.LastLogin.IsZero())
		})
	}
}

func TestService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	usr := testutil.CreateUser(t, svc, "ana", "Pass1234")

	got, err := svc.UpdateProfile(ctx, usr.ID, user.Profile{Major: " Biology ", Interests: []string{"chess", " ", "jazz"}})
	require.NoError(t, err)
	assert.Equal(t, user.Profile{Major: "Biology", Interests: []string{"chess", "jazz"}}, got.Profile)

	_, err = svc.UpdateProfile(ctx, "missing", user.Profile{})
	assert.Equal(t, user.ErrNotFound, err)
}

func TestService_SetPassword(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	testutil.CreateUser(t, svc, "ana", "Pass1234")

	require.NoError(t, svc.SetPassword(ctx, "ana", "NewPass99"))
	_, err := svc.FindUser(ctx, "ana", "Pass1234")
	assert.Equal(t, user.ErrInvalidCredentials, err)
	_, err = svc.FindUser(ctx, "ana", "NewPass99")
	assert.NoError(t, err)

	assert.Equal(t, user.ErrNotFound, svc.SetPassword(ctx, "bob", "x"))
}
