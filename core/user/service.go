package user

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/KB1707/CramJam/core"
)

var (
	// errors
	ErrNotFound           = errors.New("user not found")
	ErrUserExists         = errors.New("User already exists!")
	ErrInvalidCredentials = errors.New("Invalid username or password!")
)

type (
	// Repository is the user directory storage.
	// Usernames are unique: CreateUser returns ErrUserExists for a taken one.
	// Lookups return ErrNotFound.
	Repository interface {
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByUsername(ctx context.Context, username string) (User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
	}

	Service interface {
		// FindUser succeeds iff username exists and password matches it.
		FindUser(ctx context.Context, username, password string) (User, error)
		// AddUser registers a new user. nu must have been validated.
		AddUser(ctx context.Context, nu NewUser) (User, error)
		GetByID(ctx context.Context, id string) (User, error)
		GetByUsername(ctx context.Context, username string) (User, error)
		UpdateProfile(ctx context.Context, id string, profile Profile) (User, error)
		SetPassword(ctx context.Context, username, password string) error
	}

	service struct {
		repo Repository
	}
)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) FindUser(ctx context.Context, username, password string) (User, error) {
	usr, err := svc.repo.GetUserByUsername(ctx, core.CleanString(username))
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if err = usr.CheckPassword(password); err != nil {
		return User{}, ErrInvalidCredentials
	}

	usr.LastLogin = time.Now().UTC()
	if usr, err = svc.repo.UpdateUser(ctx, usr); err != nil {
		return User{}, errors.Wrap(err, "updating last login")
	}
	return usr, nil
}

func (svc *service) AddUser(ctx context.Context, nu NewUser) (User, error) {
	usr := User{
		ID:        uuid.New().String(),
		Username:  core.CleanString(nu.Username),
		Profile:   nu.Profile.Clean(),
		CreatedAt: time.Now().UTC(),
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}

	usr, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		if errors.Cause(err) == ErrUserExists {
			return User{}, core.NewValidationError(ErrUserExists, core.FieldError{Field: "username", Error: ErrUserExists.Error()})
		}
		return User{}, err
	}
	return usr, nil
}

func (svc *service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *service) GetByUsername(ctx context.Context, username string) (User, error) {
	return svc.repo.GetUserByUsername(ctx, core.CleanString(username))
}

func (svc *service) UpdateProfile(ctx context.Context, id string, profile Profile) (User, error) {
	usr, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	usr.Profile = profile.Clean()
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *service) SetPassword(ctx context.Context, username, password string) error {
	usr, err := svc.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err = usr.SetPassword(password); err != nil {
		return err
	}
	_, err = svc.repo.UpdateUser(ctx, usr)
	return err
}
