package firestorerepos

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/KB1707/CramJam/core"
	"github.com/KB1707/CramJam/core/user"
)

const usersCollection = "users"

// Open starts a firebase app for conf.Firestore and returns its firestore client.
func Open(ctx context.Context, conf *core.Config) (*firestore.Client, error) {
	opts := make([]option.ClientOption, 0, 1)
	if conf.Firestore.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(conf.Firestore.CredentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: conf.Firestore.ProjectID}, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "initializing firebase")
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "opening firestore")
	}
	return client, nil
}

// userDoc is stored under the username as document id, which keeps usernames unique.
type userDoc struct {
	ID           string       `firestore:"id"`
	Username     string       `firestore:"username"`
	PasswordHash []byte       `firestore:"password_hash"`
	Profile      user.Profile `firestore:"profile"`
	CreatedAt    time.Time    `firestore:"created_at"`
	LastLogin    time.Time    `firestore:"last_login"`
}

func (d userDoc) user() user.User {
	return user.User{
		ID:           d.ID,
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		Profile:      d.Profile,
		CreatedAt:    d.CreatedAt.UTC(),
		LastLogin:    d.LastLogin.UTC(),
	}
}

type userRepository struct {
	coll *firestore.CollectionRef
}

func NewUserRepository(client *firestore.Client) user.Repository {
	return &userRepository{coll: client.Collection(usersCollection)}
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	_, err := repo.coll.Doc(usr.Username).Create(ctx, userDoc{
		ID:           usr.ID,
		Username:     usr.Username,
		PasswordHash: usr.PasswordHash,
		Profile:      usr.Profile,
		CreatedAt:    usr.CreatedAt,
		LastLogin:    usr.LastLogin,
	})
	if status.Code(err) == codes.AlreadyExists {
		return user.User{}, user.ErrUserExists
	}
	if err != nil {
		return user.User{}, errors.Wrap(err, "creating user")
	}
	return usr, nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	snaps, err := repo.coll.Where("id", "==", id).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return user.User{}, errors.Wrap(err, "querying user")
	}
	if len(snaps) == 0 {
		return user.User{}, user.ErrNotFound
	}
	var doc userDoc
	if err = snaps[0].DataTo(&doc); err != nil {
		return user.User{}, errors.Wrap(err, "decoding user")
	}
	return doc.user(), nil
}

func (repo *userRepository) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	if username == "" {
		return user.User{}, user.ErrNotFound
	}
	snap, err := repo.coll.Doc(username).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return user.User{}, user.ErrNotFound
	}
	if err != nil {
		return user.User{}, errors.Wrap(err, "getting user")
	}
	var doc userDoc
	if err = snap.DataTo(&doc); err != nil {
		return user.User{}, errors.Wrap(err, "decoding user")
	}
	return doc.user(), nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	if usr.Username == "" {
		return user.User{}, user.ErrNotFound
	}
	updates := []firestore.Update{
		{Path: "profile", Value: usr.Profile},
		{Path: "last_login", Value: usr.LastLogin},
	}
	if usr.PasswordHash != nil {
		updates = append(updates, firestore.Update{Path: "password_hash", Value: usr.PasswordHash})
	}
	_, err := repo.coll.Doc(usr.Username).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return user.User{}, user.ErrNotFound
	}
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	return repo.GetUserByUsername(ctx, usr.Username)
}
