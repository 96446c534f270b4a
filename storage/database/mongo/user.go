package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/KB1707/CramJam/core/user"
)

type userDoc struct {
	ID           string       `bson:"_id"`
	Username     string       `bson:"username"`
	PasswordHash []byte       `bson:"password_hash"`
	Profile      user.Profile `bson:"profile"`
	CreatedAt    time.Time    `bson:"created_at"`
	LastLogin    *time.Time   `bson:"last_login,omitempty"`
}

func toUserDoc(usr user.User) userDoc {
	doc := userDoc{
		ID:           usr.ID,
		Username:     usr.Username,
		PasswordHash: usr.PasswordHash,
		Profile:      usr.Profile,
		CreatedAt:    usr.CreatedAt,
	}
	if !usr.LastLogin.IsZero() {
		ll := usr.LastLogin
		doc.LastLogin = &ll
	}
	return doc
}

func (d userDoc) user() user.User {
	usr := user.User{
		ID:           d.ID,
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		Profile:      d.Profile,
		CreatedAt:    d.CreatedAt.UTC(),
	}
	if d.LastLogin != nil {
		usr.LastLogin = d.LastLogin.UTC()
	}
	return usr
}

type userRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) user.Repository {
	return &userRepository{coll: db.Collection(usersCollection)}
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	if _, err := repo.coll.InsertOne(ctx, toUserDoc(usr)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.User{}, user.ErrUserExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo *userRepository) findOne(ctx context.Context, filter bson.M) (user.User, error) {
	var doc userDoc
	err := repo.coll.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return user.User{}, user.ErrNotFound
	}
	if err != nil {
		return user.User{}, errors.Wrap(err, "finding user")
	}
	return doc.user(), nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	return repo.findOne(ctx, bson.M{"_id": id})
}

func (repo *userRepository) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	return repo.findOne(ctx, bson.M{"username": username})
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	set := bson.M{"profile": usr.Profile}
	if usr.PasswordHash != nil {
		set["password_hash"] = usr.PasswordHash
	}
	if !usr.LastLogin.IsZero() {
		set["last_login"] = usr.LastLogin
	}
	res, err := repo.coll.UpdateOne(ctx, bson.M{"_id": usr.ID}, bson.M{"$set": set})
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if res.MatchedCount == 0 {
		return user.User{}, user.ErrNotFound
	}
	return repo.GetUserByID(ctx, usr.ID)
}
