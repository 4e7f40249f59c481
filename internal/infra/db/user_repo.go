package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/small-engineer/go-product-serv/internal/domain"
	"github.com/small-engineer/go-product-serv/internal/usecase/auth"
)

const usersCollection = "users"

type UserRepo struct {
	c *mongo.Collection
}

func NewUserRepo(database *mongo.Database) *UserRepo {
	return &UserRepo{
		c: database.Collection(usersCollection),
	}
}

type userDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Username string             `bson:"username"`
	Password string             `bson:"password"`
}

func (d userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:           domain.UserID(d.ID.Hex()),
		Username:     d.Username,
		PasswordHash: d.Password,
	}
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var d userDoc
	err := r.c.FindOne(ctx, bson.M{"username": username}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d.toDomain(), nil
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	res, err := r.c.InsertOne(ctx, userDoc{
		Username: u.Username,
		Password: u.PasswordHash,
	})
	if mongo.IsDuplicateKeyError(err) {
		return auth.ErrUserExists
	}
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = domain.UserID(id.Hex())
	}
	return nil
}
