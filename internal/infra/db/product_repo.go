package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/small-engineer/go-product-serv/internal/domain"
)

const productsCollection = "products"

type ProductRepo struct {
	c *mongo.Collection
}

func NewProductRepo(database *mongo.Database) *ProductRepo {
	return &ProductRepo{
		c: database.Collection(productsCollection),
	}
}

type productDoc struct {
	ID    primitive.ObjectID `bson:"_id,omitempty"`
	Name  string             `bson:"name"`
	Price float64            `bson:"price"`
}

func (d productDoc) toDomain() domain.Product {
	return domain.Product{
		ID:    domain.ProductID(d.ID.Hex()),
		Name:  d.Name,
		Price: d.Price,
	}
}

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	res, err := r.c.InsertOne(ctx, productDoc{
		Name:  p.Name,
		Price: p.Price,
	})
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = domain.ProductID(id.Hex())
	}
	return nil
}

func (r *ProductRepo) ListAll(ctx context.Context) ([]domain.Product, error) {
	cur, err := r.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.Product
	for cur.Next(ctx) {
		var d productDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, d.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ProductRepo) UpdateByID(ctx context.Context, id domain.ProductID, name string, price float64) (*domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(string(id))
	if err != nil {
		// an unparseable id can never name a stored product
		return nil, nil
	}

	var d productDoc
	err = r.c.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"name": name, "price": price}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p := d.toDomain()
	return &p, nil
}

func (r *ProductRepo) DeleteByID(ctx context.Context, id domain.ProductID) (*domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(string(id))
	if err != nil {
		return nil, nil
	}

	var d productDoc
	err = r.c.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p := d.toDomain()
	return &p, nil
}
