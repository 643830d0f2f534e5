package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/metrics"
)

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	Phone     string             `bson:"phone"`
	Address   interface{}        `bson:"address"`
	Answer    string             `bson:"answer"`
	Role      int                `bson:"role"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d userDoc) model() *models.User {
	return &models.User{
		ID:        hexOf(d.ID),
		Name:      d.Name,
		Email:     d.Email,
		Password:  d.Password,
		Phone:     d.Phone,
		Address:   rawJSON(d.Address),
		Answer:    d.Answer,
		Role:      d.Role,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	defer metrics.ObserveDBQuery("user.create", time.Now())

	address, err := jsonValue(u.Address)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	doc := userDoc{
		ID:        primitive.NewObjectID(),
		Name:      u.Name,
		Email:     u.Email,
		Password:  u.Password,
		Phone:     u.Phone,
		Address:   address,
		Answer:    u.Answer,
		Role:      u.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongodb: insert user: %w", mapErr(err))
	}

	u.ID = doc.ID.Hex()
	u.CreatedAt, u.UpdatedAt = now, now
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapErr(err)
	}
	return doc.model(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	defer metrics.ObserveDBQuery("user.find_by_email", time.Now())
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByEmailAndAnswer(ctx context.Context, email, answer string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email, "answer": answer})
}

func (r *UserRepository) Update(ctx context.Context, u *models.User) (*models.User, error) {
	oid, err := objectID(u.ID)
	if err != nil {
		return nil, err
	}
	address, err := jsonValue(u.Address)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{
		"name":      u.Name,
		"phone":     u.Phone,
		"address":   address,
		"password":  u.Password,
		"role":      u.Role,
		"updatedAt": time.Now().UTC(),
	}}

	var doc userDoc
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, mapErr(err)
	}
	return doc.model(), nil
}

func (r *UserRepository) All(ctx context.Context) ([]models.User, error) {
	cur, err := r.coll.Find(ctx, bson.M{},
		options.Find().SetProjection(bson.M{"password": 0, "answer": 0}).SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}

	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, *d.model())
	}
	return users, nil
}

// usersByID loads id and name of the given users for order population.
func usersByID(ctx context.Context, coll *mongo.Collection, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	out := make(map[primitive.ObjectID]*models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cur, err := coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetProjection(bson.M{"name": 1}))
	if err != nil {
		return nil, err
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, d := range docs {
		out[d.ID] = d.model()
	}
	return out, nil
}
