package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/bazaar/app/models"
)

type categoryDoc struct {
	ID   primitive.ObjectID `bson:"_id,omitempty"`
	Name string             `bson:"name"`
	Slug string             `bson:"slug"`
}

func (d categoryDoc) model() *models.Category {
	return &models.Category{ID: hexOf(d.ID), Name: d.Name, Slug: d.Slug}
}

type CategoryRepository struct {
	coll *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{coll: db.Collection(categoriesCollection)}
}

// All lists categories alphabetically by name.
func (r *CategoryRepository) All(ctx context.Context) ([]models.Category, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}

	var docs []categoryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]models.Category, 0, len(docs))
	for _, d := range docs {
		out = append(out, *d.model())
	}
	return out, nil
}

func (r *CategoryRepository) findOne(ctx context.Context, filter bson.M) (*models.Category, error) {
	var doc categoryDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapErr(err)
	}
	return doc.model(), nil
}

func (r *CategoryRepository) FindByName(ctx context.Context, name string) (*models.Category, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	doc := categoryDoc{ID: primitive.NewObjectID(), Name: c.Name, Slug: c.Slug}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongodb: insert category: %w", mapErr(err))
	}
	c.ID = doc.ID.Hex()
	return nil
}

func (r *CategoryRepository) Update(ctx context.Context, id, name, slug string) (*models.Category, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc categoryDoc
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"name": name, "slug": slug}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, mapErr(err)
	}
	return doc.model(), nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	_, err = r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

// categoriesByID loads the given categories for product population.
func categoriesByID(ctx context.Context, coll *mongo.Collection, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Category, error) {
	out := make(map[primitive.ObjectID]*models.Category, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cur, err := coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var docs []categoryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, d := range docs {
		out[d.ID] = d.model()
	}
	return out, nil
}
