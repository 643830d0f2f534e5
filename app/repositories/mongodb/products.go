package mongodb

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/pkg/metrics"
)

type photoDoc struct {
	Data        []byte `bson:"data"`
	ContentType string `bson:"contentType"`
}

type productDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Slug        string             `bson:"slug"`
	Description string             `bson:"description"`
	Price       float64            `bson:"price"`
	Category    primitive.ObjectID `bson:"category"`
	Quantity    int                `bson:"quantity"`
	Photo       *photoDoc          `bson:"photo,omitempty"`
	Shipping    bool               `bson:"shipping"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d productDoc) model() models.Product {
	p := models.Product{
		ID:          hexOf(d.ID),
		Name:        d.Name,
		Slug:        d.Slug,
		Description: d.Description,
		Price:       d.Price,
		CategoryID:  hexOf(d.Category),
		Quantity:    d.Quantity,
		Shipping:    d.Shipping,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.Photo != nil {
		p.Photo = d.Photo.Data
		p.PhotoContentType = d.Photo.ContentType
	}
	return p
}

var (
	withoutPhoto = bson.M{"photo": 0}
	newestFirst  = bson.D{{Key: "createdAt", Value: -1}}
)

type ProductRepository struct {
	coll       *mongo.Collection
	categories *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{
		coll:       db.Collection(productsCollection),
		categories: db.Collection(categoriesCollection),
	}
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	defer metrics.ObserveDBQuery("product.create", time.Now())

	cat, err := objectID(p.CategoryID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	doc := productDoc{
		ID:          primitive.NewObjectID(),
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		Category:    cat,
		Quantity:    p.Quantity,
		Shipping:    p.Shipping,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.HasPhoto() {
		doc.Photo = &photoDoc{Data: p.Photo, ContentType: p.PhotoContentType}
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongodb: insert product: %w", mapErr(err))
	}

	p.ID = doc.ID.Hex()
	p.CreatedAt, p.UpdatedAt = now, now
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, p *models.Product, replacePhoto bool) (*models.Product, error) {
	oid, err := objectID(p.ID)
	if err != nil {
		return nil, err
	}
	cat, err := objectID(p.CategoryID)
	if err != nil {
		return nil, err
	}

	set := bson.M{
		"name":        p.Name,
		"slug":        p.Slug,
		"description": p.Description,
		"price":       p.Price,
		"category":    cat,
		"quantity":    p.Quantity,
		"shipping":    p.Shipping,
		"updatedAt":   time.Now().UTC(),
	}
	if replacePhoto {
		set["photo"] = photoDoc{Data: p.Photo, ContentType: p.PhotoContentType}
	}

	var doc productDoc
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After).SetProjection(withoutPhoto),
	).Decode(&doc)
	if err != nil {
		return nil, mapErr(err)
	}

	out := doc.model()
	return &out, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	_, err = r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

func buildFilter(q repositories.ProductQuery) (bson.M, error) {
	filter := bson.M{}

	if len(q.CategoryIDs) > 0 {
		ids, err := objectIDs(q.CategoryIDs)
		if err != nil {
			return nil, err
		}
		filter["category"] = bson.M{"$in": ids}
	}
	if q.PriceRange != nil {
		filter["price"] = bson.M{"$gte": q.PriceRange[0], "$lte": q.PriceRange[1]}
	}
	if q.Keyword != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q.Keyword), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
		}
	}
	if q.ExcludeID != "" {
		oid, err := objectID(q.ExcludeID)
		if err != nil {
			return nil, err
		}
		filter["_id"] = bson.M{"$ne": oid}
	}
	return filter, nil
}

func (r *ProductRepository) Find(ctx context.Context, q repositories.ProductQuery) ([]models.Product, error) {
	defer metrics.ObserveDBQuery("product.find", time.Now())

	filter, err := buildFilter(q)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetProjection(withoutPhoto).SetSort(newestFirst)
	if q.Skip > 0 {
		opts.SetSkip(int64(q.Skip))
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, d.model())
	}

	if q.Populate {
		if err := r.populate(ctx, docs, products); err != nil {
			return nil, err
		}
	}
	return products, nil
}

func (r *ProductRepository) populate(ctx context.Context, docs []productDoc, products []models.Product) error {
	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.Category)
	}

	cats, err := categoriesByID(ctx, r.categories, ids)
	if err != nil {
		return fmt.Errorf("mongodb: populate categories: %w", err)
	}
	for i, d := range docs {
		products[i].Category = cats[d.Category]
	}
	return nil
}

func (r *ProductRepository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var doc productDoc
	err := r.coll.FindOne(ctx, bson.M{"slug": slug}, options.FindOne().SetProjection(withoutPhoto)).Decode(&doc)
	if err != nil {
		return nil, mapErr(err)
	}

	products := []models.Product{doc.model()}
	if err := r.populate(ctx, []productDoc{doc}, products); err != nil {
		return nil, err
	}
	return &products[0], nil
}

func (r *ProductRepository) Photo(ctx context.Context, id string) ([]byte, string, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, "", err
	}

	var doc productDoc
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}, options.FindOne().SetProjection(bson.M{"photo": 1})).Decode(&doc)
	if err != nil {
		return nil, "", mapErr(err)
	}
	if doc.Photo == nil {
		return nil, "", nil
	}
	return doc.Photo.Data, doc.Photo.ContentType, nil
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.EstimatedDocumentCount(ctx)
}

func (r *ProductRepository) All(ctx context.Context) ([]models.Product, error) {
	return r.Find(ctx, repositories.ProductQuery{Populate: true})
}

// productsByID loads products without photos for order population.
func productsByID(ctx context.Context, coll *mongo.Collection, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	out := make(map[primitive.ObjectID]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cur, err := coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetProjection(withoutPhoto))
	if err != nil {
		return nil, err
	}
	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, d := range docs {
		out[d.ID] = d.model()
	}
	return out, nil
}
