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

type orderDoc struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	Products  []primitive.ObjectID `bson:"products"`
	Payment   interface{}          `bson:"payment"`
	Buyer     primitive.ObjectID   `bson:"buyer"`
	Status    string               `bson:"status"`
	CreatedAt time.Time            `bson:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt"`
}

func (d orderDoc) model() models.Order {
	ids := make([]string, 0, len(d.Products))
	for _, p := range d.Products {
		ids = append(ids, p.Hex())
	}
	return models.Order{
		ID:         hexOf(d.ID),
		ProductIDs: ids,
		BuyerID:    hexOf(d.Buyer),
		Payment:    rawJSON(d.Payment),
		Status:     models.OrderStatus(d.Status),
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

type OrderRepository struct {
	coll     *mongo.Collection
	products *mongo.Collection
	users    *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{
		coll:     db.Collection(ordersCollection),
		products: db.Collection(productsCollection),
		users:    db.Collection(usersCollection),
	}
}

func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	defer metrics.ObserveDBQuery("order.create", time.Now())

	products, err := objectIDs(o.ProductIDs)
	if err != nil {
		return err
	}
	buyer, err := objectID(o.BuyerID)
	if err != nil {
		return err
	}
	payment, err := jsonValue(o.Payment)
	if err != nil {
		return err
	}
	if o.Status == "" {
		o.Status = models.StatusNotProcess
	}

	now := time.Now().UTC()
	doc := orderDoc{
		ID:        primitive.NewObjectID(),
		Products:  products,
		Payment:   payment,
		Buyer:     buyer,
		Status:    string(o.Status),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongodb: insert order: %w", mapErr(err))
	}

	o.ID = doc.ID.Hex()
	o.CreatedAt, o.UpdatedAt = now, now
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc orderDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mapErr(err)
	}
	o := doc.model()
	return &o, nil
}

func (r *OrderRepository) ByBuyer(ctx context.Context, buyerID string) ([]models.Order, error) {
	buyer, err := objectID(buyerID)
	if err != nil {
		return nil, err
	}
	return r.find(ctx, bson.M{"buyer": buyer})
}

func (r *OrderRepository) All(ctx context.Context) ([]models.Order, error) {
	return r.find(ctx, bson.M{})
}

func (r *OrderRepository) find(ctx context.Context, filter bson.M) ([]models.Order, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	var productIDs, buyerIDs []primitive.ObjectID
	for _, d := range docs {
		productIDs = append(productIDs, d.Products...)
		buyerIDs = append(buyerIDs, d.Buyer)
	}

	products, err := productsByID(ctx, r.products, productIDs)
	if err != nil {
		return nil, fmt.Errorf("mongodb: populate products: %w", err)
	}
	buyers, err := usersByID(ctx, r.users, buyerIDs)
	if err != nil {
		return nil, fmt.Errorf("mongodb: populate buyers: %w", err)
	}

	orders := make([]models.Order, 0, len(docs))
	for _, d := range docs {
		o := d.model()
		o.Products = make([]models.Product, 0, len(d.Products))
		for _, pid := range d.Products {
			// products deleted after checkout drop out of the populated list
			if p, ok := products[pid]; ok {
				o.Products = append(o.Products, p)
			}
		}
		o.Buyer = buyers[d.Buyer]
		orders = append(orders, o)
	}
	return orders, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc orderDoc
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"status": string(status), "updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, mapErr(err)
	}
	o := doc.model()
	return &o, nil
}
