// Package mongo provides MongoDB-based DAO implementations.
package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fithub/fithub-onboarding/internal/domain/dao"
	"github.com/fithub/fithub-onboarding/internal/domain/dao/mongo/document"
)

// IDCounter hands out sequential uint IDs per collection so documents carry
// the same numeric identifiers as the SQL backends.
type IDCounter struct {
	collection *mongo.Collection
}

type counterDocument struct {
	ID    string `bson:"_id"`
	Value uint   `bson:"value"`
}

// NewIDCounter creates a new IDCounter backed by the "counters" collection.
func NewIDCounter(db *mongo.Database) *IDCounter {
	return &IDCounter{
		collection: db.Collection("counters"),
	}
}

// NextID returns the next available ID for a given collection.
// The $inc upsert is atomic on the server, so concurrent callers never share an ID.
func (c *IDCounter) NextID(ctx context.Context, collectionName string) (uint, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter counterDocument
	err := c.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": collectionName},
		bson.M{"$inc": bson.M{"value": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Value, nil
}

// EnsureIndexes creates the indexes the DAOs rely on. Unique indexes back the
// duplicate-email and one-trainer-per-application guarantees.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	users := db.Collection(document.UserDocument{}.CollectionName())
	_, err := users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "numeric_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys: bson.D{{Key: "trainer_application_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"trainer_application_id": bson.M{"$exists": true}}),
		},
	})
	if err != nil {
		return err
	}

	apps := db.Collection(document.TrainerApplicationDocument{}.CollectionName())
	_, err = apps.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "numeric_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}, {Key: "applied_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "applied_at", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "activation_dispatched_at", Value: 1}}},
	})
	return err
}

// baseMongoDAO provides common MongoDB operations for all entity DAOs.
type baseMongoDAO struct {
	collection *mongo.Collection
	idCounter  *IDCounter
}

func newBaseMongoDAO(db *mongo.Database, collectionName string, idCounter *IDCounter) *baseMongoDAO {
	return &baseMongoDAO{
		collection: db.Collection(collectionName),
		idCounter:  idCounter,
	}
}

func (d *baseMongoDAO) nextID(ctx context.Context) (uint, error) {
	return d.idCounter.NextID(ctx, d.collection.Name())
}

func notDeletedFilter() bson.M {
	return bson.M{"deleted_at": nil}
}

func withNotDeleted(filter bson.M) bson.M {
	filter["deleted_at"] = nil
	return filter
}

func (d *baseMongoDAO) count(ctx context.Context, filter bson.M) (int64, error) {
	return d.collection.CountDocuments(ctx, filter)
}

// findOne decodes the first match into result and reports whether one existed.
func (d *baseMongoDAO) findOne(ctx context.Context, filter bson.M, result any, opts ...*options.FindOneOptions) (bool, error) {
	err := d.collection.FindOne(ctx, filter, opts...).Decode(result)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (d *baseMongoDAO) findMany(ctx context.Context, filter bson.M, opts *options.FindOptions, results any) error {
	cursor, err := d.collection.Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, results)
}

func (d *baseMongoDAO) insertOne(ctx context.Context, doc any) error {
	_, err := d.collection.InsertOne(ctx, doc)
	return translate(err)
}

// updateOne reports whether a document matched the filter.
func (d *baseMongoDAO) updateOne(ctx context.Context, filter bson.M, update bson.M) (bool, error) {
	res, err := d.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, translate(err)
	}
	return res.MatchedCount > 0, nil
}

// pageOptions mirrors the SQL paginate scope; non-positive values select everything.
func pageOptions(page, size int) *options.FindOptions {
	opts := options.Find()
	if page > 0 && size > 0 {
		opts.SetSkip(int64((page - 1) * size)).SetLimit(int64(size))
	}
	return opts
}

func translate(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return dao.ErrDuplicateKey
	}
	return err
}
