package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fithub/fithub-onboarding/internal/domain/dao"
	"github.com/fithub/fithub-onboarding/internal/domain/dao/mongo/document"
	"github.com/fithub/fithub-onboarding/internal/domain/dao/mongo/mapper"
	"github.com/fithub/fithub-onboarding/internal/domain/entity"
)

// trainerApplicationDAO implements dao.TrainerApplicationDAO using MongoDB.
type trainerApplicationDAO struct {
	*baseMongoDAO
	mapper *mapper.TrainerApplicationMapper
}

// NewTrainerApplicationDAO creates a new MongoDB-based TrainerApplicationDAO.
func NewTrainerApplicationDAO(db *mongo.Database, idCounter *IDCounter) dao.TrainerApplicationDAO {
	return &trainerApplicationDAO{
		baseMongoDAO: newBaseMongoDAO(db, document.TrainerApplicationDocument{}.CollectionName(), idCounter),
		mapper:       mapper.NewTrainerApplicationMapper(),
	}
}

func (d *trainerApplicationDAO) Create(ctx context.Context, app *entity.TrainerApplication) error {
	id, err := d.nextID(ctx)
	if err != nil {
		return err
	}
	now := time.Now()
	app.ID = id
	app.CreatedAt = now
	app.UpdatedAt = now

	return d.insertOne(ctx, d.mapper.ToDocument(app))
}

func (d *trainerApplicationDAO) FindByID(ctx context.Context, id uint) (*entity.TrainerApplication, error) {
	return d.findApplication(ctx, bson.M{"numeric_id": id})
}

func (d *trainerApplicationDAO) FindLatestByEmail(ctx context.Context, email string) (*entity.TrainerApplication, error) {
	opts := options.FindOne().SetSort(bson.D{
		{Key: "applied_at", Value: -1},
		{Key: "numeric_id", Value: -1},
	})
	return d.findApplication(ctx, bson.M{"email": email}, opts)
}

func (d *trainerApplicationDAO) ExistsPendingByEmail(ctx context.Context, email string) (bool, error) {
	n, err := d.count(ctx, bson.M{"email": email, "status": string(entity.ApplicationPending)})
	return n > 0, err
}

func (d *trainerApplicationDAO) List(ctx context.Context, filter dao.ApplicationFilter) ([]*entity.TrainerApplication, int64, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}

	total, err := d.count(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	dir := -1
	if filter.Ascending {
		dir = 1
	}
	opts := pageOptions(filter.Page, filter.Size).SetSort(bson.D{
		{Key: "applied_at", Value: dir},
		{Key: "numeric_id", Value: dir},
	})

	var docs []*document.TrainerApplicationDocument
	if err := d.findMany(ctx, query, opts, &docs); err != nil {
		return nil, 0, err
	}
	return d.mapper.ToEntities(docs), total, nil
}

// TransitionFromPending matches on status inside the FindOneAndUpdate filter,
// so the server applies at most one review per application.
func (d *trainerApplicationDAO) TransitionFromPending(ctx context.Context, id uint, review entity.Review) (*entity.TrainerApplication, bool, error) {
	set := bson.M{"updated_at": time.Now()}
	for col, v := range review.Columns() {
		if s, ok := v.(entity.ApplicationStatus); ok {
			v = string(s)
		}
		set[col] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc document.TrainerApplicationDocument
	err := d.collection.FindOneAndUpdate(ctx,
		bson.M{"numeric_id": id, "status": string(entity.ApplicationPending)},
		bson.M{"$set": set},
		opts,
	).Decode(&doc)
	if err == nil {
		return d.mapper.ToEntity(&doc), true, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, err
	}

	current, err := d.FindByID(ctx, id)
	return current, false, err
}

func (d *trainerApplicationDAO) FindAwaitingActivation(ctx context.Context, limit int) ([]*entity.TrainerApplication, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "reviewed_at", Value: 1},
		{Key: "numeric_id", Value: 1},
	})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	var docs []*document.TrainerApplicationDocument
	err := d.findMany(ctx, bson.M{
		"status":                   string(entity.ApplicationApproved),
		"activation_dispatched_at": nil,
	}, opts, &docs)
	if err != nil {
		return nil, err
	}
	return d.mapper.ToEntities(docs), nil
}

func (d *trainerApplicationDAO) MarkActivationDispatched(ctx context.Context, id uint, at time.Time) (bool, error) {
	return d.updateOne(ctx,
		bson.M{
			"numeric_id":               id,
			"status":                   string(entity.ApplicationApproved),
			"activation_dispatched_at": nil,
		},
		bson.M{"$set": bson.M{"activation_dispatched_at": at, "updated_at": time.Now()}},
	)
}

func (d *trainerApplicationDAO) SetTrainerUserID(ctx context.Context, id uint, userID uint) error {
	_, err := d.updateOne(ctx,
		bson.M{"numeric_id": id},
		bson.M{"$set": bson.M{"trainer_user_id": userID, "updated_at": time.Now()}},
	)
	return err
}

func (d *trainerApplicationDAO) CountByStatus(ctx context.Context) (map[entity.ApplicationStatus]int64, error) {
	cursor, err := d.collection.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Total  int64  `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := map[entity.ApplicationStatus]int64{
		entity.ApplicationPending:  0,
		entity.ApplicationApproved: 0,
		entity.ApplicationRejected: 0,
	}
	for _, r := range rows {
		counts[entity.ApplicationStatus(r.Status)] = r.Total
	}
	return counts, nil
}

func (d *trainerApplicationDAO) findApplication(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*entity.TrainerApplication, error) {
	var doc document.TrainerApplicationDocument
	found, err := d.findOne(ctx, filter, &doc, opts...)
	if err != nil || !found {
		return nil, err
	}
	return d.mapper.ToEntity(&doc), nil
}
