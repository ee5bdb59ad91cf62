package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fithub/fithub-onboarding/internal/domain/dao"
	"github.com/fithub/fithub-onboarding/internal/domain/dao/mongo/document"
	"github.com/fithub/fithub-onboarding/internal/domain/dao/mongo/mapper"
	"github.com/fithub/fithub-onboarding/internal/domain/entity"
)

// userDAO implements dao.UserDAO using MongoDB.
type userDAO struct {
	*baseMongoDAO
	mapper *mapper.UserMapper
}

// NewUserDAO creates a new MongoDB-based UserDAO.
func NewUserDAO(db *mongo.Database, idCounter *IDCounter) dao.UserDAO {
	return &userDAO{
		baseMongoDAO: newBaseMongoDAO(db, document.UserDocument{}.CollectionName(), idCounter),
		mapper:       mapper.NewUserMapper(),
	}
}

// Create inserts a new user. A taken email or application link yields dao.ErrDuplicateKey.
func (d *userDAO) Create(ctx context.Context, user *entity.User) error {
	id, err := d.nextID(ctx)
	if err != nil {
		return err
	}
	now := time.Now()
	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now

	return d.insertOne(ctx, d.mapper.ToDocument(user))
}

func (d *userDAO) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	return d.findUser(ctx, bson.M{"numeric_id": id})
}

func (d *userDAO) Update(ctx context.Context, user *entity.User) error {
	user.UpdatedAt = time.Now()
	_, err := d.updateOne(ctx,
		bson.M{"numeric_id": user.ID},
		bson.M{"$set": d.mapper.ToDocument(user)},
	)
	return err
}

// Delete performs a soft delete on a user.
func (d *userDAO) Delete(ctx context.Context, id uint) error {
	_, err := d.updateOne(ctx,
		bson.M{"numeric_id": id},
		bson.M{"$set": bson.M{"deleted_at": time.Now()}},
	)
	return err
}

// FindAll retrieves users with pagination, newest first.
func (d *userDAO) FindAll(ctx context.Context, page, size int) ([]*entity.User, int64, error) {
	filter := notDeletedFilter()

	total, err := d.count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := pageOptions(page, size).SetSort(bson.D{{Key: "numeric_id", Value: -1}})
	var docs []*document.UserDocument
	if err := d.findMany(ctx, filter, opts, &docs); err != nil {
		return nil, 0, err
	}
	return d.mapper.ToEntities(docs), total, nil
}

func (d *userDAO) Count(ctx context.Context) (int64, error) {
	return d.count(ctx, notDeletedFilter())
}

func (d *userDAO) ExistsBy(ctx context.Context, field string, value any) (bool, error) {
	n, err := d.count(ctx, withNotDeleted(bson.M{field: value}))
	return n > 0, err
}

func (d *userDAO) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return d.findUser(ctx, bson.M{"email": email})
}

func (d *userDAO) FindByTrainerApplicationID(ctx context.Context, applicationID uint) (*entity.User, error) {
	return d.findUser(ctx, bson.M{"trainer_application_id": applicationID})
}

func (d *userDAO) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return d.ExistsBy(ctx, "email", email)
}

func (d *userDAO) findUser(ctx context.Context, filter bson.M) (*entity.User, error) {
	var doc document.UserDocument
	found, err := d.findOne(ctx, withNotDeleted(filter), &doc)
	if err != nil || !found {
		return nil, err
	}
	return d.mapper.ToEntity(&doc), nil
}
