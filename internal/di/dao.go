package di

import (
	"go.uber.org/fx"

	"github.com/fithub/fithub-onboarding/internal/domain/dao"
	gormdao "github.com/fithub/fithub-onboarding/internal/domain/dao/gorm"
	mongodao "github.com/fithub/fithub-onboarding/internal/domain/dao/mongo"
)

// DAOModule binds the user and application DAOs to whichever store
// DatabaseModule opened.
var DAOModule = fx.Module("dao",
	fx.Provide(
		provideMongoIDCounter,
		provideUserDAO,
		provideTrainerApplicationDAO,
	),
)

// provideMongoIDCounter is nil on SQL stores, where ids are autoincrement
func provideMongoIDCounter(mongoDB *MongoDatabase) *mongodao.IDCounter {
	if mongoDB.DB == nil {
		return nil
	}
	return mongodao.NewIDCounter(mongoDB.DB)
}

func provideUserDAO(sqlDB *SQLDatabase, mongoDB *MongoDatabase, ids *mongodao.IDCounter) dao.UserDAO {
	if mongoDB.DB != nil {
		return mongodao.NewUserDAO(mongoDB.DB, ids)
	}
	return gormdao.NewUserDAO(sqlDB.DB)
}

func provideTrainerApplicationDAO(sqlDB *SQLDatabase, mongoDB *MongoDatabase, ids *mongodao.IDCounter) dao.TrainerApplicationDAO {
	if mongoDB.DB != nil {
		return mongodao.NewTrainerApplicationDAO(mongoDB.DB, ids)
	}
	return gormdao.NewTrainerApplicationDAO(sqlDB.DB)
}
