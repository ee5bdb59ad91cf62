package di

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fithub/fithub-onboarding/internal/config"
	mongodao "github.com/fithub/fithub-onboarding/internal/domain/dao/mongo"
	"github.com/fithub/fithub-onboarding/internal/domain/entity"
)

const (
	mongoConnectTimeout = 10 * time.Second
	mongoIndexTimeout   = 30 * time.Second
)

// SQLDatabase holds the gorm handle. DB is nil when MongoDB is the store.
type SQLDatabase struct {
	DB *gorm.DB
}

// MongoDatabase holds the mongo handles. Both are nil when a SQL store is
// configured.
type MongoDatabase struct {
	DB     *mongo.Database
	Client *mongo.Client
}

// Ping reports whether the configured store answers
func Ping(ctx context.Context, sqlDB *SQLDatabase, mongoDB *MongoDatabase) error {
	switch {
	case sqlDB.DB != nil:
		raw, err := sqlDB.DB.DB()
		if err != nil {
			return err
		}
		return raw.PingContext(ctx)
	case mongoDB.Client != nil:
		return mongoDB.Client.Ping(ctx, nil)
	default:
		return errors.New("no database configured")
	}
}

// DatabaseModule opens exactly one of the SQL or Mongo stores and prepares
// its schema.
var DatabaseModule = fx.Module("database",
	fx.Provide(
		provideSQLDatabase,
		provideMongoDatabase,
	),
	fx.Invoke(prepareSchema),
)

func dialectorFor(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	dsn := cfg.DSN()
	switch config.DatabaseDriver(cfg.Driver) {
	case config.DriverMySQL:
		return mysql.Open(dsn), nil
	case config.DriverPostgres:
		return postgres.Open(dsn), nil
	case config.DriverSQLite:
		return sqlite.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported SQL driver: %s", cfg.Driver)
}

func tunePool(raw *sql.DB, cfg *config.DatabaseConfig) {
	if config.DatabaseDriver(cfg.Driver) == config.DriverSQLite {
		// one writer, and ":memory:" is per connection
		raw.SetMaxOpenConns(1)
		return
	}
	raw.SetMaxOpenConns(cfg.MaxOpenConns)
	raw.SetMaxIdleConns(cfg.MaxIdleConns)
	raw.SetConnMaxLifetime(cfg.ConnMaxLifetime)
}

func provideSQLDatabase(lc fx.Lifecycle, cfg *config.DatabaseConfig, logger *zap.Logger) (*SQLDatabase, error) {
	if cfg.IsMongoDB() {
		return &SQLDatabase{}, nil
	}

	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	logger.Info("Opening application store",
		zap.String("driver", cfg.Driver),
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
	)

	// unique violations surface as gorm.ErrDuplicatedKey for the email and
	// activation constraints
	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Driver, err)
	}
	raw, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql handle: %w", err)
	}
	tunePool(raw, cfg)

	lc.Append(fx.StopHook(func() error {
		logger.Info("Closing application store")
		return raw.Close()
	}))
	return &SQLDatabase{DB: db}, nil
}

func provideMongoDatabase(lc fx.Lifecycle, cfg *config.DatabaseConfig, logger *zap.Logger) (*MongoDatabase, error) {
	if !cfg.IsMongoDB() {
		return &MongoDatabase{}, nil
	}

	logger.Info("Opening application store",
		zap.String("driver", cfg.Driver),
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Name),
	)

	ctx, cancel := context.WithTimeout(context.Background(), mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI()))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	lc.Append(fx.StopHook(func(ctx context.Context) error {
		logger.Info("Closing application store")
		return client.Disconnect(ctx)
	}))
	return &MongoDatabase{DB: client.Database(cfg.Name), Client: client}, nil
}

// prepareSchema migrates the SQL tables or builds the Mongo indexes. Both
// carry the unique constraints on email and trainer_application_id.
func prepareSchema(sqlDB *SQLDatabase, mongoDB *MongoDatabase, logger *zap.Logger) error {
	if sqlDB.DB != nil {
		logger.Info("Migrating users and trainer_applications")
		return sqlDB.DB.AutoMigrate(&entity.User{}, &entity.TrainerApplication{})
	}
	if mongoDB.DB == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), mongoIndexTimeout)
	defer cancel()
	if err := mongodao.EnsureIndexes(ctx, mongoDB.DB); err != nil {
		return fmt.Errorf("ensure mongo indexes: %w", err)
	}
	logger.Info("Mongo indexes ready")
	return nil
}
