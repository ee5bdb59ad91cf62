package di

import (
	"os"

	"go.uber.org/fx"

	"github.com/fithub/fithub-onboarding/internal/config"
)

// ConfigFileEnv names an explicit config file, bypassing the search paths
const ConfigFileEnv = "FITHUB_CONFIG_FILE"

// ConfigModule provides configuration dependencies
var ConfigModule = fx.Module("config",
	fx.Provide(
		provideLoader,
		provideConfig,
		provideAppConfig,
		provideServerConfig,
		provideDatabaseConfig,
		provideRedisConfig,
		provideJWTConfig,
		provideGraphQLConfig,
	),
)

func provideLoader() *config.Loader {
	loader := config.NewLoader()
	if path := os.Getenv(ConfigFileEnv); path != "" {
		loader.SetConfigFile(path)
	}
	return loader
}

func provideConfig(loader *config.Loader) (*config.Config, error) {
	return loader.Load()
}

func provideAppConfig(cfg *config.Config) *config.AppConfig {
	return &cfg.App
}

func provideServerConfig(cfg *config.Config) *config.ServerConfig {
	return &cfg.Server
}

func provideDatabaseConfig(cfg *config.Config) *config.DatabaseConfig {
	return &cfg.Database
}

func provideRedisConfig(cfg *config.Config) *config.RedisConfig {
	return &cfg.Redis
}

func provideJWTConfig(cfg *config.Config) *config.JWTConfig {
	return &cfg.JWT
}

func provideGraphQLConfig(cfg *config.Config) *config.GraphQLConfig {
	return &cfg.GraphQL
}
