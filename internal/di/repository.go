package di

import (
	"go.uber.org/fx"

	"github.com/fithub/fithub-onboarding/internal/domain/dao"
	"github.com/fithub/fithub-onboarding/internal/domain/repository"
	"github.com/fithub/fithub-onboarding/internal/domain/repository/impl"
)

// RepositoryModule provides repository dependencies.
// Repositories delegate to the DAO layer for database operations.
var RepositoryModule = fx.Module("repository",
	fx.Provide(
		provideUserRepository,
		provideTrainerApplicationRepository,
	),
)

func provideUserRepository(userDAO dao.UserDAO) repository.UserRepository {
	return impl.NewUserRepository(userDAO)
}

func provideTrainerApplicationRepository(appDAO dao.TrainerApplicationDAO) repository.TrainerApplicationRepository {
	return impl.NewTrainerApplicationRepository(appDAO)
}
