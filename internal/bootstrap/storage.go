package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	appMigrations "github.com/yigit/gradesheet/internal/app/migrations"
	appRepos "github.com/yigit/gradesheet/internal/app/repositories"
	"github.com/yigit/gradesheet/internal/app/repositories/memory"
	"github.com/yigit/gradesheet/internal/app/repositories/mongorepo"
	appServices "github.com/yigit/gradesheet/internal/app/services"
	"github.com/yigit/gradesheet/internal/config"
	"github.com/yigit/gradesheet/internal/db"
)

// Storage is the storage backend selected by database.driver
type Storage struct {
	Driver   string
	Students appServices.StudentStore
	History  appServices.UploadHistoryStore
	Ping     func(ctx context.Context) error

	close func(ctx context.Context) error
}

// Close releases the backend's connections
func (s *Storage) Close(ctx context.Context) error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// OpenStorage connects to the configured backend and prepares its schema:
// migrations for postgres, indexes for mongo.
func OpenStorage(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Storage, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, lgr)
	case config.DriverMongo:
		return openMongo(ctx, cfg, lgr)
	case config.DriverMemory:
		lgr.Warn().Msg("Using in-memory storage, data is lost on restart")
		return &Storage{
			Driver:   config.DriverMemory,
			Students: memory.NewStudentRepository(),
			History:  memory.NewUploadHistoryRepository(),
			Ping:     memory.Ping,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Storage, error) {
	lgr.Info().Str("host", cfg.Database.Host).Str("dbname", cfg.Database.DBName).Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database.Pool, lgr).Migrate(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		_ = database.Close(ctx)
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	repos := appRepos.NewRepositories(database)
	return &Storage{
		Driver:   config.DriverPostgres,
		Students: repos.StudentRepository,
		History:  repos.UploadHistoryRepository,
		Ping:     database.Ping,
		close:    database.Close,
	}, nil
}

func openMongo(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Storage, error) {
	lgr.Info().Str("database", cfg.Database.MongoDatabase).Msg("Establishing mongo connection...")
	database, err := db.NewMongoDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to mongo")
		return nil, err
	}

	students := mongorepo.NewStudentRepository(database.Database)
	history := mongorepo.NewUploadHistoryRepository(database.Database)
	if err := errors.Join(students.EnsureIndexes(ctx), history.EnsureIndexes(ctx)); err != nil {
		lgr.Error().Err(err).Msg("Failed to create mongo indexes")
		_ = database.Close(ctx)
		return nil, err
	}
	lgr.Info().Msg("Mongo connection established and indexes ensured.")

	return &Storage{
		Driver:   config.DriverMongo,
		Students: students,
		History:  history,
		Ping:     database.Ping,
		close:    database.Close,
	}, nil
}
