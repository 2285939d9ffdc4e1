package server

import (
	"database/sql"
	"time"

	"github.com/rs/zerolog"

	"github.com/alexanderramin/sprintboard/internal/db"
	"github.com/alexanderramin/sprintboard/internal/repository"
	"github.com/alexanderramin/sprintboard/internal/service"
)

// NewServices builds every use case over one SQLite database.
func NewServices(database *sql.DB, secret []byte, tokenTTL time.Duration, logger zerolog.Logger) Services {
	uow := db.NewSQLiteUnitOfWork(database)
	obs := service.NewLogUseCaseObserver(logger)
	projects := repository.NewSQLiteProjectRepo(database)
	return Services{
		Auth:     service.NewAuthService(repository.NewSQLiteUserRepo(database), secret, tokenTTL, obs),
		Projects: service.NewProjectService(projects, uow, obs),
		Backlog:  service.NewBacklogService(projects, repository.NewSQLiteBacklogRepo(database), uow, obs),
		Sprints:  service.NewSprintService(projects, repository.NewSQLiteSprintRepo(database), uow, obs),
		Tasks:    service.NewTaskService(projects, repository.NewSQLiteTaskRepo(database), uow, obs),
	}
}
