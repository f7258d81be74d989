package repositories

import (
	"github.com/yigit/gradesheet/internal/db"
)

// Repositories holds the PostgreSQL repository instances
type Repositories struct {
	StudentRepository       *StudentRepository
	UploadHistoryRepository *UploadHistoryRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		StudentRepository:       NewStudentRepository(database),
		UploadHistoryRepository: NewUploadHistoryRepository(database),
	}
}
