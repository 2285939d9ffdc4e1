package service

import (
	"time"

	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/google/uuid"
)

// Fields the server insists on. Clients may require more.
var (
	projectCreateRequired = []string{"title"}
	backlogCreateRequired = []string{"_id", "title"}
	sprintCreateRequired  = []string{"name"}
	taskCreateRequired    = []string{"title"}
)

func newID() string {
	return uuid.New().String()
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// validate wraps domain.Validate for pointer-held records.
func validate[T domain.Record[T]](e *T, required []string) error {
	return domain.Validate(*e, required)
}
