package interfaces

import (
	"errors"
)

// ErrNotFound is returned by repositories when the requested entity does not exist
var ErrNotFound = errors.New("not found")

// Repository defines the interface for data persistence
type Repository interface {
	Session() SessionRepository
	Assessment() AssessmentRepository

	Close() error
}
