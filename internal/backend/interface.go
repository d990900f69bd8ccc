package backend

import (
	"context"

	"outlay/internal/services"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result contains the wired expense service and optional cleanup function
type Result struct {
	Service *services.ExpenseService
	Cleanup CleanupFunc
}

// Factory creates the expense service from configuration
type Factory interface {
	CreateService(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for service creation
type Config struct {
	// Storage type
	Type StorageType

	// JSON specific
	JSONStorePath string

	// SQLite specific
	SQLiteDBPath string

	// AMQP mirror publishing (optional; empty URL disables it)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// StorageType represents the persistence backing for the expense collection
type StorageType string

const (
	JSONStorage   StorageType = "json"
	SQLiteStorage StorageType = "sqlite"
)

// String implements fmt.Stringer
func (st StorageType) String() string {
	return string(st)
}

// IsValid returns true if the storage type is valid
func (st StorageType) IsValid() bool {
	switch st {
	case JSONStorage, SQLiteStorage:
		return true
	default:
		return false
	}
}
