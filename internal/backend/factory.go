package backend

import (
	"context"
	"fmt"
	"log/slog"

	"outlay/internal/amqp"
	"outlay/internal/services"
	"outlay/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateService implements Factory.CreateService
func (f *DefaultFactory) CreateService(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	store, err := f.createStore(ctx, config)
	if err != nil {
		return nil, err
	}

	// The publisher stays a nil interface unless a client actually connects.
	// Assigning a failed *amqp.Client here would defeat the service's nil
	// checks.
	var publisher services.MirrorPublisher
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without mirror events", "error", err)
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
			publisher = client
		}
	}

	service := services.NewExpenseService(store, publisher)

	f.logger.Info("Initialized expense service",
		"storage", config.Type.String(),
		"mirror_enabled", publisher != nil)

	return &Result{
		Service: service,
		Cleanup: service.Close,
	}, nil
}

func (f *DefaultFactory) createStore(_ context.Context, config Config) (storage.Store, error) {
	switch config.Type {
	case JSONStorage:
		store, err := storage.NewJSONStore(config.JSONStorePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize JSON store: %w", err)
		}
		f.logger.Info("Initialized JSON store", "path", config.JSONStorePath)
		return store, nil

	case SQLiteStorage:
		store, err := storage.NewSQLiteStore(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		f.logger.Info("Initialized SQLite store", "path", config.SQLiteDBPath)
		return store, nil

	default:
		return nil, fmt.Errorf("unsupported storage type: %s", config.Type)
	}
}
