package backend

import (
	"fmt"

	"outlay/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	storageType := StorageType(appConfig.DataBackend)
	if !storageType.IsValid() {
		return Config{}, fmt.Errorf("invalid storage type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type: storageType,

		JSONStorePath: appConfig.JSONStorePath,
		SQLiteDBPath:  appConfig.SQLiteDBPath,

		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
		AMQPQueue:    appConfig.AMQPQueue,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid storage type: %s", c.Type)
	}

	switch c.Type {
	case JSONStorage:
		if c.JSONStorePath == "" {
			return fmt.Errorf("JSON store path is required for json storage")
		}
	case SQLiteStorage:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite storage")
		}
	}

	// AMQP is optional, so we don't validate it here

	return nil
}

// StorageTypes returns all valid storage types
func StorageTypes() []StorageType {
	return []StorageType{JSONStorage, SQLiteStorage}
}
