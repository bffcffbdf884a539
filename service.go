package codestudio

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"codestudio/common"
	"codestudio/secret_manager"
	"codestudio/srv"
	"codestudio/srv/memory"
	"codestudio/srv/redis"
	"codestudio/srv/sqlite"
)

// GetStorage initializes the key-value storage backend selected by the local
// config (STUDIO_STORAGE overrides it).
func GetStorage(config common.LocalConfig) (srv.Storage, error) {
	switch config.Storage {
	case "redis":
		log.Info().Msg("Using Redis storage")
		return redis.NewStorage(), nil
	case "memory":
		log.Info().Msg("Using in-memory storage")
		return memory.NewStorage(), nil
	case "sqlite", "":
		log.Info().Msg("Using SQLite storage")
		storage, err := sqlite.NewStorage()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite storage: %w", err)
		}
		return storage, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", config.Storage)
	}
}

// GetAIAPIKey resolves the AI backend API key, preferring the OS keyring and
// falling back to the STUDIO_AI_API_KEY environment variable.
func GetAIAPIKey() (string, error) {
	keyringManager := secret_manager.GetSecretManager(secret_manager.KeyringSecretManagerType)
	if key, err := keyringManager.GetSecret(secret_manager.AIAPIKeySecretName); err == nil && key != "" {
		return key, nil
	}

	envManager := secret_manager.GetSecretManager(secret_manager.EnvSecretManagerType)
	key, err := envManager.GetSecret(secret_manager.AIAPIKeySecretName)
	if err != nil {
		return "", fmt.Errorf("no AI API key configured: %w", err)
	}
	return key, nil
}
