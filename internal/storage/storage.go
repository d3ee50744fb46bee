package storage

import (
	"context"
	"fmt"
	"strings"

	"smart-recruit/internal/config"
	"smart-recruit/internal/logger"
)

// Storage aggregates every storage dependency of the service.
type Storage struct {
	// Object storage for CV files and extracted text.
	MinIO *MinIO

	// Message queue driving the processing pipeline.
	RabbitMQ *RabbitMQ

	// Relational database.
	MySQL *MySQL

	// Key-value store for dedup, caching and locks.
	Redis *Redis
}

// NewStorage initializes every configured component. Individual failures are
// collected; initialization only fails outright when no component came up.
func NewStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	storage := &Storage{}
	var err error
	var initErrors []string

	storage.MinIO, err = NewMinIO(&cfg.MinIO)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to initialize MinIO")
		initErrors = append(initErrors, fmt.Sprintf("MinIO: %v", err))
	}

	if cfg.RabbitMQ.URL != "" {
		storage.RabbitMQ, err = NewRabbitMQ(&cfg.RabbitMQ)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialize RabbitMQ")
			initErrors = append(initErrors, fmt.Sprintf("RabbitMQ: %v", err))
		}
	}

	if cfg.MySQL.Host != "" {
		storage.MySQL, err = NewMySQL(&cfg.MySQL)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialize MySQL")
			initErrors = append(initErrors, fmt.Sprintf("MySQL: %v", err))
		}
	}

	if cfg.Redis.Address != "" {
		storage.Redis, err = NewRedisAdapter(&cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialize Redis")
			initErrors = append(initErrors, fmt.Sprintf("Redis: %v", err))
		}
	} else {
		logger.Info().Msg("Redis not configured, skipping")
	}

	if storage.MinIO == nil && storage.RabbitMQ == nil && storage.MySQL == nil && storage.Redis == nil {
		return nil, fmt.Errorf("all storage components failed to initialize: %s", strings.Join(initErrors, "; "))
	}

	if len(initErrors) > 0 {
		logger.Warn().Strs("failed", initErrors).Msg("some storage components failed to initialize")
	}

	return storage, nil
}

// Close shuts down every open connection.
func (s *Storage) Close() {
	if s.RabbitMQ != nil {
		if err := s.RabbitMQ.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close RabbitMQ connection")
		}
	}
	if s.MySQL != nil {
		if err := s.MySQL.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close MySQL connection")
		}
	}
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close Redis connection")
		}
	}
	// The MinIO client does not hold a long-lived connection to close.
}
