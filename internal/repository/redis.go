package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"salas/internal/config"
	"salas/internal/models"

	"github.com/redis/go-redis/v9"
)

type RedisCredentialRepository struct {
	client *redis.Client
}

// NewRedisClient создает новый клиент Redis на основе конфигурации
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func NewRedisCredentialRepository(client *redis.Client) *RedisCredentialRepository {
	return &RedisCredentialRepository{client: client}
}

func credentialKey(profile string) string {
	return fmt.Sprintf("salas:credential:%s", profile)
}

func (r *RedisCredentialRepository) LoadCredential(ctx context.Context, profile string) (*models.Credential, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	val, err := r.client.Get(ctx, credentialKey(profile)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credential from redis: %w", err)
	}

	var cred models.Credential
	if err := json.Unmarshal([]byte(val), &cred); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credential: %w", err)
	}
	return &cred, nil
}

// SaveCredential stores cred with the given ttl. ttl <= 0 stores without expiry.
func (r *RedisCredentialRepository) SaveCredential(ctx context.Context, profile string, cred *models.Credential, ttl time.Duration) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("failed to marshal credential: %w", err)
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, credentialKey(profile), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set credential in redis: %w", err)
	}
	return nil
}

func (r *RedisCredentialRepository) ClearCredential(ctx context.Context, profile string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, credentialKey(profile)).Err(); err != nil {
		return fmt.Errorf("failed to delete credential from redis: %w", err)
	}
	return nil
}

// Ping проверяет соединение с Redis
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close закрывает соединение с Redis
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
