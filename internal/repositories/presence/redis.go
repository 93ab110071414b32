package presence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/KirkDiggler/partysync/internal/models"
	"github.com/KirkDiggler/partysync/internal/repositories/keys"
	"github.com/redis/go-redis/v9"
)

// ErrLeaseNotFound is returned when renewing a lease that was already claimed
var ErrLeaseNotFound = errors.New("presence lease not found")

// Config holds configuration for the Redis presence repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using a lease
// sorted set and one hash of writes per connection
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed presence repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	// Validate config
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// Register stores the write and the lease in one MULTI/EXEC
func (r *redisRepository) Register(ctx context.Context, input *RegisterInput) error {
	if input == nil || input.Write == nil {
		return errors.New("input and write cannot be nil")
	}

	write := input.Write
	if write.ConnectionID == "" || write.SessionID == "" || write.PlayerID == "" {
		return errors.New("connection ID, session ID and player ID cannot be empty")
	}

	writeJSON, err := json.Marshal(write)
	if err != nil {
		return fmt.Errorf("failed to marshal disconnect write: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, keys.Connection(write.ConnectionID), field(write.SessionID, write.PlayerID), writeJSON)
	pipe.ZAdd(ctx, keys.PresenceLeases, redis.Z{
		Score:  float64(input.ExpiresAt.UnixMilli()),
		Member: write.ConnectionID,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to register disconnect write: %w", err)
	}

	return nil
}

// Unregister drops one write; the lease stays until claimed or expired
func (r *redisRepository) Unregister(ctx context.Context, input *UnregisterInput) error {
	if input == nil || input.ConnectionID == "" {
		return errors.New("input and connection ID cannot be empty")
	}

	err := r.client.HDel(ctx, keys.Connection(input.ConnectionID), field(input.SessionID, input.PlayerID)).Err()
	if err != nil {
		return fmt.Errorf("failed to unregister disconnect write: %w", err)
	}

	return nil
}

// Renew moves a lease's expiry forward. It never recreates a claimed lease.
func (r *redisRepository) Renew(ctx context.Context, input *RenewInput) error {
	if input == nil || input.ConnectionID == "" {
		return errors.New("input and connection ID cannot be empty")
	}

	pipe := r.client.TxPipeline()
	scoreCmd := pipe.ZScore(ctx, keys.PresenceLeases, input.ConnectionID)
	pipe.ZAddXX(ctx, keys.PresenceLeases, redis.Z{
		Score:  float64(input.ExpiresAt.UnixMilli()),
		Member: input.ConnectionID,
	})

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to renew lease: %w", err)
	}

	if errors.Is(scoreCmd.Err(), redis.Nil) {
		return ErrLeaseNotFound
	}

	return nil
}

// ClaimExpired claims every connection whose lease is at or before Now
func (r *redisRepository) ClaimExpired(ctx context.Context, input *ClaimExpiredInput) (*ClaimOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	connectionIDs, err := r.client.ZRangeByScore(ctx, keys.PresenceLeases, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   fmt.Sprintf("%d", input.Now.UnixMilli()),
		Count: input.Limit,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get expired leases: %w", err)
	}

	output := &ClaimOutput{
		Writes: []*models.DisconnectWrite{},
	}

	for _, connectionID := range connectionIDs {
		writes, err := r.claim(ctx, connectionID)
		if err != nil {
			return nil, err
		}
		output.Writes = append(output.Writes, writes...)
	}

	return output, nil
}

// ClaimConnection claims a connection regardless of its lease
func (r *redisRepository) ClaimConnection(ctx context.Context, input *ClaimConnectionInput) (*ClaimOutput, error) {
	if input == nil || input.ConnectionID == "" {
		return nil, errors.New("input and connection ID cannot be empty")
	}

	writes, err := r.claim(ctx, input.ConnectionID)
	if err != nil {
		return nil, err
	}

	return &ClaimOutput{
		Writes: writes,
	}, nil
}

// claim removes a lease and its writes atomically. Only the caller whose
// ZREM removed the lease gets the writes, so two sweepers never both run them.
func (r *redisRepository) claim(ctx context.Context, connectionID string) ([]*models.DisconnectWrite, error) {
	connKey := keys.Connection(connectionID)

	pipe := r.client.TxPipeline()
	removed := pipe.ZRem(ctx, keys.PresenceLeases, connectionID)
	fields := pipe.HGetAll(ctx, connKey)
	pipe.Del(ctx, connKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to claim connection %s: %w", connectionID, err)
	}

	if removed.Val() == 0 {
		return nil, nil
	}

	writes := make([]*models.DisconnectWrite, 0, len(fields.Val()))
	for _, writeJSON := range fields.Val() {
		var write models.DisconnectWrite
		if err := json.Unmarshal([]byte(writeJSON), &write); err != nil {
			continue
		}
		writes = append(writes, &write)
	}

	return writes, nil
}

func field(sessionID, playerID string) string {
	return sessionID + "|" + playerID
}
