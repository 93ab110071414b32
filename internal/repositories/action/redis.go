package action

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/KirkDiggler/partysync/internal/models"
	"github.com/KirkDiggler/partysync/internal/repositories/keys"
	"github.com/redis/go-redis/v9"
)

const (
	fieldPlayerID = "player_id"
	fieldAction   = "action"
)

var (
	// ErrSessionNotFound is returned when appending to a session that does not exist
	ErrSessionNotFound = errors.New("session not found")

	// ErrMalformedEntry is returned when a queue entry cannot be decoded
	ErrMalformedEntry = errors.New("malformed action entry")
)

// Config holds configuration for the Redis action repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface with a Redis stream
// per session. Stream IDs give arrival order and the server timestamp.
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed action repository
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

// AppendAction adds an entry with a server-assigned ID, only while the
// session record exists
func (r *redisRepository) AppendAction(ctx context.Context, input *AppendActionInput) (*models.ClientAction, error) {
	if input == nil || input.SessionID == "" || input.PlayerID == "" {
		return nil, errors.New("input, session ID and player ID cannot be empty")
	}

	if input.Action == nil {
		return nil, errors.New("action cannot be nil")
	}

	actionJSON, err := json.Marshal(input.Action)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal action: %w", err)
	}

	sessionKey := keys.Session(input.SessionID)
	var added *redis.StringCmd
	txf := func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, sessionKey).Result()
		if err != nil {
			return fmt.Errorf("failed to check session: %w", err)
		}
		if exists == 0 {
			return ErrSessionNotFound
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			added = pipe.XAdd(ctx, &redis.XAddArgs{
				Stream: keys.Actions(input.SessionID),
				Values: map[string]interface{}{
					fieldPlayerID: input.PlayerID,
					fieldAction:   string(actionJSON),
				},
			})
			return nil
		})
		return err
	}

	// A racing delete of the session makes the append fail rather than
	// leave an orphaned stream behind
	if err := r.client.Watch(ctx, txf, sessionKey); err != nil {
		if errors.Is(err, ErrSessionNotFound) || errors.Is(err, redis.TxFailedErr) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to append action: %w", err)
	}

	id := added.Val()
	return &models.ClientAction{
		ID:          id,
		PlayerID:    input.PlayerID,
		Action:      input.Action,
		SubmittedAt: idTime(id),
	}, nil
}

// ReadActions returns the entries after AfterID in arrival order
func (r *redisRepository) ReadActions(ctx context.Context, input *ReadActionsInput) (*ReadActionsOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	afterID := input.AfterID
	if afterID == "" {
		afterID = StartID
	}

	// go-redis treats a zero Block as "wait forever"; a negative one omits BLOCK
	block := input.Block
	if block <= 0 {
		block = -1
	}

	streams, err := r.client.XRead(ctx, &redis.XReadArgs{
		Streams: []string{keys.Actions(input.SessionID), afterID},
		Count:   input.Count,
		Block:   block,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &ReadActionsOutput{
				Actions: []*models.ClientAction{},
				LastID:  afterID,
			}, nil
		}
		return nil, fmt.Errorf("failed to read actions: %w", err)
	}

	output := &ReadActionsOutput{
		Actions: []*models.ClientAction{},
		LastID:  afterID,
	}

	for _, stream := range streams {
		for _, msg := range stream.Messages {
			output.LastID = msg.ID

			entry, err := decodeEntry(msg)
			if err != nil {
				// Keep the ID so the caller can still acknowledge it
				entry = &models.ClientAction{ID: msg.ID, SubmittedAt: idTime(msg.ID)}
			}
			output.Actions = append(output.Actions, entry)
		}
	}

	return output, nil
}

// DeleteAction removes an entry; deleting a missing entry is not an error
func (r *redisRepository) DeleteAction(ctx context.Context, input *DeleteActionInput) error {
	if input == nil || input.SessionID == "" || input.ActionID == "" {
		return errors.New("input, session ID and action ID cannot be empty")
	}

	if err := r.client.XDel(ctx, keys.Actions(input.SessionID), input.ActionID).Err(); err != nil {
		return fmt.Errorf("failed to delete action: %w", err)
	}

	return nil
}

// CountActions returns the number of entries not yet acknowledged
func (r *redisRepository) CountActions(ctx context.Context, input *CountActionsInput) (int64, error) {
	if input == nil || input.SessionID == "" {
		return 0, errors.New("input and session ID cannot be empty")
	}

	count, err := r.client.XLen(ctx, keys.Actions(input.SessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to count actions: %w", err)
	}

	return count, nil
}

func decodeEntry(msg redis.XMessage) (*models.ClientAction, error) {
	playerID, _ := msg.Values[fieldPlayerID].(string)
	actionJSON, _ := msg.Values[fieldAction].(string)
	if playerID == "" || actionJSON == "" {
		return nil, ErrMalformedEntry
	}

	var action models.Action
	if err := json.Unmarshal([]byte(actionJSON), &action); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEntry, err)
	}

	return &models.ClientAction{
		ID:          msg.ID,
		PlayerID:    playerID,
		Action:      &action,
		SubmittedAt: idTime(msg.ID),
	}, nil
}

// idTime extracts the millisecond timestamp of a stream ID ("<ms>-<seq>")
func idTime(id string) time.Time {
	ms, _, _ := strings.Cut(id, "-")
	n, err := strconv.ParseInt(ms, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(n).UTC()
}
