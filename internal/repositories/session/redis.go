package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/KirkDiggler/partysync/internal/models"
	"github.com/KirkDiggler/partysync/internal/repositories/keys"
	"github.com/redis/go-redis/v9"
)

const (
	// maxTxRetries bounds optimistic transaction retries under contention
	maxTxRetries = 16

	// eventBuffer is the per-subscription event buffer
	eventBuffer = 64
)

var (
	// ErrSessionNotFound is returned when a session record does not exist
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExists is returned when creating a session whose ID is taken
	ErrSessionExists = errors.New("session already exists")

	// ErrInvalidStatusTransition is returned when a mutation moves status backward
	ErrInvalidStatusTransition = errors.New("invalid session status transition")

	// ErrContention is returned when a guarded write keeps losing the race
	ErrContention = errors.New("too much contention on session")
)

// Config holds configuration for the Redis session repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// sessionRecord is the stored form of the session record, without the
// roster, the snapshot and the heartbeat which live under their own keys
type sessionRecord struct {
	ID        string               `json:"id"`
	HostID    string               `json:"host_id"`
	Status    models.SessionStatus `json:"status"`
	Config    models.SessionConfig `json:"config"`
	CreatedAt time.Time            `json:"created_at"`
}

// reader is the subset of commands shared by clients and transactions
type reader interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
}

// NewRedis creates a new Redis-backed session repository
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

// CreateSession writes the record, roster and heartbeat in one MULTI/EXEC
func (r *redisRepository) CreateSession(ctx context.Context, input *CreateSessionInput) error {
	if input == nil || input.Session == nil {
		return errors.New("input and session cannot be nil")
	}

	session := input.Session
	if session.ID == "" {
		return errors.New("session ID cannot be empty")
	}

	recordJSON, err := json.Marshal(toRecord(session))
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	players := make(map[string]interface{}, len(session.Players))
	for id, player := range session.Players {
		playerJSON, err := json.Marshal(player)
		if err != nil {
			return fmt.Errorf("failed to marshal player %s: %w", id, err)
		}
		players[id] = string(playerJSON)
	}

	sessionKey := keys.Session(session.ID)
	txf := func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, sessionKey).Result()
		if err != nil {
			return fmt.Errorf("failed to check session: %w", err)
		}
		if exists > 0 {
			return ErrSessionExists
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, sessionKey, recordJSON, 0)
			if len(players) > 0 {
				pipe.HSet(ctx, keys.Players(session.ID), players)
			}
			pipe.ZAdd(ctx, keys.HeartbeatIndex, redis.Z{
				Score:  float64(session.LastUpdatedAt.UnixMilli()),
				Member: session.ID,
			})
			return nil
		})
		return err
	}

	if err := r.client.Watch(ctx, txf, sessionKey); err != nil {
		if errors.Is(err, ErrSessionExists) {
			return err
		}
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// GetSession reads every part of a session in a single transaction
func (r *redisRepository) GetSession(ctx context.Context, input *GetSessionInput) (*models.Session, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	pipe := r.client.TxPipeline()
	recordCmd := pipe.Get(ctx, keys.Session(input.SessionID))
	playersCmd := pipe.HGetAll(ctx, keys.Players(input.SessionID))
	stateCmd := pipe.Get(ctx, keys.State(input.SessionID))
	beatCmd := pipe.ZScore(ctx, keys.HeartbeatIndex, input.SessionID)

	// Exec reports redis.Nil for missing keys; each command is checked below
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	recordJSON, err := recordCmd.Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	session, err := decodeSession(recordJSON, playersCmd.Val())
	if err != nil {
		return nil, err
	}

	if stateJSON, err := stateCmd.Result(); err == nil {
		var snapshot models.StateSnapshot
		if err := json.Unmarshal([]byte(stateJSON), &snapshot); err != nil {
			return nil, fmt.Errorf("failed to unmarshal state: %w", err)
		}
		session.State = &snapshot
	}

	if score, err := beatCmd.Result(); err == nil {
		session.LastUpdatedAt = time.UnixMilli(int64(score)).UTC()
	}

	return session, nil
}

// DeleteSession removes the session and tells subscribers it is gone
func (r *redisRepository) DeleteSession(ctx context.Context, input *DeleteSessionInput) error {
	if input == nil || input.SessionID == "" {
		return errors.New("input and session ID cannot be empty")
	}

	sessionKey := keys.Session(input.SessionID)
	closed, err := json.Marshal(&models.SessionEvent{
		Type:      models.SessionEventClosed,
		SessionID: input.SessionID,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	txf := func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, sessionKey).Result()
		if err != nil {
			return fmt.Errorf("failed to check session: %w", err)
		}
		if exists == 0 {
			return ErrSessionNotFound
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx,
				sessionKey,
				keys.Players(input.SessionID),
				keys.State(input.SessionID),
				keys.Actions(input.SessionID),
			)
			pipe.ZRem(ctx, keys.HeartbeatIndex, input.SessionID)
			pipe.Publish(ctx, keys.Events(input.SessionID), closed)
			return nil
		})
		return err
	}

	if err := r.client.Watch(ctx, txf, sessionKey); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// UpdateSession runs Mutate against the current record and roster and
// commits its writes only if neither key changed since they were read
func (r *redisRepository) UpdateSession(ctx context.Context, input *UpdateSessionInput) (*UpdateSessionOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	if input.Mutate == nil {
		return nil, errors.New("mutate cannot be nil")
	}

	sessionKey := keys.Session(input.SessionID)
	playersKey := keys.Players(input.SessionID)

	var output *UpdateSessionOutput
	txf := func(tx *redis.Tx) error {
		session, err := loadSession(ctx, tx, input.SessionID)
		if err != nil {
			return err
		}

		mutation, err := input.Mutate(session)
		if err != nil {
			return err
		}
		if mutation == nil {
			output = &UpdateSessionOutput{Session: session}
			return nil
		}

		if mutation.Status != "" && !session.Status.CanAdvanceTo(mutation.Status) {
			return ErrInvalidStatusTransition
		}

		writes, err := encodeMutation(session, mutation)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if writes.record != nil {
				pipe.Set(ctx, sessionKey, writes.record, 0)
			}
			if len(writes.puts) > 0 {
				pipe.HSet(ctx, playersKey, writes.puts)
			}
			if len(mutation.DeletePlayerIDs) > 0 {
				pipe.HDel(ctx, playersKey, mutation.DeletePlayerIDs...)
			}
			for _, event := range writes.events {
				pipe.Publish(ctx, keys.Events(input.SessionID), event)
			}
			return nil
		})
		if err != nil {
			return err
		}

		output = &UpdateSessionOutput{Session: session, Changed: true}
		return nil
	}

	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, txf, sessionKey, playersKey)
		if err == nil {
			return output, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			// Someone else wrote the record or roster; re-read and re-check
			continue
		}
		return nil, err
	}

	return nil, ErrContention
}

// GetState returns the current snapshot of a session
func (r *redisRepository) GetState(ctx context.Context, input *GetStateInput) (*models.StateSnapshot, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	pipe := r.client.TxPipeline()
	existsCmd := pipe.Exists(ctx, keys.Session(input.SessionID))
	stateCmd := pipe.Get(ctx, keys.State(input.SessionID))
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get state: %w", err)
	}

	if existsCmd.Val() == 0 {
		return nil, ErrSessionNotFound
	}

	stateJSON, err := stateCmd.Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get state: %w", err)
	}

	var snapshot models.StateSnapshot
	if err := json.Unmarshal([]byte(stateJSON), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state: %w", err)
	}

	return &snapshot, nil
}

// SaveState replaces the snapshot with version+1 stamped with server time
func (r *redisRepository) SaveState(ctx context.Context, input *SaveStateInput) (*models.StateSnapshot, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	sessionKey := keys.Session(input.SessionID)
	stateKey := keys.State(input.SessionID)

	var saved *models.StateSnapshot
	txf := func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, sessionKey).Result()
		if err != nil {
			return fmt.Errorf("failed to check session: %w", err)
		}
		if exists == 0 {
			return ErrSessionNotFound
		}

		var previous int64
		prevJSON, err := tx.Get(ctx, stateKey).Result()
		switch {
		case err == nil:
			var prev models.StateSnapshot
			if err := json.Unmarshal([]byte(prevJSON), &prev); err != nil {
				return fmt.Errorf("failed to unmarshal state: %w", err)
			}
			previous = prev.Version
		case errors.Is(err, redis.Nil):
		default:
			return fmt.Errorf("failed to get state: %w", err)
		}

		now, err := tx.Time(ctx).Result()
		if err != nil {
			return fmt.Errorf("failed to get server time: %w", err)
		}

		snapshot := &models.StateSnapshot{
			State:    input.State,
			Version:  previous + 1,
			SyncedAt: now.UTC(),
		}

		snapshotJSON, err := json.Marshal(snapshot)
		if err != nil {
			return fmt.Errorf("failed to marshal state: %w", err)
		}

		event, err := json.Marshal(&models.SessionEvent{
			Type:      models.SessionEventStatePublished,
			SessionID: input.SessionID,
			Snapshot:  snapshot,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal event: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, stateKey, snapshotJSON, 0)
			pipe.Publish(ctx, keys.Events(input.SessionID), event)
			return nil
		})
		if err != nil {
			return err
		}

		saved = snapshot
		return nil
	}

	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, txf, sessionKey, stateKey)
		if err == nil {
			return saved, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if errors.Is(err, ErrSessionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to save state: %w", err)
	}

	return nil, ErrContention
}

// Touch moves the session's heartbeat forward. Missing sessions are ignored.
func (r *redisRepository) Touch(ctx context.Context, input *TouchInput) error {
	if input == nil || input.SessionID == "" {
		return errors.New("input and session ID cannot be empty")
	}

	err := r.client.ZAddXX(ctx, keys.HeartbeatIndex, redis.Z{
		Score:  float64(input.At.UnixMilli()),
		Member: input.SessionID,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}

	return nil
}

// GetStaleSessions returns the IDs whose heartbeat is before OlderThan
func (r *redisRepository) GetStaleSessions(ctx context.Context, input *GetStaleSessionsInput) (*GetStaleSessionsOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	ids, err := r.client.ZRangeByScore(ctx, keys.HeartbeatIndex, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   fmt.Sprintf("(%d", input.OlderThan.UnixMilli()),
		Count: input.Limit,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get stale sessions: %w", err)
	}

	return &GetStaleSessionsOutput{
		SessionIDs: ids,
	}, nil
}

// Subscribe opens a pub/sub feed on the session's event channel
func (r *redisRepository) Subscribe(ctx context.Context, input *SubscribeInput) (*Subscription, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	pubsub := r.client.Subscribe(ctx, keys.Events(input.SessionID))

	// Wait for the subscription to be confirmed so no event published
	// after Subscribe returns can be missed
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	events := make(chan *models.SessionEvent, eventBuffer)
	done := make(chan struct{})

	go func() {
		defer close(events)
		for msg := range pubsub.Channel() {
			var event models.SessionEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue
			}
			select {
			case events <- &event:
			case <-done:
				return
			}
		}
	}()

	return NewSubscription(events, func() error {
		close(done)
		return pubsub.Close()
	}), nil
}

// loadSession reads the record and roster through r (a client or a transaction)
func loadSession(ctx context.Context, r reader, sessionID string) (*models.Session, error) {
	recordJSON, err := r.Get(ctx, keys.Session(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	players, err := r.HGetAll(ctx, keys.Players(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}

	return decodeSession(recordJSON, players)
}

func decodeSession(recordJSON string, players map[string]string) (*models.Session, error) {
	var record sessionRecord
	if err := json.Unmarshal([]byte(recordJSON), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	session := &models.Session{
		ID:        record.ID,
		HostID:    record.HostID,
		Status:    record.Status,
		Config:    record.Config,
		CreatedAt: record.CreatedAt,
		Players:   make(map[string]*models.SessionPlayer, len(players)),
	}

	for id, playerJSON := range players {
		var player models.SessionPlayer
		if err := json.Unmarshal([]byte(playerJSON), &player); err != nil {
			return nil, fmt.Errorf("failed to unmarshal player %s: %w", id, err)
		}
		session.Players[id] = &player
	}

	return session, nil
}

func toRecord(session *models.Session) *sessionRecord {
	return &sessionRecord{
		ID:        session.ID,
		HostID:    session.HostID,
		Status:    session.Status,
		Config:    session.Config,
		CreatedAt: session.CreatedAt,
	}
}

// encodedMutation holds the serialized writes of a mutation
type encodedMutation struct {
	record []byte
	puts   map[string]interface{}
	events [][]byte
}

// encodeMutation applies m to session in memory and serializes the writes
// and the change events they produce
func encodeMutation(session *models.Session, m *Mutation) (*encodedMutation, error) {
	writes := &encodedMutation{
		puts: make(map[string]interface{}, len(m.PutPlayers)),
	}

	addEvent := func(event *models.SessionEvent) error {
		event.SessionID = session.ID
		data, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to marshal event: %w", err)
		}
		writes.events = append(writes.events, data)
		return nil
	}

	if m.Status != "" {
		session.Status = m.Status
		record, err := json.Marshal(toRecord(session))
		if err != nil {
			return nil, fmt.Errorf("failed to marshal session: %w", err)
		}
		writes.record = record
		if err := addEvent(&models.SessionEvent{Type: models.SessionEventStatusChanged, Status: m.Status}); err != nil {
			return nil, err
		}
	}

	for _, player := range m.PutPlayers {
		if player == nil || player.ID == "" {
			return nil, errors.New("player and player ID cannot be empty")
		}
		playerJSON, err := json.Marshal(player)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal player %s: %w", player.ID, err)
		}
		writes.puts[player.ID] = string(playerJSON)
		session.Players[player.ID] = player
		if err := addEvent(&models.SessionEvent{Type: models.SessionEventRosterChanged, PlayerID: player.ID}); err != nil {
			return nil, err
		}
	}

	for _, id := range m.DeletePlayerIDs {
		delete(session.Players, id)
		if err := addEvent(&models.SessionEvent{Type: models.SessionEventRosterChanged, PlayerID: id}); err != nil {
			return nil, err
		}
	}

	return writes, nil
}
