package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/pkalinn/revolver/internal/models"
)

const (
	// Key prefixes for Redis
	gameKeyPrefix   = "game:"
	playerKeyPrefix = "player:"
	activeGamesKey  = "active_games"
)

// ErrGameNotFound is returned when a game is not found
var ErrGameNotFound = errors.New("game not found")

// Config holds configuration for the Redis game repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed game repository
func NewRedis(cfg *Config) (*redisRepository, error) {
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

// SaveGame persists a game snapshot to Redis
func (r *redisRepository) SaveGame(ctx context.Context, input *SaveGameInput) error {
	if input == nil || input.Record == nil {
		return errors.New("input and record cannot be nil")
	}

	recordJSON, err := json.Marshal(input.Record)
	if err != nil {
		return fmt.Errorf("failed to marshal game: %w", err)
	}

	pipe := r.client.Pipeline()

	gameKey := gameKeyPrefix + input.Record.ID
	pipe.Set(ctx, gameKey, recordJSON, 0)

	// Maintain the lobby index: finished games leave it, the rest are
	// scored by creation time so listing goes newest first.
	if input.Record.Finished {
		pipe.ZRem(ctx, activeGamesKey, input.Record.ID)
	} else {
		pipe.ZAdd(ctx, activeGamesKey, redis.Z{
			Score:  float64(input.Record.CreatedAt.UnixNano()),
			Member: input.Record.ID,
		})
	}

	// One binding per player name so duplicate-participation checks and
	// rejoin lookups stay O(1).
	for _, p := range input.Record.Players {
		pipe.Set(ctx, playerKeyPrefix+p.Name, input.Record.ID, 0)
	}

	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}

	return nil
}

// GetGame retrieves a game snapshot by ID from Redis
func (r *redisRepository) GetGame(ctx context.Context, input *GetGameInput) (*GetGameOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, errors.New("input and game ID cannot be empty")
	}

	recordJSON, err := r.client.Get(ctx, gameKeyPrefix+input.GameID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	var record models.GameRecord
	if err := json.Unmarshal([]byte(recordJSON), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &GetGameOutput{Record: &record}, nil
}

// GetGameByPlayer retrieves the game snapshot a player name is bound to
func (r *redisRepository) GetGameByPlayer(ctx context.Context, input *GetGameByPlayerInput) (*GetGameOutput, error) {
	if input == nil || input.PlayerName == "" {
		return nil, errors.New("input and player name cannot be empty")
	}

	gameID, err := r.client.Get(ctx, playerKeyPrefix+input.PlayerName).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get player binding: %w", err)
	}

	return r.GetGame(ctx, &GetGameInput{GameID: gameID})
}

// DeleteGame removes a game snapshot and its player bindings
func (r *redisRepository) DeleteGame(ctx context.Context, input *DeleteGameInput) error {
	if input == nil || input.GameID == "" {
		return errors.New("input and game ID cannot be empty")
	}

	out, err := r.GetGame(ctx, &GetGameInput{GameID: input.GameID})
	if err != nil {
		if errors.Is(err, ErrGameNotFound) {
			return nil
		}
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, gameKeyPrefix+input.GameID)
	pipe.ZRem(ctx, activeGamesKey, input.GameID)
	for _, p := range out.Record.Players {
		pipe.Del(ctx, playerKeyPrefix+p.Name)
	}

	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	return nil
}

// UnbindPlayer removes a player-name binding without touching the game
func (r *redisRepository) UnbindPlayer(ctx context.Context, input *UnbindPlayerInput) error {
	if input == nil || input.PlayerName == "" {
		return errors.New("input and player name cannot be empty")
	}

	if err := r.client.Del(ctx, playerKeyPrefix+input.PlayerName).Err(); err != nil {
		return fmt.Errorf("failed to unbind player: %w", err)
	}
	return nil
}

// GetActiveGames retrieves all non-finished game snapshots, newest first
func (r *redisRepository) GetActiveGames(ctx context.Context, input *GetActiveGamesInput) (*GetActiveGamesOutput, error) {
	ids, err := r.client.ZRevRange(ctx, activeGamesKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list active games: %w", err)
	}

	records := make([]*models.GameRecord, 0, len(ids))
	for _, id := range ids {
		out, err := r.GetGame(ctx, &GetGameInput{GameID: id})
		if err != nil {
			if errors.Is(err, ErrGameNotFound) {
				// Index entry outlived its record; drop it.
				r.client.ZRem(ctx, activeGamesKey, id)
				continue
			}
			return nil, err
		}
		if out.Record.Finished {
			continue
		}
		records = append(records, out.Record)
	}

	return &GetActiveGamesOutput{Records: records}, nil
}
