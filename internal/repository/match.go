package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/codeduelhq/codeduel-backend/internal/entity"
)

const (
	recentMatchesKey = "matches:recent"

	// maxStoredMatches bounds the history feed; older results fall off.
	maxStoredMatches = 100
)

type MatchRepository interface {
	Record(ctx context.Context, match *entity.Match) error
	Recent(ctx context.Context, limit int) ([]*entity.Match, error)
}

type dbMatch struct {
	client *redis.Client
}

func NewMatchRepository(client *redis.Client) MatchRepository {
	return &dbMatch{
		client: client,
	}
}

func (that *dbMatch) Record(ctx context.Context, match *entity.Match) error {
	matchJSON, err := json.Marshal(match)
	if err != nil {
		return fmt.Errorf("could not marshal match: %w", err)
	}

	if err = that.client.LPush(ctx, recentMatchesKey, matchJSON).Err(); err != nil {
		return fmt.Errorf("failed to record match: %w", err)
	}

	if err = that.client.LTrim(ctx, recentMatchesKey, 0, maxStoredMatches-1).Err(); err != nil {
		return fmt.Errorf("failed to trim match history: %w", err)
	}

	return nil
}

func (that *dbMatch) Recent(ctx context.Context, limit int) ([]*entity.Match, error) {
	if limit <= 0 || limit > maxStoredMatches {
		limit = maxStoredMatches
	}

	entries, err := that.client.LRange(ctx, recentMatchesKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read match history: %w", err)
	}

	matches := make([]*entity.Match, 0, len(entries))
	for _, entry := range entries {
		var match entity.Match
		if err = json.Unmarshal([]byte(entry), &match); err != nil {
			return nil, fmt.Errorf("failed to unmarshal match: %w", err)
		}

		matches = append(matches, &match)
	}

	return matches, nil
}
