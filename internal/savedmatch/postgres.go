package savedmatch

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/bridgeskills/bridgeskills/internal/recommend"
)

//go:embed schema/*.sql
var schemaFS embed.FS

type PostgresStore struct {
	pool *pgxpool.Pool
}

// Connect opens a pool, checks it and applies the embedded schema.
func Connect(ctx context.Context, databaseURL string, log *zap.Logger) (*PostgresStore, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, errors.New("database url is required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	config.MaxConns = 10
	config.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	store := &PostgresStore{pool: pool}
	if err := store.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	log.Info("saved matches postgres connected", zap.String("host", config.ConnConfig.Host))
	return store, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	entries, err := schemaFS.ReadDir("schema")
	if err != nil {
		return fmt.Errorf("read schema dir: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		data, err := schemaFS.ReadFile("schema/" + entry.Name())
		if err != nil {
			return fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		if _, err := s.pool.Exec(ctx, string(data)); err != nil {
			return fmt.Errorf("execute %s: %w", entry.Name(), err)
		}
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, userID string, rec recommend.JobRecommendation) (SavedMatch, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return SavedMatch{}, fmt.Errorf("encode recommendation: %w", err)
	}

	match := SavedMatch{ID: uuid.NewString(), UserID: userID, Recommendation: rec}
	err = s.pool.QueryRow(ctx,
		`INSERT INTO saved_matches (id, user_id, recommendation) VALUES ($1, $2, $3) RETURNING created_at`,
		match.ID, userID, payload,
	).Scan(&match.CreatedAt)
	if err != nil {
		return SavedMatch{}, fmt.Errorf("insert saved match: %w", err)
	}
	return match, nil
}

func (s *PostgresStore) List(ctx context.Context, userID string) ([]SavedMatch, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id::text, user_id, recommendation, created_at FROM saved_matches WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query saved matches: %w", err)
	}
	defer rows.Close()

	out := []SavedMatch{}
	for rows.Next() {
		var (
			match   SavedMatch
			payload []byte
		)
		if err := rows.Scan(&match.ID, &match.UserID, &payload, &match.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan saved match: %w", err)
		}
		if err := json.Unmarshal(payload, &match.Recommendation); err != nil {
			return nil, fmt.Errorf("decode saved match %s: %w", match.ID, err)
		}
		out = append(out, match)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate saved matches: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Delete(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM saved_matches WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete saved match: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
