// Package store reads channels and posts from a Mattermost-style Postgres
// database. It is the data-access collaborator of the extraction pipeline;
// credentials and connection parameters arrive via the database URL.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Source is the read capability the extractor consumes. *Store implements it;
// tests substitute fakes.
type Source interface {
	Channels(ctx context.Context, f Filter) ([]Channel, error)
	Messages(ctx context.Context, channelID string, since time.Time) ([]Message, error)
}

// Filter narrows the channel selection. Zero values mean no restriction.
type Filter struct {
	ChannelID   string // select exactly one channel by id
	ChannelType string // single-letter Mattermost type: O, P, D or G
	TeamName    string // team display name, resolved against Teams
}

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// Channels returns the channels matching f, ordered by id.
func (s *Store) Channels(ctx context.Context, f Filter) ([]Channel, error) {
	teamID := ""
	if f.TeamName != "" {
		id, err := s.teamID(ctx, f.TeamName)
		if err != nil {
			return nil, err
		}
		teamID = id
	}

	query, args := channelQuery(f, teamID)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query channels: %w", err)
	}
	defer rows.Close()

	var channels []Channel
	for rows.Next() {
		var c Channel
		if err := rows.Scan(&c.ID, &c.DisplayName, &c.Type, &c.TeamName); err != nil {
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		channels = append(channels, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read channels: %w", err)
	}
	return channels, nil
}

// channelQuery builds the channel selection statement. Split out so the
// condition assembly is testable without a database.
func channelQuery(f Filter, teamID string) (string, []any) {
	query := `
		SELECT c.Id, COALESCE(c.DisplayName, ''), c.Type, COALESCE(t.DisplayName, '')
		FROM Channels c LEFT JOIN Teams t ON c.TeamId = t.Id`

	var conds []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.ChannelID != "" {
		add("c.Id = $%d", f.ChannelID)
	}
	if f.ChannelType != "" {
		add("c.Type = $%d", f.ChannelType)
	}
	if teamID != "" {
		add("c.TeamId = $%d", teamID)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY c.Id"
	return query, args
}

// teamID resolves a team display name to its id. Exactly one match is
// required; anything else is an operator error.
func (s *Store) teamID(ctx context.Context, teamName string) (string, error) {
	rows, err := s.pool.Query(ctx, `SELECT Id FROM Teams WHERE DisplayName = $1`, teamName)
	if err != nil {
		return "", fmt.Errorf("query team %q: %w", teamName, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scan team id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("read team ids: %w", err)
	}
	if len(ids) != 1 {
		return "", fmt.Errorf("team %q: expected exactly one match, got %d", teamName, len(ids))
	}
	return ids[0], nil
}

// Messages returns a channel's posts joined with their authors, ordered by
// creation time. System posts (non-empty Posts.Type) are excluded. A non-zero
// since restricts to posts created at or after it.
func (s *Store) Messages(ctx context.Context, channelID string, since time.Time) ([]Message, error) {
	query := `
		SELECT p.Id, COALESCE(p.RootId, ''), p.CreateAt, p.Message, u.Username, COALESCE(u.Position, '')
		FROM Posts p INNER JOIN Users u ON p.UserId = u.Id
		WHERE p.ChannelId = $1 AND p.Type = ''`
	args := []any{channelID}
	if !since.IsZero() {
		query += " AND p.CreateAt >= $2"
		args = append(args, since.UnixMilli())
	}
	query += " ORDER BY p.CreateAt, p.Id"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query posts for channel %s: %w", channelID, err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		var createAt int64
		if err := rows.Scan(&m.ID, &m.RootID, &createAt, &m.Body, &m.Username, &m.Position); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		// Mattermost stores CreateAt as a millisecond epoch.
		m.ChannelID = channelID
		m.CreateAt = time.UnixMilli(createAt).UTC()
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read posts for channel %s: %w", channelID, err)
	}
	return messages, nil
}
