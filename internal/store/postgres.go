package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scythe504/tabu-backend/internal"
	"github.com/scythe504/tabu-backend/internal/utils"
)

// uniqueViolation is the PostgreSQL error code for unique_violation.
const uniqueViolation = "23505"

type Store struct {
	pool *pgxpool.Pool
}

// New connects to Postgres and checks the connection.
func New(ctx context.Context, connString string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
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

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// =============================================================================
// USERS
// =============================================================================

// CreateUser inserts an account with zeroed stats and returns its id.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (string, error) {
	row := s.pool.QueryRow(ctx,
		"INSERT INTO users (username, password_hash) VALUES ($1, $2) RETURNING id::text",
		username, passwordHash)

	var id string
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return "", internal.ErrDuplicateUsername
		}
		return "", wrap(err)
	}
	return id, nil
}

// GetUserByUsername returns the account including its password hash.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (internal.User, error) {
	user := internal.User{Username: username}
	row := s.pool.QueryRow(ctx,
		"SELECT id::text, password_hash, wins, losses, created_at FROM users WHERE username = $1",
		username)

	if err := row.Scan(&user.Id, &user.PasswordHash, &user.Wins, &user.Losses, &user.CreatedAt); err != nil {
		return internal.User{}, wrap(err)
	}
	return user, nil
}

// GetUserByID returns the account without its password hash.
func (s *Store) GetUserByID(ctx context.Context, id string) (internal.User, error) {
	if !utils.ValidAccountID(id) {
		return internal.User{}, internal.ErrUserNotFound
	}

	user := internal.User{Id: id}
	row := s.pool.QueryRow(ctx,
		"SELECT username, wins, losses, created_at FROM users WHERE id = $1",
		id)

	if err := row.Scan(&user.Username, &user.Wins, &user.Losses, &user.CreatedAt); err != nil {
		return internal.User{}, wrap(err)
	}
	return user, nil
}

func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, "SELECT count(*) FROM users").Scan(&n); err != nil {
		return 0, wrap(err)
	}
	return n, nil
}

func (s *Store) IncrementWins(ctx context.Context, userID string) error {
	return s.bump(ctx, "UPDATE users SET wins = wins + 1 WHERE id = $1", userID)
}

func (s *Store) IncrementLosses(ctx context.Context, userID string) error {
	return s.bump(ctx, "UPDATE users SET losses = losses + 1 WHERE id = $1", userID)
}

func (s *Store) bump(ctx context.Context, query, userID string) error {
	if !utils.ValidAccountID(userID) {
		return internal.ErrUserNotFound
	}
	tag, err := s.pool.Exec(ctx, query, userID)
	if err != nil {
		return wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}

// TopWinners lists up to limit accounts with at least one win, most wins
// first.
func (s *Store) TopWinners(ctx context.Context, limit int) ([]internal.User, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id::text, username, wins, losses, created_at
		FROM users
		WHERE wins > 0
		ORDER BY wins DESC, username
		LIMIT $1`, limit)
	if err != nil {
		return nil, wrap(err)
	}

	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (internal.User, error) {
		var u internal.User
		err := row.Scan(&u.Id, &u.Username, &u.Wins, &u.Losses, &u.CreatedAt)
		return u, err
	})
	if err != nil {
		return nil, wrap(err)
	}
	return users, nil
}

// =============================================================================
// SCORES
// =============================================================================

// InsertScore stores a score record dated now and returns its id.
func (s *Store) InsertScore(ctx context.Context, rec internal.ScoreRecord) (string, error) {
	if !utils.ValidAccountID(rec.UserId) {
		return "", internal.ErrUserNotFound
	}

	var id string
	err := s.pool.QueryRow(ctx, `
		INSERT INTO scores (user_id, username, score, category)
		VALUES ($1, $2, $3, $4)
		RETURNING id::text`,
		rec.UserId, rec.Username, rec.Score, rec.Category).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return "", internal.ErrUserNotFound
		}
		return "", wrap(err)
	}
	return id, nil
}

// TopScores lists the limit highest score records.
func (s *Store) TopScores(ctx context.Context, limit int) ([]internal.ScoreRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id::text, user_id::text, username, score, category, date
		FROM scores
		ORDER BY score DESC, date DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, wrap(err)
	}
	return collectScores(rows)
}

// History lists every score record of the account, newest first.
func (s *Store) History(ctx context.Context, userID string) ([]internal.ScoreRecord, error) {
	if !utils.ValidAccountID(userID) {
		return []internal.ScoreRecord{}, nil
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id::text, user_id::text, username, score, category, date
		FROM scores
		WHERE user_id = $1
		ORDER BY date DESC`, userID)
	if err != nil {
		return nil, wrap(err)
	}
	return collectScores(rows)
}

func collectScores(rows pgx.Rows) ([]internal.ScoreRecord, error) {
	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (internal.ScoreRecord, error) {
		var r internal.ScoreRecord
		err := row.Scan(&r.Id, &r.UserId, &r.Username, &r.Score, &r.Category, &r.Date)
		return r, err
	})
	if err != nil {
		return nil, wrap(err)
	}
	if records == nil {
		records = []internal.ScoreRecord{}
	}
	return records, nil
}

// wrap maps driver errors onto the shared persistence errors. Context errors
// pass through untouched.
func wrap(err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return internal.ErrUserNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %w", internal.UnexpectedDatabaseError, err)
	}
}
