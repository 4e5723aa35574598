package store

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	log "github.com/sirupsen/logrus"
)

type demoUser struct {
	username string
	wins     int
	losses   int
}

var demoUsers = []demoUser{
	{"testuser1", 5, 3},
	{"gamer123", 10, 2},
	{"pro_player", 2, 8},
}

const demoPassword = "password123"

var demoCategories = []string{"genel", "spor", "teknoloji", "tarih"}

// Seed fills an empty database with demo accounts and a few random scores
// each. A database that already has accounts is left alone. hash turns the
// demo password into the stored hash.
func (s *Store) Seed(ctx context.Context, hash func(password string) (string, error)) error {
	n, err := s.CountUsers(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Infof("[Seed] %d accounts present, skipping", n)
		return nil
	}

	passwordHash, err := hash(demoPassword)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return wrap(err)
	}
	defer tx.Rollback(ctx)

	scores := 0
	for _, u := range demoUsers {
		var id string
		err := tx.QueryRow(ctx,
			"INSERT INTO users (username, password_hash, wins, losses) VALUES ($1, $2, $3, $4) RETURNING id::text",
			u.username, passwordHash, u.wins, u.losses).Scan(&id)
		if err != nil {
			return wrap(err)
		}

		for range rand.IntN(5) + 1 {
			age := time.Duration(rand.Int64N(int64(30 * 24 * time.Hour)))
			_, err := tx.Exec(ctx,
				"INSERT INTO scores (user_id, username, score, category, date) VALUES ($1, $2, $3, $4, $5)",
				id, u.username, rand.IntN(21)+5, demoCategories[rand.IntN(len(demoCategories))], time.Now().Add(-age))
			if err != nil {
				return wrap(err)
			}
			scores++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return wrap(err)
	}
	log.Infof("[Seed] created %d demo accounts and %d scores", len(demoUsers), scores)
	return nil
}
