package persist

import (
	"context"
	"time"
)

// Run outcomes as stored in the runs table.
const (
	OutcomeWon  = "won"
	OutcomeDead = "dead"
	OutcomeQuit = "quit"
)

type RunRow struct {
	ID         int64
	Seed       int64
	Outcome    string
	Depth      int32
	Turns      int32
	Kills      int32
	Score      int32
	DiedTo     string
	StartedAt  time.Time
	FinishedAt time.Time
}

type RunRepo struct {
	db *DB
}

func NewRunRepo(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

func (r *RunRepo) Save(ctx context.Context, run *RunRow) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO runs (seed, outcome, depth, turns, kills, score, died_to, started_at, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7,''), $8, $9)
		 RETURNING id`,
		run.Seed, run.Outcome, run.Depth, run.Turns, run.Kills, run.Score,
		run.DiedTo, run.StartedAt, run.FinishedAt,
	).Scan(&run.ID)
}

// Top returns the best runs by score, ties broken by the earlier finish.
func (r *RunRepo) Top(ctx context.Context, limit int) ([]RunRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, seed, outcome, depth, turns, kills, score, COALESCE(died_to,''),
		        started_at, finished_at
		 FROM runs
		 ORDER BY score DESC, finished_at ASC
		 LIMIT $1`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []RunRow
	for rows.Next() {
		var run RunRow
		if err := rows.Scan(
			&run.ID, &run.Seed, &run.Outcome, &run.Depth, &run.Turns, &run.Kills,
			&run.Score, &run.DiedTo, &run.StartedAt, &run.FinishedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, run)
	}
	return result, rows.Err()
}
