package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gomantics/repolens/db"
	"github.com/gomantics/repolens/domains/ingest"
	"github.com/gomantics/repolens/libs/githost"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists jobs in PostgreSQL. The ingestion artifact's tree
// text and concatenated content are stored alongside the record so a
// claimed job can be analyzed by any worker process.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store backed by the given pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const jobColumns = `id, owner, name, url, default_branch, status, error_message,
	insights, tree_text, content, file_count, total_size_bytes,
	all_files_included, created, started, completed`

// Create implements Store.
func (s *PostgresStore) Create(ctx context.Context, job *Job) error {
	encoded, err := json.Marshal(job.Insights)
	if err != nil {
		return fmt.Errorf("failed to encode insights: %w", err)
	}

	var treeText, content string
	var fileCount int
	var totalBytes int64
	allIncluded := true
	if job.Source != nil {
		treeText = job.Source.TreeText
		content = job.Source.Content
		fileCount = job.Source.FileCount
		totalBytes = job.Source.TotalSizeBytes
		allIncluded = job.Source.AllFilesIncluded
	}

	return db.Exec(ctx, s.pool, func(pool *pgxpool.Pool) error {
		_, err := pool.Exec(ctx, `
			INSERT INTO analysis_jobs (`+jobColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
			job.ID, job.Ref.Owner, job.Ref.Name, job.Ref.URL, job.Ref.DefaultBranch,
			job.Status.String(), job.Error, encoded, treeText, content,
			fileCount, totalBytes, allIncluded,
			job.Created, job.Started, job.Completed,
		)
		return err
	})
}

// Get implements Store.
func (s *PostgresStore) Get(ctx context.Context, id string) (*Job, error) {
	job, err := db.Exec1(ctx, s.pool, func(pool *pgxpool.Pool) (*Job, error) {
		row := pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM analysis_jobs WHERE id = $1`, id)
		return scanJob(row)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return job, nil
}

// Update implements Store. The terminal-state guard lives in the WHERE
// clause so the check and write are one atomic statement.
func (s *PostgresStore) Update(ctx context.Context, id string, u Update) error {
	set := ""
	args := []any{id}

	addSet := func(col string, val any) {
		args = append(args, val)
		if set != "" {
			set += ", "
		}
		set += fmt.Sprintf("%s = $%d", col, len(args))
	}

	if u.Status != nil {
		addSet("status", u.Status.String())
	}
	if u.Error != nil {
		addSet("error_message", *u.Error)
	}
	if u.Insights != nil {
		encoded, err := json.Marshal(u.Insights)
		if err != nil {
			return fmt.Errorf("failed to encode insights: %w", err)
		}
		addSet("insights", encoded)
	}
	if u.Started != nil {
		addSet("started", *u.Started)
	}
	if u.Completed != nil {
		addSet("completed", *u.Completed)
	}
	if set == "" {
		return nil
	}

	return db.Exec(ctx, s.pool, func(pool *pgxpool.Pool) error {
		tag, err := pool.Exec(ctx, `
			UPDATE analysis_jobs SET `+set+`
			WHERE id = $1 AND status NOT IN ('completed', 'failed')`,
			args...,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			// Distinguish missing from terminal.
			var status string
			err := pool.QueryRow(ctx, `SELECT status FROM analysis_jobs WHERE id = $1`, id).Scan(&status)
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			if err != nil {
				return err
			}
			return ErrTerminal
		}
		return nil
	})
}

// ClaimPending implements Store using SKIP LOCKED so concurrent workers
// never claim the same job.
func (s *PostgresStore) ClaimPending(ctx context.Context) (*Job, error) {
	now := time.Now().Unix()
	job, err := db.Exec1(ctx, s.pool, func(pool *pgxpool.Pool) (*Job, error) {
		row := pool.QueryRow(ctx, `
			UPDATE analysis_jobs SET status = 'processing', started = $1
			WHERE id = (
				SELECT id FROM analysis_jobs
				WHERE status = 'pending'
				ORDER BY created
				LIMIT 1
				FOR UPDATE SKIP LOCKED
			)
			RETURNING `+jobColumns,
			now,
		)
		return scanJob(row)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return job, nil
}

// Ping implements Store.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func scanJob(row pgx.Row) (*Job, error) {
	var job Job
	var encoded []byte
	var treeText, content string
	var fileCount int
	var totalBytes int64
	var allIncluded bool

	err := row.Scan(
		&job.ID, &job.Ref.Owner, &job.Ref.Name, &job.Ref.URL, &job.Ref.DefaultBranch,
		&job.Status, &job.Error, &encoded, &treeText, &content,
		&fileCount, &totalBytes, &allIncluded,
		&job.Created, &job.Started, &job.Completed,
	)
	if err != nil {
		return nil, err
	}

	if len(encoded) > 0 {
		if err := json.Unmarshal(encoded, &job.Insights); err != nil {
			return nil, fmt.Errorf("failed to decode insights: %w", err)
		}
	}

	job.Source = &ingest.Repository{
		Ref:              githost.Ref{Owner: job.Ref.Owner, Name: job.Ref.Name, URL: job.Ref.URL, DefaultBranch: job.Ref.DefaultBranch},
		TreeText:         treeText,
		Content:          content,
		FileCount:        fileCount,
		TotalSizeBytes:   totalBytes,
		AllFilesIncluded: allIncluded,
	}

	return &job, nil
}
