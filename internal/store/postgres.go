// Package store persists parsed exam schedules in PostgreSQL.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JonMunkholm/examplan/internal/core"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS schedules (
	id          UUID PRIMARY KEY,
	source      TEXT NOT NULL,
	file_name   TEXT NOT NULL,
	sha256      TEXT NOT NULL,
	page_count  INTEGER NOT NULL,
	headers     JSONB NOT NULL,
	columns     JSONB NOT NULL,
	placed      INTEGER NOT NULL,
	dropped     INTEGER NOT NULL,
	parsed_at   TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS schedules_source_parsed_at_idx
	ON schedules (source, parsed_at DESC);

CREATE TABLE IF NOT EXISTS exam_records (
	schedule_id UUID NOT NULL REFERENCES schedules (id) ON DELETE CASCADE,
	row_index   INTEGER NOT NULL,
	data        JSONB NOT NULL,
	PRIMARY KEY (schedule_id, row_index)
);
`

const scheduleColumns = `id, source, file_name, sha256, page_count, headers, columns, placed, dropped, parsed_at`

// Store implements core.ScheduleStore on a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

var _ core.ScheduleStore = (*Store)(nil)

// New returns a Store backed by pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Migrate creates the schedule tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// SaveSchedule writes the schedule row and all its records in one transaction.
func (s *Store) SaveSchedule(ctx context.Context, sch *core.Schedule) error {
	headers, err := json.Marshal(sch.Headers)
	if err != nil {
		return fmt.Errorf("encode headers: %w", err)
	}
	columns, err := json.Marshal(sch.Columns)
	if err != nil {
		return fmt.Errorf("encode columns: %w", err)
	}
	rows, err := recordRows(sch.ID, sch.Records)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // No-op if already committed

	_, err = tx.Exec(ctx,
		`INSERT INTO schedules (`+scheduleColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		toPgUUID(sch.ID), sch.Source, sch.FileName, sch.SHA256, sch.PageCount,
		headers, columns, sch.Placed, sch.Dropped,
		pgtype.Timestamptz{Time: sch.ParsedAt, Valid: true},
	)
	if err != nil {
		return fmt.Errorf("insert schedule: %w", err)
	}

	if len(rows) > 0 {
		n, err := tx.CopyFrom(ctx,
			pgx.Identifier{"exam_records"},
			[]string{"schedule_id", "row_index", "data"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("copy records: %w", err)
		}
		if int(n) != len(rows) {
			return fmt.Errorf("copy records: wrote %d of %d", n, len(rows))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// LatestSchedules loads the newest schedule of every source with its records.
func (s *Store) LatestSchedules(ctx context.Context) ([]*core.Schedule, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT DISTINCT ON (source) `+scheduleColumns+`
		 FROM schedules
		 ORDER BY source, parsed_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query schedules: %w", err)
	}
	defer rows.Close()

	var out []*core.Schedule
	for rows.Next() {
		sch, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query schedules: %w", err)
	}
	rows.Close()

	for _, sch := range out {
		records, err := s.loadRecords(ctx, sch.ID)
		if err != nil {
			return nil, err
		}
		sch.Records = records
	}
	return out, nil
}

// ListSchedules returns up to limit summaries, newest first.
func (s *Store) ListSchedules(ctx context.Context, limit int) ([]core.ScheduleSummary, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT s.id, s.source, s.file_name, s.sha256, s.page_count, s.dropped, s.parsed_at,
		        (SELECT count(*) FROM exam_records r WHERE r.schedule_id = s.id)
		 FROM schedules s
		 ORDER BY s.parsed_at DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()

	var out []core.ScheduleSummary
	for rows.Next() {
		var (
			id        pgtype.UUID
			sum       core.ScheduleSummary
			parsedAt  pgtype.Timestamptz
			pageCount int32
			dropped   int32
			records   int64
		)
		if err := rows.Scan(&id, &sum.Source, &sum.FileName, &sum.SHA256, &pageCount, &dropped, &parsedAt, &records); err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		sum.ID = fromPgUUID(id)
		sum.PageCount = int(pageCount)
		sum.Dropped = int(dropped)
		sum.Records = int(records)
		sum.ParsedAt = parsedAt.Time
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *Store) loadRecords(ctx context.Context, id uuid.UUID) ([]core.ExamRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM exam_records WHERE schedule_id = $1 ORDER BY row_index`,
		toPgUUID(id))
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []core.ExamRecord
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec, err := decodeRecord(data)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanSchedule(rows pgx.Rows) (*core.Schedule, error) {
	var (
		id        pgtype.UUID
		sch       core.Schedule
		headers   []byte
		columns   []byte
		pageCount int32
		placed    int32
		dropped   int32
		parsedAt  pgtype.Timestamptz
	)
	err := rows.Scan(&id, &sch.Source, &sch.FileName, &sch.SHA256, &pageCount,
		&headers, &columns, &placed, &dropped, &parsedAt)
	if err != nil {
		return nil, fmt.Errorf("scan schedule: %w", err)
	}
	if err := json.Unmarshal(headers, &sch.Headers); err != nil {
		return nil, fmt.Errorf("decode headers: %w", err)
	}
	if err := json.Unmarshal(columns, &sch.Columns); err != nil {
		return nil, fmt.Errorf("decode columns: %w", err)
	}
	sch.ID = fromPgUUID(id)
	sch.PageCount = int(pageCount)
	sch.Placed = int(placed)
	sch.Dropped = int(dropped)
	sch.ParsedAt = parsedAt.Time.In(time.UTC)
	return &sch, nil
}

// recordRows converts records to CopyFrom input rows.
func recordRows(id uuid.UUID, records []core.ExamRecord) ([][]any, error) {
	pid := toPgUUID(id)
	rows := make([][]any, 0, len(records))
	for i, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("encode record %d: %w", i, err)
		}
		rows = append(rows, []any{pid, int32(i), data})
	}
	return rows, nil
}

func decodeRecord(data []byte) (core.ExamRecord, error) {
	rec := core.ExamRecord{}
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}

func toPgUUID(id uuid.UUID) pgtype.UUID {
	if id == uuid.Nil {
		return pgtype.UUID{Valid: false}
	}
	return pgtype.UUID{Bytes: id, Valid: true}
}

func fromPgUUID(u pgtype.UUID) uuid.UUID {
	if !u.Valid {
		return uuid.Nil
	}
	return uuid.UUID(u.Bytes)
}
