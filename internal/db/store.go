package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/metalagman/fitgenius/internal/flow"
	"github.com/rs/zerolog/log"
)

// timeLayout is fixed width so started_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Call statuses.
const (
	StatusDone   = "done"
	StatusFailed = "failed"
)

// Call is one row of flow call history. It never holds inputs or outputs.
type Call struct {
	ID        string
	Flow      string
	Status    string
	ErrorKind string
	Field     string
	Reason    string
	StartedAt time.Time
	Duration  time.Duration
}

// Store records flow calls.
type Store struct {
	db *sql.DB
}

// NewStore creates a call history store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying database handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Insert writes a call. A missing id is generated.
func (s *Store) Insert(ctx context.Context, c Call) (string, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO flow_calls(id, flow, status, error_kind, field, reason, started_at, duration_ms)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Flow, c.Status, nullableString(c.ErrorKind), nullableString(c.Field), nullableString(c.Reason),
		c.StartedAt.UTC().Format(timeLayout), c.Duration.Milliseconds())
	if err != nil {
		return "", fmt.Errorf("insert flow call: %w", err)
	}
	return c.ID, nil
}

// OnComplete records rec. Storage failures are logged and never surface to
// the flow caller.
func (s *Store) OnComplete(ctx context.Context, rec flow.Record) {
	if _, err := s.Insert(context.WithoutCancel(ctx), CallFromRecord(rec)); err != nil {
		log.Warn().Err(err).Str("call_id", rec.ID).Str("flow", rec.Flow).Msg("record flow call")
	}
}

// CallFromRecord converts an orchestrator record to a history row.
func CallFromRecord(rec flow.Record) Call {
	c := Call{
		ID:        rec.ID,
		Flow:      rec.Flow,
		Status:    StatusDone,
		StartedAt: rec.StartedAt,
		Duration:  rec.Duration,
	}
	if rec.Err == nil {
		return c
	}
	c.Status = StatusFailed
	fe, ok := flow.AsError(rec.Err)
	if !ok {
		c.Reason = rec.Err.Error()
		return c
	}
	c.ErrorKind = string(fe.Kind)
	c.Field = fe.Field
	c.Reason = fe.Reason
	if fe.Kind == flow.InvocationFailed {
		c.Reason = string(fe.Invocation)
	}
	return c
}

// Get returns the call with id, or nil if missing.
func (s *Store) Get(ctx context.Context, id string) (*Call, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, flow, status, error_kind, field, reason, started_at, duration_ms
		FROM flow_calls WHERE id=?`, id)
	c, err := scanCall(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// Recent returns up to limit calls, newest first. An empty flowName matches
// every flow.
func (s *Store) Recent(ctx context.Context, flowName string, limit int) ([]Call, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, flow, status, error_kind, field, reason, started_at, duration_ms
		FROM flow_calls
		WHERE (? = '' OR flow = ?)
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?`, flowName, flowName, limit)
	if err != nil {
		return nil, fmt.Errorf("list flow calls: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Call
	for rows.Next() {
		c, err := scanCall(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list flow calls: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCall(row scanner) (*Call, error) {
	var (
		c                        Call
		errorKind, field, reason sql.NullString
		startedAt                string
		durationMS               int64
	)
	if err := row.Scan(&c.ID, &c.Flow, &c.Status, &errorKind, &field, &reason, &startedAt, &durationMS); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan flow call: %w", err)
	}
	ts, err := time.Parse(timeLayout, startedAt)
	if err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}
	c.ErrorKind = errorKind.String
	c.Field = field.String
	c.Reason = reason.String
	c.StartedAt = ts
	c.Duration = time.Duration(durationMS) * time.Millisecond
	return &c, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
