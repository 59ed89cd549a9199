package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/terrain.segment/internal/surface"
)

// ErrRunNotFound is returned when a run id has no record.
var ErrRunNotFound = errors.New("run not found")

// Run is one persisted pipeline execution.
type Run struct {
	RunID     string
	Source    string
	CreatedAt time.Time
	Params    surface.PipelineParams
	Stats     surface.PipelineStats
}

// ComponentRow is the histogram entry of one component within a run.
type ComponentRow struct {
	RunID       string
	ComponentID uint32
	Points      int
	Disposition surface.Disposition
}

// NewRun builds the record and histogram rows for a pipeline result.
func NewRun(source string, res *surface.Result) (*Run, []ComponentRow) {
	run := &Run{
		Source: source,
		Params: res.Params,
		Stats:  res.Stats,
	}
	rows := make([]ComponentRow, len(res.Histogram))
	for id, n := range res.Histogram {
		rows[id] = ComponentRow{
			ComponentID: uint32(id),
			Points:      n,
			Disposition: res.Disposition(uint32(id)),
		}
	}
	return run, rows
}

// RunStore reads and writes run records.
type RunStore struct {
	db *sql.DB
}

// NewRunStore creates a RunStore on db.
func NewRunStore(db *DB) *RunStore {
	return &RunStore{db: db.DB}
}

// Insert stores run and its component rows in one transaction. An empty
// RunID is replaced by a new UUID and a zero CreatedAt by the current time.
func (s *RunStore) Insert(run *Run, components []ComponentRow) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin insert run: %w", err)
	}
	defer tx.Rollback()

	p, st := run.Params, run.Stats
	var dominant sql.NullInt64
	if st.HasDominant {
		dominant = sql.NullInt64{Int64: int64(st.DominantID), Valid: true}
	}
	_, err = tx.Exec(`
		INSERT INTO segment_runs (
			run_id, source, created_at,
			diff_threshold, error_z_floor, minor_label_threshold, thinout_width,
			remove_dominant, thinout,
			input_points, error_points_removed, components, border_points,
			duplicate_keys, dominant_id, dominant_points_removed,
			minor_points_removed, thinout_points_removed, output_points, duration_ns
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.RunID, run.Source, run.CreatedAt.UnixNano(),
		p.DiffThreshold, p.ErrorZFloor, p.MinorLabelThreshold, p.ThinoutWidth,
		p.RemoveDominant, p.Thinout,
		st.InputPoints, st.ErrorPointsRemoved, st.Components, st.BorderPoints,
		st.DuplicateKeys, dominant, st.DominantPointsRemoved,
		st.MinorPointsRemoved, st.ThinoutPointsRemoved, st.OutputPoints, int64(st.Duration),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO segment_components (run_id, component_id, point_count, disposition)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert component: %w", err)
	}
	defer stmt.Close()
	for i := range components {
		c := &components[i]
		c.RunID = run.RunID
		if _, err := stmt.Exec(c.RunID, c.ComponentID, c.Points, string(c.Disposition)); err != nil {
			return fmt.Errorf("insert component %d: %w", c.ComponentID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

const runColumns = `
	run_id, source, created_at,
	diff_threshold, error_z_floor, minor_label_threshold, thinout_width,
	remove_dominant, thinout,
	input_points, error_points_removed, components, border_points,
	duplicate_keys, dominant_id, dominant_points_removed,
	minor_points_removed, thinout_points_removed, output_points, duration_ns
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	r := &Run{}
	var createdAt, durationNs int64
	var dominant sql.NullInt64
	p, st := &r.Params, &r.Stats
	err := row.Scan(
		&r.RunID, &r.Source, &createdAt,
		&p.DiffThreshold, &p.ErrorZFloor, &p.MinorLabelThreshold, &p.ThinoutWidth,
		&p.RemoveDominant, &p.Thinout,
		&st.InputPoints, &st.ErrorPointsRemoved, &st.Components, &st.BorderPoints,
		&st.DuplicateKeys, &dominant, &st.DominantPointsRemoved,
		&st.MinorPointsRemoved, &st.ThinoutPointsRemoved, &st.OutputPoints, &durationNs,
	)
	if err != nil {
		return nil, err
	}
	r.CreatedAt = time.Unix(0, createdAt)
	st.Duration = time.Duration(durationNs)
	if dominant.Valid {
		st.HasDominant = true
		st.DominantID = uint32(dominant.Int64)
	}
	return r, nil
}

// Get returns the run with id, or ErrRunNotFound.
func (s *RunStore) Get(runID string) (*Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM segment_runs WHERE run_id = ?`, runID)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return r, nil
}

// List returns up to limit runs, newest first. A limit of 0 or less returns
// every run.
func (s *RunStore) List(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`SELECT `+runColumns+` FROM segment_runs ORDER BY created_at DESC, run_id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Components returns the histogram rows of a run ordered by component id.
func (s *RunStore) Components(runID string) ([]ComponentRow, error) {
	rows, err := s.db.Query(`
		SELECT run_id, component_id, point_count, disposition
		FROM segment_components
		WHERE run_id = ?
		ORDER BY component_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("list components: %w", err)
	}
	defer rows.Close()

	var out []ComponentRow
	for rows.Next() {
		var c ComponentRow
		var disp string
		if err := rows.Scan(&c.RunID, &c.ComponentID, &c.Points, &disp); err != nil {
			return nil, fmt.Errorf("scan component: %w", err)
		}
		c.Disposition = surface.Disposition(disp)
		out = append(out, c)
	}
	return out, rows.Err()
}

// Delete removes a run and its component rows.
func (s *RunStore) Delete(runID string) error {
	result, err := s.db.Exec(`DELETE FROM segment_runs WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete run rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}
