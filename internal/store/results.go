package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/archetype/internal/quiz"
	"github.com/abhisek/archetype/internal/scoring"
)

// ScoreLine is one archetype's entry in a stored result.
type ScoreLine struct {
	ArchetypeID string  `json:"archetype_id"`
	Name        string  `json:"name"`
	Raw         float64 `json:"raw"`
	Max         float64 `json:"max"`
	Percentage  float64 `json:"percentage"`
}

// ResultRecord is a completed assessment kept in the local history.
type ResultRecord struct {
	ID        string
	Personal  quiz.PersonalData
	Scores    []ScoreLine
	Sent      bool
	CreatedAt time.Time
}

// NewResultRecord builds a record from computed scores.
func NewResultRecord(personal quiz.PersonalData, scores []scoring.ArchetypeScore, now time.Time) ResultRecord {
	lines := make([]ScoreLine, len(scores))
	for i, s := range scores {
		lines[i] = ScoreLine{
			ArchetypeID: s.Archetype.ID,
			Name:        s.Archetype.Name,
			Raw:         s.Raw,
			Max:         s.Max,
			Percentage:  s.Percentage,
		}
	}
	return ResultRecord{
		ID:        uuid.NewString(),
		Personal:  personal,
		Scores:    lines,
		CreatedAt: now,
	}
}

// Dominant returns the highest-ranked line, if any.
func (r ResultRecord) Dominant() (ScoreLine, bool) {
	if len(r.Scores) == 0 {
		return ScoreLine{}, false
	}
	return r.Scores[0], true
}

// ResultRepo reads and writes the results table.
type ResultRepo struct {
	db *sql.DB
}

var resultColumns = []string{"id", "name", "email", "phone", "scores", "sent", "created_at"}

// Save inserts or replaces a record. An empty ID is filled in.
func (r *ResultRepo) Save(ctx context.Context, rec *ResultRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	scores, err := json.Marshal(rec.Scores)
	if err != nil {
		return fmt.Errorf("marshal scores: %w", err)
	}

	query, args := builder().
		Insert(tableResults).
		Columns(resultColumns...).
		Values(rec.ID, rec.Personal.Name, rec.Personal.Email, rec.Personal.Phone,
			string(scores), boolInt(rec.Sent), rec.CreatedAt.UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

// MarkSent flags a stored record as delivered.
func (r *ResultRepo) MarkSent(ctx context.Context, id string) error {
	query, args := builder().
		Update(tableResults).
		Set("sent", 1).
		Where(entsql.EQ("id", id)).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark result sent: %w", err)
	}
	return nil
}

// List returns the most recent records first. A limit of 0 returns all.
func (r *ResultRepo) List(ctx context.Context, limit int) ([]ResultRecord, error) {
	sel := builder().
		Select(resultColumns...).
		From(entsql.Table(tableResults)).
		OrderBy(entsql.Desc("created_at"), entsql.Desc("id"))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []ResultRecord
	for rows.Next() {
		rec, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return out, nil
}

// Latest returns the most recent record, or nil if none exist.
func (r *ResultRepo) Latest(ctx context.Context) (*ResultRecord, error) {
	recs, err := r.List(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return &recs[0], nil
}

// Get returns the record with the given ID.
func (r *ResultRepo) Get(ctx context.Context, id string) (*ResultRecord, error) {
	query, args := builder().
		Select(resultColumns...).
		From(entsql.Table(tableResults)).
		Where(entsql.EQ("id", id)).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query result: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query result: %w", err)
		}
		return nil, ErrNotFound
	}
	rec, err := scanResult(rows)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

func scanResult(rows *sql.Rows) (ResultRecord, error) {
	var (
		rec     ResultRecord
		scores  string
		sent    int
		created int64
	)
	if err := rows.Scan(&rec.ID, &rec.Personal.Name, &rec.Personal.Email, &rec.Personal.Phone,
		&scores, &sent, &created); err != nil {
		return ResultRecord{}, fmt.Errorf("scan result: %w", err)
	}
	if err := json.Unmarshal([]byte(scores), &rec.Scores); err != nil {
		return ResultRecord{}, fmt.Errorf("unmarshal scores for %s: %w", rec.ID, err)
	}
	rec.Sent = sent != 0
	rec.CreatedAt = time.UnixMilli(created)
	return rec, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
