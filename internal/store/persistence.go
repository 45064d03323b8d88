package store

import (
	"context"
	"encoding/json"
	"math"
	"strconv"

	"go.uber.org/zap"

	"github.com/abhisek/archetype/internal/quiz"
)

// Persistence saves quiz snapshots to a KV. Every failure is logged and
// swallowed; the session keeps running in memory.
type Persistence struct {
	kv     KV
	logger *zap.Logger
}

var _ quiz.Store = (*Persistence)(nil)

// NewPersistence creates a Persistence over kv.
func NewPersistence(kv KV, logger *zap.Logger) *Persistence {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Persistence{kv: kv, logger: logger}
}

// Load returns the snapshot stored under key. Missing or unreadable data
// reports absence. Fields with an unexpected type fall back to their
// defaults individually.
func (p *Persistence) Load(ctx context.Context, key string) (quiz.Snapshot, bool) {
	raw, found, err := p.kv.Get(ctx, key)
	if err != nil {
		p.logger.Warn("load snapshot", zap.String("key", key), zap.Error(err))
		return quiz.Snapshot{}, false
	}
	if !found || raw == "" {
		return quiz.Snapshot{}, false
	}

	snap, err := decodeSnapshot([]byte(raw))
	if err != nil {
		p.logger.Warn("discarding malformed snapshot", zap.String("key", key), zap.Error(err))
		return quiz.Snapshot{}, false
	}
	return snap, true
}

// Save writes snap under key.
func (p *Persistence) Save(ctx context.Context, key string, snap quiz.Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		p.logger.Warn("encode snapshot", zap.String("key", key), zap.Error(err))
		return
	}
	if err := p.kv.Set(ctx, key, string(data)); err != nil {
		p.logger.Warn("save snapshot", zap.String("key", key), zap.Error(err))
	}
}

// Clear removes the snapshot under key.
func (p *Persistence) Clear(ctx context.Context, key string) {
	if err := p.kv.Delete(ctx, key); err != nil {
		p.logger.Warn("clear snapshot", zap.String("key", key), zap.Error(err))
	}
}

func decodeSnapshot(data []byte) (quiz.Snapshot, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return quiz.Snapshot{}, err
	}

	snap := quiz.Snapshot{
		ShowInstructions: true,
		Answers:          map[string]string{},
	}

	var idx float64
	if json.Unmarshal(fields["currentIndex"], &idx) == nil && !math.IsNaN(idx) && !math.IsInf(idx, 0) {
		snap.CurrentIndex = int(math.Max(math.Min(idx, math.MaxInt32), math.MinInt32))
	}
	decodeBool(fields["showInstructions"], &snap.ShowInstructions)
	decodeBool(fields["showResults"], &snap.ShowResults)
	decodeBool(fields["resultsSent"], &snap.ResultsSent)

	var answers map[string]any
	if json.Unmarshal(fields["answers"], &answers) == nil {
		for k, v := range answers {
			switch v := v.(type) {
			case string:
				snap.Answers[k] = v
			case float64:
				snap.Answers[k] = strconv.FormatFloat(v, 'f', -1, 64)
			}
		}
	}
	return snap, nil
}

func decodeBool(raw json.RawMessage, dst *bool) {
	var b bool
	if raw != nil && json.Unmarshal(raw, &b) == nil && string(raw) != "null" {
		*dst = b
	}
}
