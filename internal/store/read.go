package store

import (
	"context"
	"fmt"
)

// Select runs a compiled list query (see internal/querysql) and returns the
// selected signals as "device/name", in the order the query produced them.
//
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) Select(ctx context.Context, query string, params ...any) ([]string, error) {
	var rows []struct {
		Device string `db:"device"`
		Name   string `db:"name"`
	}
	if err := s.db.SelectContext(ctx, &rows, query, params...); err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}

	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Device + "/" + r.Name
	}
	return out, nil
}

// ReadSignals returns the mirrored signals ordered by device and name.
func (s *Store) ReadSignals(ctx context.Context) ([]SignalRow, error) {
	rows := []SignalRow{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, device, name, direction, length, type, unit, idx
		FROM signals
		ORDER BY device COLLATE BINARY ASC, name COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("read signals: %w", err)
	}
	return rows, nil
}

// ReadList returns the members of a list in physical order.
func (s *Store) ReadList(ctx context.Context, list string) ([]string, error) {
	return s.Select(ctx, `
		SELECT s.device, s.name
		FROM list_items AS li JOIN signals AS s ON s.id = li.signal_id
		WHERE li.list = ?
		ORDER BY li.position ASC
	`, list)
}

// ReadResults returns the logged results of a run in seq order.
func (s *Store) ReadResults(ctx context.Context, runID string) ([]ResultRecord, error) {
	var rows []struct {
		RunID        string `db:"run_id"`
		ScenarioHash string `db:"scenario_hash"`
		Seq          int64  `db:"seq"`
		QueryName    string `db:"query_name"`
		Fingerprint  string `db:"fingerprint"`
		Items        string `db:"items"`
	}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT run_id, scenario_hash, seq, query_name, fingerprint, items
		FROM query_results
		WHERE run_id = ?
		ORDER BY seq ASC, id ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}

	out := make([]ResultRecord, 0, len(rows))
	for _, r := range rows {
		items, err := unmarshalItems(r.Items)
		if err != nil {
			return nil, fmt.Errorf("read results seq %d: %w", r.Seq, err)
		}
		out = append(out, ResultRecord{
			RunID:        r.RunID,
			ScenarioHash: r.ScenarioHash,
			Seq:          r.Seq,
			QueryName:    r.QueryName,
			Fingerprint:  r.Fingerprint,
			Items:        items,
		})
	}
	return out, nil
}

// CountScenarios returns the number of stored scenario documents.
func (s *Store) CountScenarios(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM scenarios"); err != nil {
		return 0, fmt.Errorf("count scenarios: %w", err)
	}
	return n, nil
}
