package store

import (
	"context"
	"fmt"

	"github.com/roach88/siglist/internal/ir"
)

// CatalogList is one named list of signals in physical order, head first.
type CatalogList struct {
	Name    string
	Signals []*ir.Signal
}

// SignalRow is a row of the signals table.
type SignalRow struct {
	ID        int64  `db:"id"`
	Device    string `db:"device"`
	Name      string `db:"name"`
	Direction string `db:"direction"`
	Length    int32  `db:"length"`
	Type      string `db:"type"`
	Unit      string `db:"unit"`
	Index     int64  `db:"idx"`
}

func signalRow(sig *ir.Signal) SignalRow {
	row := SignalRow{
		Name:      sig.Name,
		Direction: string(sig.Direction),
		Length:    sig.Length,
		Type:      string(sig.Type),
		Unit:      sig.Unit,
		Index:     sig.Index,
	}
	if sig.Device != nil {
		row.Device = sig.Device.Name
	}
	return row
}

// WriteCatalog replaces the mirrored catalog with lists. A signal that
// appears in several lists (matched by device/name) is stored once.
func (s *Store) WriteCatalog(ctx context.Context, lists []CatalogList) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{"DELETE FROM list_items", "DELETE FROM signals"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("write catalog: %w", err)
		}
	}

	ids := make(map[string]int64)
	for _, list := range lists {
		for pos, sig := range list.Signals {
			full := sig.FullName()
			id, ok := ids[full]
			if !ok {
				res, err := tx.NamedExecContext(ctx, `
					INSERT INTO signals (device, name, direction, length, type, unit, idx)
					VALUES (:device, :name, :direction, :length, :type, :unit, :idx)
				`, signalRow(sig))
				if err != nil {
					return fmt.Errorf("write signal %s: %w", full, err)
				}
				if id, err = res.LastInsertId(); err != nil {
					return fmt.Errorf("write signal %s: %w", full, err)
				}
				ids[full] = id
			}

			if _, err := tx.ExecContext(ctx, `
				INSERT INTO list_items (list, position, signal_id) VALUES (?, ?, ?)
			`, list.Name, pos, id); err != nil {
				return fmt.Errorf("write list item %s[%d]: %w", list.Name, pos, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}

// WriteScenario records a compiled scenario document under its content
// hash. Uses ON CONFLICT(hash) DO NOTHING - rewriting is a no-op.
func (s *Store) WriteScenario(ctx context.Context, hash, name string, doc ir.Object) error {
	data, err := ir.MarshalCanonical(doc)
	if err != nil {
		return fmt.Errorf("write scenario: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO scenarios (hash, name, document) VALUES (?, ?, ?)
		ON CONFLICT(hash) DO NOTHING
	`, hash, name, string(data))
	if err != nil {
		return fmt.Errorf("write scenario: %w", err)
	}
	return nil
}

// ResultRecord is the outcome of one named query in one run.
type ResultRecord struct {
	RunID        string
	ScenarioHash string
	Seq          int64
	QueryName    string
	Fingerprint  string
	Items        []string
}

// WriteResult appends a query result to the log. The scenario must have
// been written first (foreign key).
func (s *Store) WriteResult(ctx context.Context, rec ResultRecord) error {
	items, err := marshalItems(rec.Items)
	if err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO query_results (run_id, scenario_hash, seq, query_name, fingerprint, items)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.RunID, rec.ScenarioHash, rec.Seq, rec.QueryName, rec.Fingerprint, items)
	if err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}
