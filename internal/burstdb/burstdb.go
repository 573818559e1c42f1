// Package burstdb reads burst bounding boxes from the burst map sqlite
// database. The database ships as a static artifact keyed by JPL burst
// ID; this package only queries it, plus enough schema bootstrap to
// build fixtures in tests.
package burstdb

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// ErrBurstNotFound is returned when a burst ID is absent from the map.
var ErrBurstNotFound = errors.New("burstdb: burst id not found")

// BBox is a burst bounding box in the coordinates of its EPSG code.
type BBox struct {
	EPSG int
	XMin float64
	YMin float64
	XMax float64
	YMax float64
}

type DB struct {
	*sql.DB
}

// Open opens the burst map database at path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("burstdb: open %s: %w", path, err)
	}
	return &DB{db}, nil
}

// CreateSchema creates the burst_id_map table if it does not exist.
// Production databases arrive pre-built; this exists for fixtures.
func (db *DB) CreateSchema() error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS burst_id_map (
			burst_id_jpl      TEXT PRIMARY KEY,
			epsg              INTEGER NOT NULL,
			xmin              DOUBLE NOT NULL,
			ymin              DOUBLE NOT NULL,
			xmax              DOUBLE NOT NULL,
			ymax              DOUBLE NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("burstdb: create schema: %w", err)
	}
	return nil
}

// InsertBurstBBox adds or replaces one burst's bounding box.
func (db *DB) InsertBurstBBox(burstID string, bbox BBox) error {
	_, err := db.Exec(
		`INSERT OR REPLACE INTO burst_id_map (burst_id_jpl, epsg, xmin, ymin, xmax, ymax)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		burstID, bbox.EPSG, bbox.XMin, bbox.YMin, bbox.XMax, bbox.YMax)
	if err != nil {
		return fmt.Errorf("burstdb: insert %s: %w", burstID, err)
	}
	return nil
}

// BurstBBox returns the bounding box for one burst ID.
func (db *DB) BurstBBox(burstID string) (BBox, error) {
	var bbox BBox
	row := db.QueryRow(
		`SELECT epsg, xmin, ymin, xmax, ymax FROM burst_id_map WHERE burst_id_jpl = ?`,
		burstID)
	err := row.Scan(&bbox.EPSG, &bbox.XMin, &bbox.YMin, &bbox.XMax, &bbox.YMax)
	if errors.Is(err, sql.ErrNoRows) {
		return BBox{}, fmt.Errorf("burstdb: %s: %w", burstID, ErrBurstNotFound)
	}
	if err != nil {
		return BBox{}, fmt.Errorf("burstdb: query %s: %w", burstID, err)
	}
	return bbox, nil
}

// BurstBBoxes returns bounding boxes for several burst IDs, keyed by ID.
// A single missing ID fails the whole lookup.
func (db *DB) BurstBBoxes(burstIDs []string) (map[string]BBox, error) {
	out := make(map[string]BBox, len(burstIDs))
	for _, id := range burstIDs {
		bbox, err := db.BurstBBox(id)
		if err != nil {
			return nil, err
		}
		out[id] = bbox
	}
	return out, nil
}
