package rasterio

import (
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/sintrastes/mapalgebra"
)

// GridStore keeps float64 grids in a SQLite database, one row of one band
// per record, with full float64 precision. It implements both Source and
// Sink, so a store can be written by one pipeline and read as a leaf by the
// next.
//
// A store may be sparse: rows that were never written simply do not exist.
// Reading a missing row fails with an error wrapping
// mapalgebra.ErrUnavailable, which focal aggregation absorbs into its default
// sample. That makes a partially populated store usable as a focal operand
// without special casing.
//
// # Consistency
//
// Writes accumulate in a transaction that begins at the first WriteRow and
// commits on Flush. Reads see only committed rows, so a raster evaluating
// from the store never observes a half-written batch. Close without Flush
// discards the open batch.
//
// GridStore is not safe for concurrent use.
type GridStore struct {
	db     *sql.DB
	width  int
	height int
	bands  int
	closed bool

	tx *sql.Tx // open write batch, nil when none

	// one-row read cache; demand patterns are strongly row-local
	cacheBand int
	cacheY    int
	cacheRow  []float64
}

const gridSchema = `
CREATE TABLE IF NOT EXISTS grid_meta (
	id     INTEGER PRIMARY KEY CHECK (id = 1),
	width  INTEGER NOT NULL,
	height INTEGER NOT NULL,
	bands  INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS grid_rows (
	band  INTEGER NOT NULL,
	y     INTEGER NOT NULL,
	cells BLOB    NOT NULL,
	PRIMARY KEY (band, y)
);
`

func openGridDB(path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("rasterio: grid store path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("rasterio: open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("rasterio: ping sqlite db: %w", err)
	}
	return db, nil
}

// CreateGridStore creates or resets a grid store at path with the given
// extent and band count. Existing rows are dropped.
func CreateGridStore(path string, width, height, bands int) (*GridStore, error) {
	if width <= 0 || height <= 0 || bands <= 0 {
		return nil, fmt.Errorf("rasterio: invalid grid geometry %dx%dx%d", width, height, bands)
	}
	db, err := openGridDB(path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(gridSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("rasterio: create grid schema: %w", err)
	}
	if _, err := db.Exec(`INSERT OR REPLACE INTO grid_meta (id, width, height, bands) VALUES (1, ?, ?, ?)`,
		width, height, bands); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("rasterio: write grid metadata: %w", err)
	}
	if _, err := db.Exec(`DELETE FROM grid_rows`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("rasterio: reset grid rows: %w", err)
	}
	return &GridStore{db: db, width: width, height: height, bands: bands, cacheBand: -1, cacheY: -1}, nil
}

// OpenGridStore opens an existing grid store.
func OpenGridStore(path string) (*GridStore, error) {
	db, err := openGridDB(path)
	if err != nil {
		return nil, err
	}
	s := &GridStore{db: db, cacheBand: -1, cacheY: -1}
	row := db.QueryRow(`SELECT width, height, bands FROM grid_meta WHERE id = 1`)
	if err := row.Scan(&s.width, &s.height, &s.bands); err != nil {
		_ = db.Close()
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("rasterio: %s is not a grid store", path)
		}
		return nil, fmt.Errorf("rasterio: read grid metadata: %w", err)
	}
	return s, nil
}

// Size returns the pixel extent.
func (s *GridStore) Size() (int, int) { return s.width, s.height }

// Bands returns the band count.
func (s *GridStore) Bands() int { return s.bands }

// ReadPixel returns one committed cell. Cells of rows that were never
// written fail with an error wrapping mapalgebra.ErrUnavailable.
func (s *GridStore) ReadPixel(band, x, y int) (float64, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if band < 0 || band >= s.bands || x < 0 || x >= s.width || y < 0 || y >= s.height {
		return 0, fmt.Errorf("rasterio: band %d pixel (%d,%d): %w", band, x, y, ErrOutOfRange)
	}

	if band == s.cacheBand && y == s.cacheY && s.cacheRow != nil {
		return s.cacheRow[x], nil
	}

	var blob []byte
	err := s.db.QueryRow(`SELECT cells FROM grid_rows WHERE band = ? AND y = ?`, band, y).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("rasterio: band %d row %d not written: %w", band, y, mapalgebra.ErrUnavailable)
	}
	if err != nil {
		return 0, fmt.Errorf("rasterio: read band %d row %d: %w", band, y, err)
	}
	row, err := decodeRow(blob, s.width)
	if err != nil {
		return 0, fmt.Errorf("rasterio: band %d row %d: %w", band, y, err)
	}

	s.cacheBand, s.cacheY, s.cacheRow = band, y, row
	return row[x], nil
}

// WriteRow stages one row in the current batch.
func (s *GridStore) WriteRow(band, y int, row []float64) error {
	if s.closed {
		return ErrClosed
	}
	if band < 0 || band >= s.bands || y < 0 || y >= s.height {
		return fmt.Errorf("rasterio: band %d row %d: %w", band, y, ErrOutOfRange)
	}
	if len(row) != s.width {
		return fmt.Errorf("rasterio: row %d has %d cells, want %d", y, len(row), s.width)
	}

	if s.tx == nil {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("rasterio: begin write batch: %w", err)
		}
		s.tx = tx
	}
	if _, err := s.tx.Exec(`INSERT OR REPLACE INTO grid_rows (band, y, cells) VALUES (?, ?, ?)`,
		band, y, encodeRow(row)); err != nil {
		return fmt.Errorf("rasterio: write band %d row %d: %w", band, y, err)
	}
	if band == s.cacheBand && y == s.cacheY {
		s.cacheRow = nil
	}
	return nil
}

// Flush commits the open write batch.
func (s *GridStore) Flush() error {
	if s.closed {
		return ErrClosed
	}
	if s.tx == nil {
		return nil
	}
	err := s.tx.Commit()
	s.tx = nil
	if err != nil {
		return fmt.Errorf("rasterio: commit write batch: %w", err)
	}
	return nil
}

// Close rolls back any unflushed batch and closes the database. Close is
// idempotent.
func (s *GridStore) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.cacheRow = nil
	if s.tx != nil {
		_ = s.tx.Rollback()
		s.tx = nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("rasterio: close sqlite db: %w", err)
	}
	return nil
}

// Rows are stored as little-endian float64 cells, x ascending.

func encodeRow(row []float64) []byte {
	buf := make([]byte, 8*len(row))
	for i, v := range row {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(v))
	}
	return buf
}

func decodeRow(blob []byte, width int) ([]float64, error) {
	if len(blob) != 8*width {
		return nil, fmt.Errorf("cell blob is %d bytes, want %d", len(blob), 8*width)
	}
	row := make([]float64, width)
	for i := range row {
		row[i] = math.Float64frombits(binary.LittleEndian.Uint64(blob[8*i:]))
	}
	return row, nil
}
