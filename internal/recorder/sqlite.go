package recorder

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"priceboard/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder keeps the current window in a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	// Samples keep their source order and duplicates; ordinal is the
	// position in the snapshot.
	stmts := []string{
		`DROP TABLE IF EXISTS window_points`,
		`CREATE TABLE IF NOT EXISTS window_samples (
			ordinal      INTEGER PRIMARY KEY,
			timestamp_ms INTEGER NOT NULL,
			price        REAL
		)`,
		`CREATE TABLE IF NOT EXISTS window_meta (
			id           INTEGER PRIMARY KEY CHECK (id = 1),
			seq          INTEGER NOT NULL,
			fetched_at   INTEGER NOT NULL,
			current_hour REAL,
			last24h_avg  REAL
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// nullable maps NaN to SQL NULL; SQLite has no NaN.
func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func fromNullable(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

func (r *SQLiteRecorder) SaveWindow(snap *model.Snapshot) error {
	if snap == nil {
		return errors.New("nil snapshot")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM window_samples`); err != nil {
		return fmt.Errorf("clear points: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO window_samples (ordinal, timestamp_ms, price) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	for i, p := range snap.Points {
		if _, err := stmt.Exec(i, p.TimestampMillis, nullable(p.Price)); err != nil {
			return fmt.Errorf("insert point %d: %w", p.TimestampMillis, err)
		}
	}

	fetched := snap.FetchedAt
	if fetched.IsZero() {
		fetched = time.Now()
	}
	if _, err := tx.Exec(`INSERT OR REPLACE INTO window_meta
		(id, seq, fetched_at, current_hour, last24h_avg) VALUES (1, ?, ?, ?, ?)`,
		int64(snap.Seq), fetched.UnixMilli(),
		nullable(snap.CurrentHourPrice), nullable(snap.Last24hAverage),
	); err != nil {
		return fmt.Errorf("write meta: %w", err)
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) LoadWindow() (*model.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		seq       int64
		fetchedMs int64
		current   sql.NullFloat64
		avg       sql.NullFloat64
	)
	err := r.db.QueryRow(`SELECT seq, fetched_at, current_hour, last24h_avg FROM window_meta WHERE id = 1`).
		Scan(&seq, &fetchedMs, &current, &avg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read meta: %w", err)
	}

	rows, err := r.db.Query(`SELECT timestamp_ms, price FROM window_samples ORDER BY ordinal`)
	if err != nil {
		return nil, fmt.Errorf("read points: %w", err)
	}
	defer rows.Close()

	var points []model.PricePoint
	for rows.Next() {
		var (
			ts    int64
			price sql.NullFloat64
		)
		if err := rows.Scan(&ts, &price); err != nil {
			return nil, fmt.Errorf("scan point: %w", err)
		}
		points = append(points, model.PricePoint{TimestampMillis: ts, Price: fromNullable(price)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &model.Snapshot{
		Seq:              uint64(seq),
		Points:           points,
		CurrentHourPrice: fromNullable(current),
		Last24hAverage:   fromNullable(avg),
		FetchedAt:        time.UnixMilli(fetchedMs),
	}, nil
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
