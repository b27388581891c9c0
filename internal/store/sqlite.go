package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"FibSentinel/internal/logger"
	"FibSentinel/internal/model"
)

// SQLiteStore caches candle batches in a SQLite database.
type SQLiteStore struct {
	db  *sqlx.DB
	mu  sync.Mutex
	log *logger.Logger
}

type batchRow struct {
	ID        string `db:"id"`
	Symbol    string `db:"symbol"`
	Provider  string `db:"provider"`
	Days      int    `db:"days"`
	FetchedAt int64  `db:"fetched_at"`
}

type candleRow struct {
	Pos    int     `db:"pos"`
	Idx    int     `db:"idx"`
	Time   int64   `db:"time"`
	Open   float64 `db:"open"`
	High   float64 `db:"high"`
	Low    float64 `db:"low"`
	Close  float64 `db:"close"`
	Volume float64 `db:"volume"`
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string, log *logger.Logger) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, log: log}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Infof("sqlite candle cache opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS candle_batches (
			id         TEXT PRIMARY KEY,
			symbol     TEXT NOT NULL,
			provider   TEXT NOT NULL,
			days       INTEGER NOT NULL,
			fetched_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_batches_symbol ON candle_batches(symbol, fetched_at)`,

		`CREATE TABLE IF NOT EXISTS candles (
			batch_id TEXT NOT NULL REFERENCES candle_batches(id) ON DELETE CASCADE,
			pos      INTEGER NOT NULL,
			idx      INTEGER NOT NULL,
			time     INTEGER NOT NULL,
			open     REAL,
			high     REAL,
			low      REAL,
			close    REAL,
			volume   REAL,
			PRIMARY KEY (batch_id, pos)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// Load returns the most recent batch cached for symbol.
func (s *SQLiteStore) Load(ctx context.Context, symbol string) (*CandleBatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b batchRow
	err := s.db.GetContext(ctx, &b,
		`SELECT id, symbol, provider, days, fetched_at FROM candle_batches
		 WHERE symbol = ? ORDER BY fetched_at DESC LIMIT 1`, symbol)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load batch: %w", err)
	}

	var rows []candleRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT pos, idx, time, open, high, low, close, volume FROM candles
		 WHERE batch_id = ? ORDER BY pos`, b.ID); err != nil {
		return nil, fmt.Errorf("load candles: %w", err)
	}

	candles := make([]model.Candle, len(rows))
	for i, r := range rows {
		candles[i] = model.Candle{
			Time:   time.Unix(r.Time, 0).UTC(),
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
			Index:  r.Idx,
		}
	}
	return &CandleBatch{
		ID:        b.ID,
		Symbol:    b.Symbol,
		Provider:  b.Provider,
		Days:      b.Days,
		FetchedAt: time.Unix(b.FetchedAt, 0).UTC(),
		Candles:   candles,
	}, nil
}

// Save replaces whatever was cached for the batch's symbol.
func (s *SQLiteStore) Save(ctx context.Context, batch *CandleBatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if batch.ID == "" {
		batch.ID = uuid.New().String()
	}
	if batch.FetchedAt.IsZero() {
		batch.FetchedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM candles WHERE batch_id IN (SELECT id FROM candle_batches WHERE symbol = ?)`, batch.Symbol); err != nil {
		return fmt.Errorf("purge candles: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM candle_batches WHERE symbol = ?`, batch.Symbol); err != nil {
		return fmt.Errorf("purge batches: %w", err)
	}

	if _, err := tx.NamedExecContext(ctx,
		`INSERT INTO candle_batches (id, symbol, provider, days, fetched_at)
		 VALUES (:id, :symbol, :provider, :days, :fetched_at)`,
		batchRow{ID: batch.ID, Symbol: batch.Symbol, Provider: batch.Provider, Days: batch.Days, FetchedAt: batch.FetchedAt.Unix()}); err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx,
		`INSERT INTO candles (batch_id, pos, idx, time, open, high, low, close, volume) VALUES (?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare candles: %w", err)
	}
	defer stmt.Close()

	for pos, c := range batch.Candles {
		if _, err := stmt.ExecContext(ctx, batch.ID, pos, c.Index, c.Time.Unix(), c.Open, c.High, c.Low, c.Close, c.Volume); err != nil {
			return fmt.Errorf("insert candle %d: %w", pos, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.log.Debugf("cached %d candles for %s (batch %s)", len(batch.Candles), batch.Symbol, batch.ID)
	return nil
}

func (s *SQLiteStore) Close() error {
	s.log.Infof("closing sqlite candle cache")
	return s.db.Close()
}
