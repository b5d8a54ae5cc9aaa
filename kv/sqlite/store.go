// Package sqlite is the durable kv.Store backend. Every record is a single
// row; CompareAndSwap is a conditional statement, so the failure-record
// read-modify-write in the abuse tracker has a real atomic primitive to lean
// on.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/kunori-kiku/textholder/config"
	"github.com/kunori-kiku/textholder/kv"

	_ "github.com/mattn/go-sqlite3"
)

type Store struct {
	db *sql.DB
}

var _ kv.Store = (*Store)(nil)

func NewFromConfig() (*Store, error) {
	config.Lock.RLock()
	defer config.Lock.RUnlock()
	file := viper.GetString(config.KeyDBFile)
	if file == "" {
		return nil, errors.New("kv: NewFromConfig: db file not set")
	}

	return New(file)
}

func New(file string) (*Store, error) {
	absDBFile, err := filepath.Abs(file)
	if err != nil {
		log.Warn().Str("raw_db_file", file).Err(err).Msg("could not get db file absolute path")
	}

	log.Info().Str("raw_db_file", file).Str("abs_db_file", absDBFile).Msg("starting store initialization")

	database, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, fmt.Errorf("kv: New: could not open db: %w", err)
	}

	err = migrateDatabase(database)
	if err != nil {
		return nil, fmt.Errorf("kv: New: could not migrate store: %w", err)
	}

	// reopen database now that migration is complete
	database, err = sql.Open("sqlite3", file)
	if err != nil {
		return nil, fmt.Errorf("kv: New: could not open db: %w", err)
	}

	log.Info().Str("raw_db_file", file).Str("abs_db_file", absDBFile).Msg("finished store initialization")

	return &Store{db: database}, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	row := s.db.QueryRowContext(ctx, "SELECT value FROM records WHERE key = $1", key)

	var value []byte
	err := row.Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kv: Get: could not read record: %w", err)
	}

	return value, nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO records (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = $2", key, value)
	if err != nil {
		return fmt.Errorf("kv: Put: could not write record: %w", err)
	}

	return nil
}

func (s *Store) CompareAndSwap(ctx context.Context, key string, old []byte, value []byte) (bool, error) {
	var res sql.Result
	var err error

	if old == nil {
		res, err = s.db.ExecContext(ctx,
			"INSERT INTO records (key, value) VALUES ($1, $2) ON CONFLICT (key) DO NOTHING", key, value)
	} else {
		res, err = s.db.ExecContext(ctx,
			"UPDATE records SET value = $1 WHERE key = $2 AND value = $3", value, key, old)
	}
	if err != nil {
		return false, fmt.Errorf("kv: CompareAndSwap: could not write record: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("kv: CompareAndSwap: could not read rows affected: %w", err)
	}

	return affected == 1, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM records WHERE key = $1", key)
	if err != nil {
		return fmt.Errorf("kv: Delete: could not delete record: %w", err)
	}

	return nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT key FROM records WHERE substr(key, 1, length($1)) = $1", prefix)
	if err != nil {
		return nil, fmt.Errorf("kv: List: could not query records: %w", err)
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("kv: List: could not scan key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("kv: List: could not iterate keys: %w", err)
	}

	return keys, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
