package kvstore

import (
	"database/sql"
	"encoding/json"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/BurntPizza/logos/pkg/errs"
)

// sqliteStore is the "logos:sqlite://<path>" backend: a single SQLite
// file holding both the blob table and the one-row root pointer. The
// pure-Go modernc.org/sqlite driver means this backend needs no cgo
// toolchain to build.
type sqliteStore struct {
	mu sync.Mutex
	db *sql.DB
}

// NewSQLiteStore opens (creating if necessary) the SQLite file at path.
func NewSQLiteStore(path string) (Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errs.StoreIO("sqlite open", err)
	}
	// A single logical writer per the database's concurrency model; one
	// connection avoids SQLITE_BUSY from concurrent writers on this process.
	db.SetMaxOpenConns(1)

	schema := []string{
		`CREATE TABLE IF NOT EXISTS blobs (
			key   TEXT PRIMARY KEY,
			value BLOB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS root (
			id       INTEGER PRIMARY KEY CHECK (id = 1),
			next_id  INTEGER NOT NULL,
			idents   BLOB NOT NULL,
			eav_root TEXT NOT NULL,
			aev_root TEXT NOT NULL,
			ave_root TEXT NOT NULL
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, errs.StoreIO("sqlite schema", err)
		}
	}
	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Add(blob []byte) (string, error) {
	key := contentKey(blob)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(`INSERT OR IGNORE INTO blobs (key, value) VALUES (?, ?)`, key, blob); err != nil {
		return "", errs.StoreIO("sqlite add", err)
	}
	return key, nil
}

func (s *sqliteStore) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var blob []byte
	err := s.db.QueryRow(`SELECT value FROM blobs WHERE key = ?`, key).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound(key)
	}
	if err != nil {
		return nil, errs.StoreIO("sqlite get", err)
	}
	return blob, nil
}

func (s *sqliteStore) GetContents() (Contents, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var c Contents
	var identsBlob []byte
	row := s.db.QueryRow(`SELECT next_id, idents, eav_root, aev_root, ave_root FROM root WHERE id = 1`)
	err := row.Scan(&c.NextID, &identsBlob, &c.EAVRoot, &c.AEVRoot, &c.AVERoot)
	if err == sql.ErrNoRows {
		return Contents{}, nil
	}
	if err != nil {
		return Contents{}, errs.StoreIO("sqlite get_contents", err)
	}
	if err := json.Unmarshal(identsBlob, &c.Idents); err != nil {
		return Contents{}, errs.StoreIO("sqlite decode idents", err)
	}
	return c, nil
}

func (s *sqliteStore) SetContents(c Contents) error {
	identsBlob, err := json.Marshal(c.Idents)
	if err != nil {
		return errs.StoreIO("sqlite encode idents", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.Exec(`
		INSERT INTO root (id, next_id, idents, eav_root, aev_root, ave_root)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			next_id = excluded.next_id,
			idents = excluded.idents,
			eav_root = excluded.eav_root,
			aev_root = excluded.aev_root,
			ave_root = excluded.ave_root`,
		c.NextID, identsBlob, c.EAVRoot, c.AEVRoot, c.AVERoot)
	if err != nil {
		return errs.StoreIO("sqlite set_contents", err)
	}
	return nil
}

// Close releases the underlying SQLite connection.
func (s *sqliteStore) Close() error { return s.db.Close() }
