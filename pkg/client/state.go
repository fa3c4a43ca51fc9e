package client

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// State manages client-side persistent state: remembered settings,
// connection history and per-session network statistics.
type State struct {
	db  *sql.DB
	dir string
}

// OpenState opens or creates the client state database.
func OpenState(path string) (*State, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}

	// Client only needs one connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	state := &State{
		db:  db,
		dir: dir,
	}

	if err := state.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return state, nil
}

// Close closes the state database.
func (s *State) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist.
func (s *State) initSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS Config (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS ConnectionHistory (
	server_address TEXT PRIMARY KEY,
	last_callsign TEXT NOT NULL,
	last_success_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS SessionStats (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	server_address TEXT NOT NULL,
	callsign TEXT NOT NULL,
	connected_at INTEGER NOT NULL,
	duration_seconds INTEGER NOT NULL,
	bytes_sent INTEGER NOT NULL,
	bytes_received INTEGER NOT NULL,
	disconnect_reason TEXT
);
`
	_, err := s.db.Exec(schema)
	return err
}

// GetConfig retrieves a configuration value.
func (s *State) GetConfig(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM Config WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetConfig stores a configuration value.
func (s *State) SetConfig(key, value string) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO Config (key, value) VALUES (?, ?)
	`, key, value)
	return err
}

// GetLastCallsign returns the last used callsign.
func (s *State) GetLastCallsign() string {
	callsign, _ := s.GetConfig("last_callsign")
	return callsign
}

// SetLastCallsign stores the last used callsign.
func (s *State) SetLastCallsign(callsign string) error {
	return s.SetConfig("last_callsign", callsign)
}

// GetLastServer returns the last server connected to.
func (s *State) GetLastServer() string {
	server, _ := s.GetConfig("last_server")
	return server
}

// SetLastServer stores the last server connected to.
func (s *State) SetLastServer(server string) error {
	return s.SetConfig("last_server", server)
}

// SaveSuccessfulConnection records a completed login against a server.
func (s *State) SaveSuccessfulConnection(serverAddress, callsign string) error {
	now := time.Now().Unix()
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO ConnectionHistory (server_address, last_callsign, last_success_at)
		VALUES (?, ?, ?)
	`, serverAddress, callsign, now)
	return err
}

// GetLastCallsignFor retrieves the callsign last used on a server.
func (s *State) GetLastCallsignFor(serverAddress string) (string, error) {
	var callsign string
	err := s.db.QueryRow(`
		SELECT last_callsign
		FROM ConnectionHistory
		WHERE server_address = ?
	`, serverAddress).Scan(&callsign)

	if err == sql.ErrNoRows {
		return "", nil
	}
	return callsign, err
}

// SessionStats is one finished session's traffic summary.
type SessionStats struct {
	ServerAddress    string
	Callsign         string
	ConnectedAt      time.Time
	Duration         time.Duration
	BytesSent        uint64
	BytesReceived    uint64
	DisconnectReason string
}

// SaveSessionStats appends a session summary.
func (s *State) SaveSessionStats(stats SessionStats) error {
	_, err := s.db.Exec(`
		INSERT INTO SessionStats
			(server_address, callsign, connected_at, duration_seconds, bytes_sent, bytes_received, disconnect_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, stats.ServerAddress, stats.Callsign, stats.ConnectedAt.Unix(),
		int64(stats.Duration.Seconds()), stats.BytesSent, stats.BytesReceived,
		stats.DisconnectReason)
	return err
}

// RecentSessionStats returns the most recent session summaries, newest
// first.
func (s *State) RecentSessionStats(limit int) ([]SessionStats, error) {
	rows, err := s.db.Query(`
		SELECT server_address, callsign, connected_at, duration_seconds,
			bytes_sent, bytes_received, COALESCE(disconnect_reason, '')
		FROM SessionStats
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []SessionStats
	for rows.Next() {
		var st SessionStats
		var connectedAt, durationSecs int64
		if err := rows.Scan(&st.ServerAddress, &st.Callsign, &connectedAt,
			&durationSecs, &st.BytesSent, &st.BytesReceived, &st.DisconnectReason); err != nil {
			return nil, err
		}
		st.ConnectedAt = time.Unix(connectedAt, 0)
		st.Duration = time.Duration(durationSecs) * time.Second
		result = append(result, st)
	}
	return result, rows.Err()
}

// GetStateDir returns the directory where state is stored.
func (s *State) GetStateDir() string {
	return s.dir
}
