package services

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// newTestDB 테스트용 인메모리 SQLite 데이터베이스를 생성합니다.
func newTestDB(t *testing.T) SQLExecutor {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tables := []string{
		`CREATE TABLE skins (
			name VARCHAR(32) PRIMARY KEY,
			enabled INTEGER NOT NULL DEFAULT 1,
			created_at VARCHAR(50) NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE asset_keys (
			id VARCHAR(50) PRIMARY KEY,
			asset_key VARCHAR(128) UNIQUE NOT NULL,
			kind VARCHAR(20) NOT NULL DEFAULT 'image',
			description TEXT,
			required INTEGER NOT NULL DEFAULT 0,
			created_at VARCHAR(50) NOT NULL DEFAULT '',
			updated_at VARCHAR(50) NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE assets (
			id VARCHAR(50) PRIMARY KEY,
			asset_key VARCHAR(128) NOT NULL,
			skin VARCHAR(32) NOT NULL DEFAULT '',
			stored_name VARCHAR(255) NOT NULL,
			storage_path VARCHAR(512) NOT NULL,
			mime_type VARCHAR(100) NOT NULL DEFAULT '',
			file_size BIGINT NOT NULL DEFAULT 0,
			checksum VARCHAR(64) NOT NULL DEFAULT '',
			created_at VARCHAR(50) NOT NULL DEFAULT '',
			updated_at VARCHAR(50) NOT NULL DEFAULT '',
			UNIQUE(asset_key, skin)
		)`,
		`CREATE TABLE branding (
			id INTEGER PRIMARY KEY,
			desktop_name VARCHAR(255) NOT NULL DEFAULT '',
			subtitle VARCHAR(255) NOT NULL DEFAULT '',
			window_title VARCHAR(255) NOT NULL DEFAULT '',
			login_icon_key VARCHAR(128) NOT NULL DEFAULT 'login_icon',
			login_background_key VARCHAR(128) NOT NULL DEFAULT 'bg',
			updated_at VARCHAR(50) NOT NULL DEFAULT ''
		)`,
	}
	for _, query := range tables {
		_, err := db.Exec(query)
		require.NoError(t, err)
	}

	_, err = db.Exec(
		"INSERT INTO branding (id, desktop_name, subtitle, window_title, login_icon_key, login_background_key, updated_at) VALUES (1, 'PRD Desktop', '', '', 'login_icon', 'bg', '')",
	)
	require.NoError(t, err)

	return NewSQLExecutor(db)
}
