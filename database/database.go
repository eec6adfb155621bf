package database

import (
	"database/sql"
	"fmt"

	"prdconsole/logger"
	"prdconsole/utils"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

var DB *sql.DB
var dbType string

// Initialize 데이터베이스 초기화
// t: "sqlite" 또는 "mysql"
// dsn: SQLite 파일 경로 또는 MySQL DSN
func Initialize(t, dsn string) error {
	var err error

	if t == "" {
		t = "sqlite"
	}
	if dsn == "" && t == "sqlite" {
		dsn = "./console.db"
	}

	dbType = t

	DB, err = sql.Open(dbType, dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err := DB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	// SQLite 전용: 외래키 강제 활성화 (기본값 off)
	if dbType == "sqlite" {
		if _, err := DB.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	if err := createTables(); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	if err := seedDefaultAdmin(); err != nil {
		return fmt.Errorf("failed to seed default admin: %w", err)
	}

	if err := seedPinnedSkins(); err != nil {
		return fmt.Errorf("failed to seed pinned skins: %w", err)
	}

	if err := seedReservedKeys(); err != nil {
		return fmt.Errorf("failed to seed reserved keys: %w", err)
	}

	if err := seedBrandingRow(); err != nil {
		return fmt.Errorf("failed to seed branding row: %w", err)
	}

	logger.Info("Database initialized successfully (%s)", dbType)
	return nil
}

// createTables 테이블 생성 (SQLite/MySQL 공용 스키마)
func createTables() error {
	tables := []string{
		// 관리자 테이블
		`CREATE TABLE IF NOT EXISTS admins (
			id VARCHAR(50) PRIMARY KEY,
			username VARCHAR(100) UNIQUE NOT NULL,
			password VARCHAR(255) NOT NULL,
			email VARCHAR(100) NOT NULL DEFAULT '',
			role VARCHAR(50) NOT NULL DEFAULT 'admin',
			created_at VARCHAR(50) NOT NULL DEFAULT '',
			updated_at VARCHAR(50) NOT NULL DEFAULT ''
		)`,

		// 스킨 테이블
		`CREATE TABLE IF NOT EXISTS skins (
			name VARCHAR(32) PRIMARY KEY,
			enabled INTEGER NOT NULL DEFAULT 1,
			created_at VARCHAR(50) NOT NULL DEFAULT ''
		)`,

		// 자산 키 테이블
		`CREATE TABLE IF NOT EXISTS asset_keys (
			id VARCHAR(50) PRIMARY KEY,
			asset_key VARCHAR(128) UNIQUE NOT NULL,
			kind VARCHAR(20) NOT NULL DEFAULT 'image',
			description TEXT,
			required INTEGER NOT NULL DEFAULT 0,
			created_at VARCHAR(50) NOT NULL DEFAULT '',
			updated_at VARCHAR(50) NOT NULL DEFAULT ''
		)`,

		// 자산 파일 테이블 (skin이 빈 문자열이면 기본 변형)
		`CREATE TABLE IF NOT EXISTS assets (
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

		// 브랜딩 테이블 (단일 행)
		`CREATE TABLE IF NOT EXISTS branding (
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
		if _, err := DB.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

// seedDefaultAdmin 기본 관리자 계정 생성 (admin / admin123)
func seedDefaultAdmin() error {
	var count int
	if err := DB.QueryRow("SELECT COUNT(*) FROM admins").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	id, err := utils.GenerateID("ADM")
	if err != nil {
		return err
	}

	hashed, err := utils.HashPassword("admin123")
	if err != nil {
		return err
	}

	now := utils.FormatDateTimeForDB(utils.NowShanghai())
	_, err = DB.Exec(
		"INSERT INTO admins (id, username, password, email, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		id, "admin", hashed, "admin@example.com", "admin", now, now,
	)
	if err != nil {
		return err
	}

	logger.Warn("Default admin created (admin/admin123) - change the password")
	return nil
}

// seedPinnedSkins 고정 스킨(white/dark) 생성
func seedPinnedSkins() error {
	now := utils.FormatDateTimeForDB(utils.NowShanghai())
	for _, name := range []string{"white", "dark"} {
		var count int
		if err := DB.QueryRow("SELECT COUNT(*) FROM skins WHERE name = ?", name).Scan(&count); err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if _, err := DB.Exec("INSERT INTO skins (name, enabled, created_at) VALUES (?, 1, ?)", name, now); err != nil {
			return err
		}
	}
	return nil
}

// seedReservedKeys 예약 키(load, start_load, login_icon) 생성
func seedReservedKeys() error {
	now := utils.FormatDateTimeForDB(utils.NowShanghai())
	for _, key := range []string{"load", "start_load", "login_icon"} {
		var count int
		if err := DB.QueryRow("SELECT COUNT(*) FROM asset_keys WHERE asset_key = ?", key).Scan(&count); err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		id, err := utils.GenerateID("KEY")
		if err != nil {
			return err
		}
		_, err = DB.Exec(
			"INSERT INTO asset_keys (id, asset_key, kind, description, required, created_at, updated_at) VALUES (?, ?, 'image', '', 1, ?, ?)",
			id, key, now, now,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// seedBrandingRow 브랜딩 단일 행 생성
func seedBrandingRow() error {
	var count int
	if err := DB.QueryRow("SELECT COUNT(*) FROM branding WHERE id = 1").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := utils.FormatDateTimeForDB(utils.NowShanghai())
	_, err := DB.Exec(
		"INSERT INTO branding (id, desktop_name, subtitle, window_title, login_icon_key, login_background_key, updated_at) VALUES (1, 'PRD Desktop', '', '', 'login_icon', 'bg', ?)",
		now,
	)
	return err
}

// Close 데이터베이스 연결 종료
func Close() {
	if DB != nil {
		DB.Close()
	}
}
