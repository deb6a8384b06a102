package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ErrUnsupportedDriver 在配置了未知数据库驱动时返回。
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Open 根据驱动名打开 gorm 连接。sqlite 的 dsn 为空时回退到 folio.db。
// postgres 通过 lib/pq 建立连接，错误以 *pq.Error 形式返回。
func Open(driver, dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverSQLite:
		path := strings.TrimSpace(dsn)
		if path == "" {
			path = "folio.db"
		}
		if err := ensureParentDir(path); err != nil {
			return nil, err
		}
		return gorm.Open(sqlite.Open(path), cfg)
	case DriverPostgres:
		sqlDB, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, driver)
	}
}

// AutoMigrate 为全部内容表、留言表与后台账号表建表。
func AutoMigrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&SiteSettings{},
		&HeroSection{},
		&AboutSection{},
		&PersonalInfo{},
		&Skill{},
		&Tool{},
		&Experience{},
		&Product{},
		&Project{},
		&CaseStudy{},
		&Education{},
		&Certification{},
		&AnimatedStat{},
		&ContactMessage{},
		&AdminIdentity{},
		&AdminProfile{},
		&AuthSession{},
	)
}

// IsMissingTable 判断错误是否源于数据表尚未创建。
// sqlite 报告 "no such table"，postgres 返回 SQLSTATE 42P01。
func IsMissingTable(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "42P01"
	}
	msg := err.Error()
	return strings.Contains(msg, "no such table") || strings.Contains(msg, "SQLSTATE 42P01")
}

func ensureParentDir(path string) error {
	if strings.HasPrefix(path, "file:") || path == ":memory:" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
