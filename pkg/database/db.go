package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arnavshah/roster-api-go/pkg/config"
)

// APIKey represents the api_keys table
type APIKey struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Key        string     `gorm:"unique;not null" json:"-"`
	KeyPreview string     `json:"key_preview"`
	Name       string     `gorm:"not null" json:"name"`
	RateLimit  int        `gorm:"default:10000" json:"rate_limit"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsed   *time.Time `json:"last_used"`
	// revoked keys stay behind so their signature cannot be re-registered
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// APIUsage represents the api_usage table
type APIUsage struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	KeyID        uint   `gorm:"uniqueIndex:idx_key_date;not null" json:"key_id"`
	Date         string `gorm:"uniqueIndex:idx_key_date;not null" json:"date"`
	RequestCount int    `gorm:"default:0" json:"request_count"`
	TotalSlots   int    `gorm:"default:0" json:"total_slots"`
	TotalWorkers int    `gorm:"default:0" json:"total_workers"`
}

// MasterUser represents the master_users table
type MasterUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// TimetableRun is a solved timetable kept for later download
type TimetableRun struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	KeyID       uint      `gorm:"index" json:"key_id"`
	Fingerprint string    `gorm:"index;size:16" json:"fingerprint"`
	Seed        int64     `json:"seed"`
	Cycles      int       `json:"cycles"`
	Slots       int       `json:"slots"`
	Shortfalls  int       `json:"shortfalls"`
	Payload     string    `gorm:"type:text" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// InitDB opens postgres when a URL is configured and sqlite otherwise, then migrates the schema
func InitDB(cfg config.DatabaseSettings, logger *zap.Logger) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	if cfg.URL != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.URL,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	} else {
		path := cfg.Path
		if path == "" {
			path = "api_keys.db"
		}
		db, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
		if err == nil && path == ":memory:" {
			// every pooled connection would otherwise see its own empty database
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				sqlDB.SetMaxOpenConns(1)
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := db.AutoMigrate(&APIKey{}, &APIUsage{}, &MasterUser{}, &TimetableRun{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	logger.Info("database ready", zap.Bool("postgres", cfg.URL != ""))
	return db, nil
}

// RecordUsage adds one request to today's usage row of a key using a single upsert
func RecordUsage(db *gorm.DB, keyID uint, day time.Time, slots, workers int) error {
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"request_count": gorm.Expr("request_count + ?", 1),
			"total_slots":   gorm.Expr("total_slots + ?", slots),
			"total_workers": gorm.Expr("total_workers + ?", workers),
		}),
	}).Create(&APIUsage{
		KeyID:        keyID,
		Date:         day.Format("2006-01-02"),
		RequestCount: 1,
		TotalSlots:   slots,
		TotalWorkers: workers,
	}).Error
}

// UsageForKey returns the latest usage rows of a key, newest first
func UsageForKey(db *gorm.DB, keyID uint, limit int) ([]APIUsage, error) {
	var usage []APIUsage
	err := db.Where("key_id = ?", keyID).Order("date desc").Limit(limit).Find(&usage).Error
	return usage, err
}

// SaveRun stores a solved timetable
func SaveRun(db *gorm.DB, run *TimetableRun) error {
	return db.Create(run).Error
}

// FindRun loads a run owned by keyID
func FindRun(db *gorm.DB, id string, keyID uint) (*TimetableRun, error) {
	var run TimetableRun
	if err := db.Where("id = ? AND key_id = ?", id, keyID).First(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

// RecentRuns lists the latest runs across all keys
func RecentRuns(db *gorm.DB, limit int) ([]TimetableRun, error) {
	var runs []TimetableRun
	err := db.Order("created_at desc").Limit(limit).Find(&runs).Error
	return runs, err
}

// RequestsOn returns how many requests a key made on day
func RequestsOn(db *gorm.DB, keyID uint, day time.Time) (int, error) {
	var usage APIUsage
	err := db.Where("key_id = ? AND date = ?", keyID, day.Format("2006-01-02")).Limit(1).Find(&usage).Error
	return usage.RequestCount, err
}
