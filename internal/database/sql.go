package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pinet/pinet/internal/logger"
	"github.com/pinet/pinet/internal/models"
)

// pinRecord keeps an auto-increment Seq so listing can follow insertion
// order; PublicID is what clients see as _id.
type pinRecord struct {
	Seq       uint      `gorm:"primaryKey;autoIncrement"`
	PublicID  string    `gorm:"column:public_id;uniqueIndex;not null;type:text"`
	Username  string    `gorm:"not null;type:text"`
	Title     string    `gorm:"not null;type:text"`
	Desc      string    `gorm:"column:description;not null;type:text"`
	Rating    int       `gorm:"not null"`
	Lat       float64   `gorm:"not null"`
	Long      float64   `gorm:"column:lng;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (pinRecord) TableName() string { return "pins" }

func (r *pinRecord) BeforeCreate(tx *gorm.DB) error {
	if r.PublicID == "" {
		r.PublicID = uuid.New().String()
	}
	return nil
}

func (r pinRecord) model() models.Pin {
	return models.Pin{
		ID:        r.PublicID,
		Username:  r.Username,
		Title:     r.Title,
		Desc:      r.Desc,
		Rating:    r.Rating,
		Lat:       r.Lat,
		Long:      r.Long,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type userRecord struct {
	ID           string    `gorm:"primaryKey;type:text"`
	Username     string    `gorm:"uniqueIndex;not null;type:text"`
	Email        string    `gorm:"uniqueIndex;not null;type:text"`
	PasswordHash string    `gorm:"column:password_hash;not null;type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (userRecord) TableName() string { return "users" }

func (r *userRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// SQLStore backs the pin service with SQLite or PostgreSQL through GORM.
type SQLStore struct {
	db     *gorm.DB
	driver string
}

// OpenSQL connects and migrates. driver is "sqlite" or "postgres".
func OpenSQL(driver, dsn string, log *logger.Logger) (*SQLStore, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.New(log, gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		TranslateError: true,
	}

	var (
		db  *gorm.DB
		err error
	)
	switch driver {
	case "postgres":
		db, err = gorm.Open(postgres.Open(dsn), gormConfig)
	case "sqlite":
		if dsn != ":memory:" && !strings.HasPrefix(dsn, ":memory:") {
			if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		db, err = gorm.Open(sqlite.Open(dsn), gormConfig)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if driver == "sqlite" {
		// Every connection to :memory: is a separate database.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
	}

	log.Info("Running GORM AutoMigrate", "driver", driver)
	if err := db.AutoMigrate(&pinRecord{}, &userRecord{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLStore{db: db, driver: driver}, nil
}

func (s *SQLStore) ListPins(ctx context.Context) ([]models.Pin, error) {
	var records []pinRecord
	if err := s.db.WithContext(ctx).Order("seq asc").Find(&records).Error; err != nil {
		return nil, err
	}
	pins := make([]models.Pin, 0, len(records))
	for _, r := range records {
		pins = append(pins, r.model())
	}
	return pins, nil
}

func (s *SQLStore) CreatePin(ctx context.Context, p *models.Pin) error {
	record := pinRecord{
		Username: p.Username,
		Title:    p.Title,
		Desc:     p.Desc,
		Rating:   p.Rating,
		Lat:      p.Lat,
		Long:     p.Long,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return err
	}
	*p = record.model()
	return nil
}

func (s *SQLStore) CreateUser(ctx context.Context, u *models.User) error {
	var count int64
	err := s.db.WithContext(ctx).Model(&userRecord{}).
		Where("username = ? OR email = ?", u.Username, u.Email).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicate
	}

	record := userRecord{
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
	}
	err = s.db.WithContext(ctx).Create(&record).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	u.ID = record.ID
	u.CreatedAt = record.CreatedAt
	u.UpdatedAt = record.UpdatedAt
	return nil
}

func (s *SQLStore) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	var record userRecord
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return models.User{
		ID:           record.ID,
		Username:     record.Username,
		Email:        record.Email,
		PasswordHash: record.PasswordHash,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}, nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *SQLStore) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
