package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormStore keeps dares and submissions in a SQL database.
type GormStore struct {
	db *gorm.DB
}

// OpenGorm opens a SQL database for driver (postgres, mysql or sqlite) and
// migrates the schema. GORM warnings and slow queries go to zl.
func OpenGorm(driver, dsn string, zl *zap.Logger) (*GormStore, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger(zl),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", driver, err)
	}
	return NewGormStore(db)
}

// gormLogger routes GORM output through zap. A missing dare is an expected
// lookup result, not a warning.
func gormLogger(zl *zap.Logger) logger.Interface {
	if zl == nil {
		zl = zap.NewNop()
	}
	return logger.New(zap.NewStdLog(zl.Named("gorm")), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// NewGormStore migrates the schema on an existing connection.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&Dare{}, &Submission{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// nextNumber reads the current maximum of column inside tx.
func nextNumber(tx *gorm.DB, model interface{}, column string) (int64, error) {
	var last int64
	err := tx.Model(model).
		Select("COALESCE(MAX(" + column + "), 0)").
		Scan(&last).Error
	if err != nil {
		return 0, err
	}
	return last + 1, nil
}

func (s *GormStore) CreateDare(ctx context.Context, d *Dare) error {
	if err := d.Validate(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := nextNumber(tx, &Dare{}, "dare_number")
		if err != nil {
			return fmt.Errorf("failed to read last dare number: %w", err)
		}
		d.DareNumber = n
		if err := tx.Create(d).Error; err != nil {
			return fmt.Errorf("failed to insert dare: %w", err)
		}
		return nil
	})
}

func (s *GormStore) DareByNumber(ctx context.Context, number int64) (*Dare, error) {
	var d Dare
	err := s.db.WithContext(ctx).Where("dare_number = ?", number).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load dare %d: %w", number, err)
	}
	return &d, nil
}

func (s *GormStore) CreateSubmission(ctx context.Context, sub *Submission) error {
	if err := sub.Validate(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := nextNumber(tx, &Submission{}, "submission_number")
		if err != nil {
			return fmt.Errorf("failed to read last submission number: %w", err)
		}
		sub.SubmissionNumber = n
		if err := tx.Create(sub).Error; err != nil {
			return fmt.Errorf("failed to insert submission: %w", err)
		}
		return nil
	})
}

func (s *GormStore) SubmissionsForDare(ctx context.Context, dareNumber int64) ([]Submission, error) {
	var subs []Submission
	err := s.db.WithContext(ctx).
		Where("dare_number = ?", dareNumber).
		Order("submission_number ASC").
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions for dare %d: %w", dareNumber, err)
	}
	return subs, nil
}

func (s *GormStore) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
