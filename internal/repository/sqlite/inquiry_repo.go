package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studio-inquiry-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// inquiryRow is the gorm model for contact_inquiries
type inquiryRow struct {
	ID             string    `gorm:"primaryKey;type:text"`
	Name           string    `gorm:"size:120;not null"`
	Email          string    `gorm:"size:254;not null"`
	ProjectDetails string    `gorm:"type:text;not null"`
	CreatedAt      time.Time `gorm:"not null;index"`
}

func (inquiryRow) TableName() string {
	return "contact_inquiries"
}

func toRow(in *domain.ContactInquiry) inquiryRow {
	return inquiryRow{
		ID:             in.ID.String(),
		Name:           in.Name,
		Email:          in.Email,
		ProjectDetails: in.ProjectDetails,
		CreatedAt:      in.CreatedAt,
	}
}

func (r inquiryRow) toDomain() (*domain.ContactInquiry, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("stored inquiry id %q: %w", r.ID, err)
	}
	return &domain.ContactInquiry{
		ID:             id,
		Name:           r.Name,
		Email:          r.Email,
		ProjectDetails: r.ProjectDetails,
		CreatedAt:      r.CreatedAt.UTC(),
	}, nil
}

type inquiryRepo struct {
	db *gorm.DB
}

// Open connects to the sqlite database at dsn and migrates the schema.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite connection pool: %w", err)
	}
	// sqlite serialises writers; one connection avoids SQLITE_BUSY under concurrent creates
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&inquiryRow{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("auto migration failed for contact_inquiries: %w", err)
	}
	return db, nil
}

// Close releases the connection pool behind db
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func NewInquiryRepository(db *gorm.DB) domain.InquiryRepository {
	return &inquiryRepo{db: db}
}

func (r *inquiryRepo) Create(ctx context.Context, inquiry *domain.ContactInquiry) error {
	row := toRow(inquiry)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert contact inquiry: %w", err)
	}
	return nil
}

func (r *inquiryRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ContactInquiry, error) {
	var row inquiryRow
	err := r.db.WithContext(ctx).First(&row, "id = ?", id.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return row.toDomain()
}

func (r *inquiryRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
