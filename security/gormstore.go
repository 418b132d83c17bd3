package security

import (
	"context"
	"errors"
	"time"

	"attendly.com/attendly/core"
	"gorm.io/gorm"
)

// Store adapts the GORM schema to the checker store interfaces.
type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

func (s *Store) QRSecret(ctx context.Context, branchID int) (string, error) {
	var b core.Branch
	err := s.DB.WithContext(ctx).Select("id", "qr_secret").First(&b, branchID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrBranchNotFound
	}
	if err != nil {
		return "", err
	}
	return b.QRSecret, nil
}

func (s *Store) AllowlistEntries(ctx context.Context, branchID int) ([]string, error) {
	var entries []string
	err := s.DB.WithContext(ctx).
		Model(&core.BranchAllowlistEntry{}).
		Where("branch_id = ?", branchID).
		Pluck("ip_address_or_range", &entries).Error
	return entries, err
}

func (s *Store) LastSample(ctx context.Context, employeeID int) (*PrevSample, error) {
	var row core.GpsSecurityLog
	err := s.DB.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &PrevSample{Latitude: row.Latitude, Longitude: row.Longitude, RecordedAt: row.CreatedAt}, nil
}

func (s *Store) RepeatCount(ctx context.Context, employeeID int, lat, lon float64, since time.Time) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).
		Model(&core.GpsSecurityLog{}).
		Where("employee_id = ? AND latitude = ? AND longitude = ? AND created_at >= ?",
			employeeID, lat, lon, since).
		Count(&n).Error
	return n, err
}

func (s *Store) RecordSample(ctx context.Context, entry *core.GpsSecurityLog) error {
	return s.DB.WithContext(ctx).Create(entry).Error
}

func (s *Store) Template(ctx context.Context, employeeID int) ([]float64, error) {
	var emp core.Employee
	err := s.DB.WithContext(ctx).
		Select("id", "face_registered", "face_embedding").
		First(&emp, employeeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return emp.FaceTemplate()
}

func (s *Store) RecordResult(ctx context.Context, entry *core.FaceVerificationLog) error {
	return s.DB.WithContext(ctx).Create(entry).Error
}
