package core

import "time"

// GpsSecurityLog is the append-only location trail. One row lands per
// evaluated scan attempt whether the scan passed or not; the sequential
// spoof heuristics read this same table.
type GpsSecurityLog struct {
	ID         int       `gorm:"primaryKey;autoIncrement" json:"id"`
	EmployeeID int       `gorm:"index:idx_gps_employee_created;not null" json:"employee_id"`
	Latitude   float64   `gorm:"type:decimal(10,7);not null" json:"latitude"`
	Longitude  float64   `gorm:"type:decimal(10,7);not null" json:"longitude"`
	Accuracy   *float64  `json:"accuracy"`
	Speed      *float64  `json:"speed"`
	Altitude   *float64  `json:"altitude"`
	Heading    *float64  `json:"heading"`
	IsMocked   bool      `gorm:"not null;default:false" json:"is_mocked"`
	RiskLevel  string    `gorm:"size:10;not null" json:"risk_level"`
	Reason     *string   `gorm:"size:255" json:"reason"`
	CreatedAt  time.Time `gorm:"index:idx_gps_employee_created" json:"created_at"`
}

func (GpsSecurityLog) TableName() string {
	return "gps_security_logs"
}

// FaceVerificationLog is the append-only biometric trail. SimilarityScore
// is null for the no_template outcome.
type FaceVerificationLog struct {
	ID              int       `gorm:"primaryKey;autoIncrement" json:"id"`
	EmployeeID      int       `gorm:"index;not null" json:"employee_id"`
	SimilarityScore *float64  `gorm:"type:decimal(6,4)" json:"similarity_score"`
	Status          string    `gorm:"size:12;not null" json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

func (FaceVerificationLog) TableName() string {
	return "face_verification_logs"
}
