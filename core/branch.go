package core

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type Branch struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Location  string    `gorm:"size:255;not null" json:"location"`
	QRSecret  string    `gorm:"column:qr_secret;size:64;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (Branch) TableName() string {
	return "branches"
}

// BranchAllowlistEntry is one allow-listed client address or CIDR block for
// a branch. A branch with zero entries is unrestricted.
type BranchAllowlistEntry struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	BranchID  int       `gorm:"index;not null" json:"branch_id"`
	CIDR      string    `gorm:"column:ip_address_or_range;size:64;not null" json:"ip_address_or_range"`
	CreatedAt time.Time `json:"created_at"`
}

func (BranchAllowlistEntry) TableName() string {
	return "branch_ip_whitelist"
}

func FindBranchByID(db *gorm.DB, id int) (*Branch, error) {
	var b Branch
	result := db.First(&b, id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil // not found
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &b, nil
}
