package core

import "gorm.io/gorm"

// SecuritySetting rows hold the operator-controlled verification toggles
// and thresholds. Read fresh at the start of every pipeline run.
type SecuritySetting struct {
	Key   string `gorm:"primaryKey;size:64" json:"key"`
	Value string `gorm:"size:255;not null" json:"value"`
}

func (SecuritySetting) TableName() string {
	return "system_security_settings"
}

// Setting rows hold the workday configuration (grace period, fallback
// break duration) shared by the metrics calculator.
type Setting struct {
	ConfigKey   string `gorm:"primaryKey;size:64" json:"config_key"`
	ConfigValue string `gorm:"size:255;not null" json:"config_value"`
}

func (Setting) TableName() string {
	return "settings"
}

func LoadSecuritySettings(db *gorm.DB) (map[string]string, error) {
	var rows []SecuritySetting
	if err := db.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Value
	}
	return out, nil
}

func LoadSettings(db *gorm.DB) (map[string]string, error) {
	var rows []Setting
	if err := db.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.ConfigKey] = r.ConfigValue
	}
	return out, nil
}

var defaultSecuritySettings = map[string]string{
	"ip_restriction_enabled":    "false",
	"anti_gps_spoof_enabled":    "false",
	"max_gps_accuracy":          "50",
	"face_verification_enabled": "false",
	"face_similarity_threshold": "0.6",
}

var defaultSettings = map[string]string{
	"work_start_time": "09:00:00",
	"work_end_time":   "18:00:00",
	"grace_period":    "15",
	"break_duration":  "60",
}

func seedSettings(db *gorm.DB) error {
	for k, v := range defaultSecuritySettings {
		row := SecuritySetting{Key: k, Value: v}
		if err := db.Where(SecuritySetting{Key: k}).FirstOrCreate(&row).Error; err != nil {
			return err
		}
	}
	for k, v := range defaultSettings {
		row := Setting{ConfigKey: k, ConfigValue: v}
		if err := db.Where(Setting{ConfigKey: k}).FirstOrCreate(&row).Error; err != nil {
			return err
		}
	}
	return nil
}
