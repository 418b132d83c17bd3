package security

import "strconv"

// Settings is the per-request snapshot of the operator-controlled toggles
// and thresholds. A fresh snapshot is taken at the start of every pipeline
// run so threshold changes apply to the very next scan.
type Settings struct {
	IPRestrictionEnabled    bool
	AntiGpsSpoofEnabled     bool
	MaxGpsAccuracy          float64
	FaceVerificationEnabled bool
	FaceSimilarityThreshold float64
}

const (
	DefaultMaxGpsAccuracy          = 50
	DefaultFaceSimilarityThreshold = 0.6
)

// ParseSettings builds a snapshot from raw key/value rows. Missing or
// unparseable numeric values fall back to the defaults; missing toggles
// read as off.
func ParseSettings(raw map[string]string) Settings {
	s := Settings{
		IPRestrictionEnabled:    raw["ip_restriction_enabled"] == "true",
		AntiGpsSpoofEnabled:     raw["anti_gps_spoof_enabled"] == "true",
		FaceVerificationEnabled: raw["face_verification_enabled"] == "true",
		MaxGpsAccuracy:          DefaultMaxGpsAccuracy,
		FaceSimilarityThreshold: DefaultFaceSimilarityThreshold,
	}
	if v, err := strconv.ParseFloat(raw["max_gps_accuracy"], 64); err == nil {
		s.MaxGpsAccuracy = v
	}
	if v, err := strconv.ParseFloat(raw["face_similarity_threshold"], 64); err == nil {
		s.FaceSimilarityThreshold = v
	}
	return s
}
