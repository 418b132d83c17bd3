package handlers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeQRPayload(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		branchID int
		token    string
		wantErr  bool
	}{
		{"object form", `{"branch_id":3,"token":"abc"}`, 3, "abc", false},
		{"string form", `"{\"branch_id\":7,\"token\":\"def\"}"`, 7, "def", false},
		{"missing token", `{"branch_id":3}`, 0, "", true},
		{"missing branch", `{"token":"abc"}`, 0, "", true},
		{"zero branch", `{"branch_id":0,"token":"abc"}`, 0, "", true},
		{"garbage", `"not json at all"`, 0, "", true},
		{"empty string", `""`, 0, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := decodeQRPayload(json.RawMessage(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.branchID, p.BranchID)
			assert.Equal(t, tt.token, p.Token)
		})
	}
}

func TestValidAddress(t *testing.T) {
	assert.True(t, validAddress("192.168.1.10"))
	assert.True(t, validAddress("192.168.1.0/24"))
	assert.True(t, validAddress("2001:db8::1"))
	assert.False(t, validAddress("192.168.1"))
	assert.False(t, validAddress("192.168.1.0/33"))
	assert.False(t, validAddress("office-network"))
	assert.False(t, validAddress(""))
}

func TestScheduleBodyValidate(t *testing.T) {
	lunch := func(s string) *string { return &s }

	ok := scheduleBody{Name: "Day", WorkStartTime: "09:00:00", WorkEndTime: "18:00:00"}
	assert.Empty(t, ok.validate())

	withLunch := ok
	withLunch.LunchStartTime = lunch("12:00:00")
	withLunch.LunchEndTime = lunch("13:00:00")
	assert.Empty(t, withLunch.validate())

	halfLunch := ok
	halfLunch.LunchStartTime = lunch("12:00:00")
	assert.NotEmpty(t, halfLunch.validate())

	badClock := ok
	badClock.WorkStartTime = "9am"
	assert.NotEmpty(t, badClock.validate())
}
