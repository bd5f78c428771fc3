package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConditionLabel(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		locale   string
		expected string
	}{
		{"good in english", "good", "en", "Good"},
		{"good in french", "good", "fr", "Bon"},
		{"new in english", "new", "en", "New"},
		{"broken in french", "broken", "fr", "Hors service"},
		{"unknown code falls back to raw code", "zzz-unknown", "en", "zzz-unknown"},
		{"unknown locale falls back to english", "medium", "pl", "Medium"},
		{"empty code stays empty", "", "en", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ConditionLabel(tt.code, tt.locale))
		})
	}
}

func TestNewCondition(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid good", "good", false},
		{"valid damaged", "damaged", false},
		{"invalid unknown", "pristine", true},
		{"invalid empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewCondition(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewCondition() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err == nil && !got.IsValid() {
				t.Errorf("NewCondition() = %v is not valid", got)
			}
		})
	}
}
