package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator_ValidateSubmitAnswers(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name       string
		answers    map[string]string
		want       map[int]string
		wantFields []string
	}{
		{
			name:    "valid",
			answers: map[string]string{"1": "C) Paris", "12": " east "},
			want:    map[int]string{1: "C) Paris", 12: " east "},
		},
		{
			name:    "empty submission",
			answers: map[string]string{},
			want:    map[int]string{},
		},
		{
			name:       "non numeric key",
			answers:    map[string]string{"first": "A"},
			wantFields: []string{"answers.first"},
		},
		{
			name:       "zero question number",
			answers:    map[string]string{"0": "A"},
			wantFields: []string{"answers.0"},
		},
		{
			name:       "answer too long",
			answers:    map[string]string{"3": strings.Repeat("x", MaxAnswerLength+1)},
			wantFields: []string{"answers.3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errs := v.ValidateSubmitAnswers(tt.answers)
			if len(tt.wantFields) > 0 {
				assert.Nil(t, got)
				var fields []string
				for _, e := range errs {
					fields = append(fields, e.Field)
				}
				assert.ElementsMatch(t, tt.wantFields, fields)
				return
			}
			assert.Empty(t, errs)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidator_ValidateUpload(t *testing.T) {
	v := NewValidator()
	assert.Empty(t, v.ValidateUpload("notes.PDF", 2048, 4096))
	assert.Empty(t, v.ValidateUpload("notes.md", 10, 0))
	assert.Len(t, v.ValidateUpload("", 10, 4096), 1)
	assert.Len(t, v.ValidateUpload("deck.pptx", 10, 4096), 1)
	assert.Len(t, v.ValidateUpload("notes.pdf", 8192, 4096), 1)
	assert.Len(t, v.ValidateUpload("notes.pdf", 0, 4096), 1)
}

func TestValidator_ValidateSessionID(t *testing.T) {
	v := NewValidator()
	assert.Empty(t, v.ValidateSessionID("01HGZ8VNRYXS8QKNJV5GRWPWDQ"))
	assert.Len(t, v.ValidateSessionID(""), 1)
	assert.Len(t, v.ValidateSessionID("session-1"), 1)
}
