package validation

import (
	"path/filepath"
	"strconv"
	"strings"

	"pdf-study-agent/internal/domain"
	"pdf-study-agent/internal/util"
)

const (
	// MaxAnswerLength bounds a single free-text answer.
	MaxAnswerLength = 2000
	// MaxAnswers bounds how many selections one submission may carry.
	MaxAnswers = 200
)

var allowedExtensions = map[string]bool{".pdf": true, ".txt": true, ".md": true, ".markdown": true}

// Validator checks request input before it reaches the study service.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateSessionID checks that id looks like a session id.
func (v *Validator) ValidateSessionID(id string) domain.ValidationErrors {
	var errs domain.ValidationErrors
	if strings.TrimSpace(id) == "" {
		errs = append(errs, domain.NewMissingFieldError("session_id"))
	} else if !util.IsULID(id) {
		errs = append(errs, domain.NewInvalidFormatError("session_id", id))
	}
	return errs
}

// ValidateUpload checks the uploaded file's name and size.
func (v *Validator) ValidateUpload(fileName string, size int64, maxBytes int) domain.ValidationErrors {
	var errs domain.ValidationErrors
	if strings.TrimSpace(fileName) == "" {
		errs = append(errs, domain.NewMissingFieldError("file"))
		return errs
	}
	if ext := strings.ToLower(filepath.Ext(fileName)); !allowedExtensions[ext] {
		errs = append(errs, domain.NewInvalidFormatError("file", fileName))
	}
	if size <= 0 || (maxBytes > 0 && size > int64(maxBytes)) {
		errs = append(errs, domain.NewOutOfRangeError("file_size", size, 1, maxBytes))
	}
	return errs
}

// ValidateSubmitAnswers converts the JSON answer map, keyed by question
// number, into selections. Every problem is reported, not just the first.
func (v *Validator) ValidateSubmitAnswers(answers map[string]string) (map[int]string, domain.ValidationErrors) {
	var errs domain.ValidationErrors
	if len(answers) > MaxAnswers {
		errs = append(errs, domain.NewOutOfRangeError("answers", len(answers), 0, MaxAnswers))
		return nil, errs
	}

	selections := make(map[int]string, len(answers))
	for key, answer := range answers {
		number, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil || number <= 0 {
			errs = append(errs, domain.NewInvalidFormatError("answers."+key, key))
			continue
		}
		if len(answer) > MaxAnswerLength {
			errs = append(errs, domain.NewOutOfRangeError("answers."+key, len(answer), 0, MaxAnswerLength))
			continue
		}
		selections[number] = answer
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return selections, nil
}
