// Package extractor turns uploaded documents into plain text.
package extractor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"pdf-study-agent/internal/domain"
	"pdf-study-agent/internal/logger"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"
)

var pdfMagic = []byte("%PDF-")

func init() {
	// pdfcpu otherwise creates a config directory under the user's home.
	model.ConfigPath = "disable"
}

// DocumentExtractor implements domain.TextExtractor for PDF and plain text uploads.
type DocumentExtractor struct {
	maxBytes int
}

// NewDocumentExtractor returns an extractor that rejects uploads larger than
// maxBytes. A non-positive maxBytes disables the check.
func NewDocumentExtractor(maxBytes int) *DocumentExtractor {
	return &DocumentExtractor{maxBytes: maxBytes}
}

// Extract implements domain.TextExtractor.
func (e *DocumentExtractor) Extract(ctx context.Context, fileName string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", domain.NewExtractionFailureError("The upload was cancelled before the document could be read.", err)
	}
	if len(data) == 0 {
		return "", domain.NewExtractionFailureError("The uploaded file is empty.", nil)
	}
	if e.maxBytes > 0 && len(data) > e.maxBytes {
		return "", domain.NewExtractionFailureError(
			fmt.Sprintf("The uploaded file is too large (%d bytes, limit %d).", len(data), e.maxBytes), nil)
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	switch {
	case ext == ".pdf" || bytes.HasPrefix(data, pdfMagic):
		return extractPDF(fileName, data)
	case ext == ".txt" || ext == ".md" || ext == ".markdown":
		if !utf8.Valid(data) {
			return "", domain.NewExtractionFailureError("The text file is not valid UTF-8.", nil)
		}
		return string(data), nil
	default:
		return "", domain.NewExtractionFailureError(
			fmt.Sprintf("Unsupported file type %q. Upload a PDF or a text file.", ext), nil).
			WithContext("file_name", fileName)
	}
}

func pdfConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

func extractPDF(fileName string, data []byte) (string, error) {
	l := logger.Get()
	conf := pdfConfiguration()

	if err := api.Validate(bytes.NewReader(data), conf); err != nil {
		l.Warn("PDF validation failed", zap.String("file", fileName), zap.Error(err))
		return "", domain.NewExtractionFailureError(
			"Could not read the PDF file. It might be corrupted or encrypted.", err).
			WithContext("file_name", fileName)
	}
	pages, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return "", domain.NewExtractionFailureError("Could not count the PDF pages.", err)
	}

	text, err := plainText(data)
	if err != nil {
		l.Warn("PDF text extraction failed", zap.String("file", fileName), zap.Int("pages", pages), zap.Error(err))
		return "", domain.NewExtractionFailureError(
			"An unexpected error occurred while reading the PDF.", err).
			WithContext("file_name", fileName)
	}

	l.Info("Extracted PDF text",
		zap.String("file", fileName),
		zap.Int("pages", pages),
		zap.Int("characters", utf8.RuneCountInString(text)))
	return text, nil
}

// plainText reads every page's text. The reader panics on some malformed
// content streams, so panics are turned into errors.
func plainText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	content, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	b, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
