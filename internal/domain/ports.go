package domain

import "context"

// TextExtractor turns an uploaded document into plain text.
type TextExtractor interface {
	// Extract returns the document's text. Unreadable, corrupted or
	// unsupported documents fail with an EXTRACTION_FAILURE error.
	Extract(ctx context.Context, fileName string, data []byte) (string, error)
}

// TextGenerator sends one prompt to a generative model and returns its text.
// Failures are reported as SAFETY_BLOCKED, EMPTY_GENERATION or TRANSPORT_ERROR.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	// Name identifies the backing model for logs and the session view.
	Name() string
}
