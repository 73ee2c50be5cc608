package usecase

import "errors"

var (
	// ErrEmptyMessage is returned when the message to analyse is missing or blank.
	ErrEmptyMessage = errors.New("message is required")
	// ErrEmptyImage is returned when an image upload carries no bytes.
	ErrEmptyImage = errors.New("image is required")
	// ErrNoTextFound is returned when text extraction finds nothing to analyse.
	ErrNoTextFound = errors.New("no text found in image")
	// ErrTextExtractorUnavailable is returned when no text extractor is configured.
	ErrTextExtractorUnavailable = errors.New("text extraction is not configured")
	// ErrTextExtractionFailed wraps a failing text extractor.
	ErrTextExtractionFailed = errors.New("text extraction failed")
	// ErrAssessmentNotFound is returned when no stored assessment has the requested ID.
	ErrAssessmentNotFound = errors.New("assessment not found")
	// ErrStoreUnavailable is returned when no assessment store is configured.
	ErrStoreUnavailable = errors.New("assessment store is not configured")
)
