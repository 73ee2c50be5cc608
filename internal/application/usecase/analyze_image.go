package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bibbank/scam-service/internal/application/dto"
	"github.com/bibbank/scam-service/internal/domain/port"
)

// AnalyzeImage recovers text from an image and analyses it like a message.
type AnalyzeImage struct {
	ocr     port.TextExtractor
	analyze *AnalyzeMessage
	logger  *slog.Logger
}

// NewAnalyzeImage creates a new AnalyzeImage use case. ocr may be nil.
func NewAnalyzeImage(ocr port.TextExtractor, analyze *AnalyzeMessage, logger *slog.Logger) *AnalyzeImage {
	return &AnalyzeImage{ocr: ocr, analyze: analyze, logger: logger}
}

// Execute extracts the text and runs the message pipeline over it.
func (uc *AnalyzeImage) Execute(ctx context.Context, req dto.AnalyzeImageRequest) (dto.ImageAnalysisResponse, error) {
	if len(req.Image) == 0 {
		return dto.ImageAnalysisResponse{}, ErrEmptyImage
	}
	if uc.ocr == nil {
		return dto.ImageAnalysisResponse{}, ErrTextExtractorUnavailable
	}

	text, err := uc.ocr.ExtractText(ctx, req.Image)
	if err != nil {
		uc.logger.Warn("text extraction failed", "filename", req.Filename, "error", err)
		return dto.ImageAnalysisResponse{}, fmt.Errorf("%w: %v", ErrTextExtractionFailed, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return dto.ImageAnalysisResponse{}, ErrNoTextFound
	}

	resp, err := uc.analyze.Execute(ctx, dto.AnalyzeMessageRequest{Message: text})
	if err != nil {
		return dto.ImageAnalysisResponse{}, err
	}
	return dto.ImageAnalysisResponse{Text: text, AnalysisResponse: resp}, nil
}
