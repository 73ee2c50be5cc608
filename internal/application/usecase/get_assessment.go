package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/scam-service/internal/application/dto"
	"github.com/bibbank/scam-service/internal/domain/port"
)

// GetAssessment is the use case for retrieving a stored assessment.
type GetAssessment struct {
	repo port.AssessmentRepository
}

// NewGetAssessment creates a new GetAssessment use case. repo may be nil when
// no store is configured.
func NewGetAssessment(repo port.AssessmentRepository) *GetAssessment {
	return &GetAssessment{repo: repo}
}

// Execute retrieves an assessment by ID.
func (uc *GetAssessment) Execute(ctx context.Context, req dto.GetAssessmentRequest) (dto.AssessmentResponse, error) {
	if uc.repo == nil {
		return dto.AssessmentResponse{}, ErrStoreUnavailable
	}

	assessment, err := uc.repo.FindByID(ctx, req.AssessmentID)
	if err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("failed to find assessment: %w", err)
	}
	if assessment == nil {
		return dto.AssessmentResponse{}, fmt.Errorf("%w: %s", ErrAssessmentNotFound, req.AssessmentID)
	}

	return dto.FromModel(assessment), nil
}
