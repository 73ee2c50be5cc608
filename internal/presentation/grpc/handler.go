package grpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/scam-service/internal/application/dto"
	"github.com/bibbank/scam-service/internal/application/usecase"
)

// Compile-time assertion that ScamServiceHandler implements ScamServiceServer.
var _ ScamServiceServer = (*ScamServiceHandler)(nil)

// ScamServiceHandler implements the gRPC ScamServiceServer interface.
type ScamServiceHandler struct {
	UnimplementedScamServiceServer
	analyzeMessage *usecase.AnalyzeMessage
	getAssessment  *usecase.GetAssessment
	logger         *slog.Logger
}

// NewScamServiceHandler creates a new gRPC handler.
func NewScamServiceHandler(
	analyzeMessage *usecase.AnalyzeMessage,
	getAssessment *usecase.GetAssessment,
	logger *slog.Logger,
) *ScamServiceHandler {
	return &ScamServiceHandler{
		analyzeMessage: analyzeMessage,
		getAssessment:  getAssessment,
		logger:         logger,
	}
}

// Proto-aligned request/response message types.

// AnalyzeMessageRequest represents the proto AnalyzeMessageRequest message.
type AnalyzeMessageRequest struct {
	Message string `json:"message"`
}

// ActionMsg represents the proto Action message.
type ActionMsg struct {
	Title       string   `json:"title"`
	Suggestions []string `json:"suggestions"`
}

// SignalStatusMsg represents the proto SignalStatus message.
type SignalStatusMsg struct {
	Name      string `json:"name"`
	Reason    string `json:"reason,omitempty"`
	Issued    bool   `json:"issued"`
	Available bool   `json:"available"`
}

// AnalyzeMessageResponse represents the proto AnalyzeMessageResponse message.
type AnalyzeMessageResponse struct {
	Action       *ActionMsg         `json:"action"`
	AssessmentID string             `json:"assessment_id"`
	RiskLevel    string             `json:"risk_level"`
	Method       string             `json:"method"`
	URL          string             `json:"url,omitempty"`
	Phone        string             `json:"phone,omitempty"`
	Evidence     []string           `json:"evidence"`
	Signals      []*SignalStatusMsg `json:"signals"`
	RiskScore    int32              `json:"risk_score"`
	Narrative    bool               `json:"narrative"`
}

// GetAssessmentRequest represents the proto GetAssessmentRequest message.
type GetAssessmentRequest struct {
	ID string `json:"id"`
}

// AssessmentMsg represents the proto MessageAssessment message.
type AssessmentMsg struct {
	Features  map[string]float64 `json:"features"`
	Action    *ActionMsg         `json:"action"`
	ID        string             `json:"id"`
	Content   string             `json:"content"`
	URL       string             `json:"url,omitempty"`
	Phone     string             `json:"phone,omitempty"`
	RiskLevel string             `json:"risk_level"`
	Method    string             `json:"method"`
	CreatedAt string             `json:"created_at"`
	Evidence  []string           `json:"evidence"`
	RiskScore int32              `json:"risk_score"`
	Narrative bool               `json:"narrative"`
}

// GetAssessmentResponse represents the proto GetAssessmentResponse message.
type GetAssessmentResponse struct {
	Assessment *AssessmentMsg `json:"assessment"`
}

// AnalyzeMessage scores one message.
func (h *ScamServiceHandler) AnalyzeMessage(ctx context.Context, req *AnalyzeMessageRequest) (*AnalyzeMessageResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	result, err := h.analyzeMessage.Execute(ctx, dto.AnalyzeMessageRequest{Message: req.Message})
	if err != nil {
		if errors.Is(err, usecase.ErrEmptyMessage) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		h.logger.Error("failed to analyze message", slog.String("error", err.Error()))
		return nil, status.Error(codes.Internal, "internal error")
	}

	signals := make([]*SignalStatusMsg, 0, len(result.Signals))
	for _, s := range result.Signals {
		signals = append(signals, &SignalStatusMsg{
			Name:      s.Name,
			Reason:    s.Reason,
			Issued:    s.Issued,
			Available: s.Available,
		})
	}

	return &AnalyzeMessageResponse{
		AssessmentID: result.AssessmentID.String(),
		RiskScore:    int32(result.RiskScore),
		RiskLevel:    result.RiskLevel,
		Method:       result.Method,
		Evidence:     result.Evidence,
		Action:       toActionMsg(result.Action),
		Narrative:    result.Narrative,
		URL:          result.URL,
		Phone:        result.Phone,
		Signals:      signals,
	}, nil
}

// GetAssessment returns a stored assessment.
func (h *ScamServiceHandler) GetAssessment(ctx context.Context, req *GetAssessmentRequest) (*GetAssessmentResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	assessmentID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid id: %v", err)
	}

	result, err := h.getAssessment.Execute(ctx, dto.GetAssessmentRequest{AssessmentID: assessmentID})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAssessmentNotFound):
			return nil, status.Error(codes.NotFound, "assessment not found")
		case errors.Is(err, usecase.ErrStoreUnavailable):
			return nil, status.Error(codes.Unavailable, err.Error())
		default:
			h.logger.Error("failed to get assessment",
				slog.String("assessment_id", assessmentID.String()),
				slog.String("error", err.Error()),
			)
			return nil, status.Error(codes.Internal, "internal error")
		}
	}

	return &GetAssessmentResponse{
		Assessment: &AssessmentMsg{
			ID:        result.ID.String(),
			Content:   result.Content,
			URL:       result.URL,
			Phone:     result.Phone,
			RiskScore: int32(result.RiskScore),
			RiskLevel: result.RiskLevel,
			Method:    result.Method,
			Evidence:  result.Evidence,
			Action:    toActionMsg(result.Action),
			Narrative: result.Narrative,
			Features:  result.Features,
			CreatedAt: result.CreatedAt.UTC().Format(time.RFC3339),
		},
	}, nil
}

func toActionMsg(a dto.ActionDTO) *ActionMsg {
	return &ActionMsg{Title: a.Title, Suggestions: a.Suggestions}
}
