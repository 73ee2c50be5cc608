package rest

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/bibbank/scam-service/internal/application/dto"
	"github.com/bibbank/scam-service/internal/application/usecase"
)

const (
	serviceName = "scam-service"

	maxMessageBodyBytes = 1 << 20
	imageFormField      = "image"
)

// ScamHandler serves the analysis endpoints.
type ScamHandler struct {
	analyzeMessage *usecase.AnalyzeMessage
	analyzeImage   *usecase.AnalyzeImage
	getAssessment  *usecase.GetAssessment
	logger         *slog.Logger
	maxUploadBytes int64
}

// NewScamHandler creates a new ScamHandler.
func NewScamHandler(
	analyzeMessage *usecase.AnalyzeMessage,
	analyzeImage *usecase.AnalyzeImage,
	getAssessment *usecase.GetAssessment,
	maxUploadBytes int64,
	logger *slog.Logger,
) *ScamHandler {
	return &ScamHandler{
		analyzeMessage: analyzeMessage,
		analyzeImage:   analyzeImage,
		getAssessment:  getAssessment,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// RegisterRoutes registers the analysis endpoints on mux.
func (h *ScamHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /analyze", h.Analyze)
	mux.HandleFunc("POST /ocr", h.OCR)
	mux.HandleFunc("GET /assessments/{id}", h.GetAssessment)
}

// Analyze handles POST /analyze.
func (h *ScamHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req dto.AnalyzeMessageRequest
	body := http.MaxBytesReader(w, r.Body, maxMessageBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body is too large")
			return
		}
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid_request", usecase.ErrEmptyMessage.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_request", "request body must be a JSON object")
		return
	}

	resp, err := h.analyzeMessage.Execute(r.Context(), req)
	if err != nil {
		if errors.Is(err, usecase.ErrEmptyMessage) {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		h.logger.Error("failed to analyze message",
			"request_id", RequestIDFromContext(r.Context()),
			"error", err,
		)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// OCR handles POST /ocr with a multipart image upload in the "image" field.
func (h *ScamHandler) OCR(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "image is too large")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "image is too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_request", "request must be multipart/form-data with an image field")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile(imageFormField)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", usecase.ErrEmptyImage.Error())
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "failed to read image")
		return
	}

	resp, err := h.analyzeImage.Execute(r.Context(), dto.AnalyzeImageRequest{
		Filename: header.Filename,
		Image:    image,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmptyImage), errors.Is(err, usecase.ErrEmptyMessage):
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		case errors.Is(err, usecase.ErrNoTextFound):
			writeError(w, http.StatusUnprocessableEntity, "no_text_found", err.Error())
		case errors.Is(err, usecase.ErrTextExtractorUnavailable):
			writeError(w, http.StatusServiceUnavailable, "ocr_unavailable", err.Error())
		case errors.Is(err, usecase.ErrTextExtractionFailed):
			h.logger.Warn("text extraction failed",
				"request_id", RequestIDFromContext(r.Context()),
				"error", err,
			)
			writeError(w, http.StatusBadGateway, "ocr_failed", usecase.ErrTextExtractionFailed.Error())
		default:
			h.logger.Error("failed to analyze image",
				"request_id", RequestIDFromContext(r.Context()),
				"error", err,
			)
			writeInternalError(w)
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetAssessment handles GET /assessments/{id}.
func (h *ScamHandler) GetAssessment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "assessment id must be a UUID")
		return
	}

	resp, err := h.getAssessment.Execute(r.Context(), dto.GetAssessmentRequest{AssessmentID: id})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAssessmentNotFound):
			writeError(w, http.StatusNotFound, "not_found", err.Error())
		case errors.Is(err, usecase.ErrStoreUnavailable):
			writeError(w, http.StatusServiceUnavailable, "store_unavailable", err.Error())
		default:
			h.logger.Error("failed to get assessment",
				"request_id", RequestIDFromContext(r.Context()),
				"assessment_id", id.String(),
				"error", err,
			)
			writeInternalError(w)
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
