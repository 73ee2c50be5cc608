package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/bibbank/scam-service/internal/domain/model"
	"github.com/bibbank/scam-service/internal/domain/port"
	"github.com/bibbank/scam-service/internal/domain/valueobject"
	pkgpostgres "github.com/bibbank/scam-service/pkg/postgres"
)

// Compile-time interface check.
var _ port.AssessmentRepository = (*AssessmentRepository)(nil)

// AssessmentRepository implements port.AssessmentRepository using PostgreSQL.
type AssessmentRepository struct {
	db pkgpostgres.Querier
}

// NewAssessmentRepository creates a new PostgreSQL-backed assessment repository.
func NewAssessmentRepository(db pkgpostgres.Querier) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

const insertAssessment = `
	INSERT INTO message_assessments (
		id, content, url, phone,
		risk_score, risk_level, method,
		evidence, action, narrative, features, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (id) DO NOTHING
`

const selectAssessment = `
	SELECT id, content, url, phone,
		risk_score, risk_level, method,
		evidence, action, narrative, features, created_at
	FROM message_assessments
	WHERE id = $1
`

// Save persists an assessment. Assessments are immutable, so saving an
// existing ID is a no-op.
func (r *AssessmentRepository) Save(ctx context.Context, a *model.MessageAssessment) error {
	action, err := json.Marshal(a.Action())
	if err != nil {
		return fmt.Errorf("failed to marshal action: %w", err)
	}
	features, err := json.Marshal(a.Features().Map())
	if err != nil {
		return fmt.Errorf("failed to marshal features: %w", err)
	}

	_, err = r.db.Exec(ctx, insertAssessment,
		a.ID(),
		a.Content(),
		a.URL(),
		a.Phone(),
		a.RiskScore(),
		a.RiskLevel().String(),
		string(a.Method()),
		a.Evidence(),
		action,
		a.Narrative(),
		features,
		a.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save assessment: %w", err)
	}
	return nil
}

// FindByID retrieves an assessment by ID. It returns nil, nil when none exists.
func (r *AssessmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.MessageAssessment, error) {
	var (
		rowID        uuid.UUID
		content      string
		url          string
		phone        string
		riskScore    int
		riskLevelStr string
		method       string
		evidence     []string
		actionJSON   []byte
		narrative    bool
		featuresJSON []byte
		createdAt    time.Time
	)

	err := r.db.QueryRow(ctx, selectAssessment, id).Scan(
		&rowID, &content, &url, &phone,
		&riskScore, &riskLevelStr, &method,
		&evidence, &actionJSON, &narrative, &featuresJSON, &createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan assessment: %w", err)
	}

	riskLevel, err := valueobject.RiskLevelFromString(riskLevelStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse risk level: %w", err)
	}

	var action model.Action
	if err := json.Unmarshal(actionJSON, &action); err != nil {
		return nil, fmt.Errorf("failed to parse action: %w", err)
	}

	var named map[string]float64
	if err := json.Unmarshal(featuresJSON, &named); err != nil {
		return nil, fmt.Errorf("failed to parse features: %w", err)
	}
	features, err := model.NewFeatureVector(named)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild features: %w", err)
	}

	if evidence == nil {
		evidence = make([]string, 0)
	}

	return model.ReconstructAssessment(
		rowID, content, url, phone,
		riskScore, riskLevel, model.FusionMethod(method),
		evidence, action, narrative, features, createdAt,
	), nil
}
