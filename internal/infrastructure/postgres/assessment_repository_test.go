package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/scam-service/internal/domain/model"
	"github.com/bibbank/scam-service/internal/domain/valueobject"
)

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(r.values))
	}
	for i, v := range r.values {
		reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(v))
	}
	return nil
}

type fakeQuerier struct {
	row      pgx.Row
	execErr  error
	execSQL  string
	execArgs []any
}

func (q *fakeQuerier) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	return q.row
}

func (q *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.execSQL = sql
	q.execArgs = args
	return pgconn.NewCommandTag("INSERT 0 1"), q.execErr
}

func testFeatures(t *testing.T) model.FeatureVector {
	t.Helper()
	values := make([]float64, model.FeatureCount)
	values[0] = 27
	fv, err := model.FeatureVectorFromValues(values)
	require.NoError(t, err)
	return fv
}

func testAssessment(t *testing.T) *model.MessageAssessment {
	t.Helper()
	return model.ReconstructAssessment(
		uuid.New(), "Click https://bit.ly/x now", "https://bit.ly/x", "",
		82, valueobject.RiskLevelRed, model.FusionMethodRules,
		[]string{"URL flagged as dangerous: https://bit.ly/x"},
		model.Action{Title: "Do not click", Suggestions: []string{"a", "b", "c"}},
		false, testFeatures(t), time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	)
}

func TestAssessmentRepository_Save(t *testing.T) {
	q := &fakeQuerier{}
	repo := NewAssessmentRepository(q)
	a := testAssessment(t)

	require.NoError(t, repo.Save(context.Background(), a))

	assert.Contains(t, q.execSQL, "INSERT INTO message_assessments")
	require.Len(t, q.execArgs, 12)
	assert.Equal(t, a.ID(), q.execArgs[0])
	assert.Equal(t, 82, q.execArgs[4])
	assert.Equal(t, "red", q.execArgs[5])
	assert.Equal(t, "rules", q.execArgs[6])

	var features map[string]float64
	require.NoError(t, json.Unmarshal(q.execArgs[10].([]byte), &features))
	assert.Len(t, features, model.FeatureCount)
	assert.Equal(t, 27.0, features["text_length"])
}

func TestAssessmentRepository_Save_Error(t *testing.T) {
	repo := NewAssessmentRepository(&fakeQuerier{execErr: fmt.Errorf("connection reset")})

	err := repo.Save(context.Background(), testAssessment(t))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save assessment")
}

func TestAssessmentRepository_FindByID(t *testing.T) {
	saved := testAssessment(t)
	action, _ := json.Marshal(saved.Action())
	features, _ := json.Marshal(saved.Features().Map())

	q := &fakeQuerier{row: fakeRow{values: []any{
		saved.ID(), saved.Content(), saved.URL(), saved.Phone(),
		82, "red", "rules",
		saved.Evidence(), action, false, features, saved.CreatedAt(),
	}}}
	repo := NewAssessmentRepository(q)

	got, err := repo.FindByID(context.Background(), saved.ID())

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, saved.ID(), got.ID())
	assert.Equal(t, valueobject.RiskLevelRed, got.RiskLevel())
	assert.Equal(t, model.FusionMethodRules, got.Method())
	assert.Equal(t, saved.Action(), got.Action())
	assert.Equal(t, saved.Features().Values(), got.Features().Values())
	assert.Equal(t, saved.CreatedAt(), got.CreatedAt())
	assert.Empty(t, got.DomainEvents())
}

func TestAssessmentRepository_FindByID_NotFound(t *testing.T) {
	repo := NewAssessmentRepository(&fakeQuerier{row: fakeRow{err: pgx.ErrNoRows}})

	got, err := repo.FindByID(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAssessmentRepository_FindByID_CorruptRow(t *testing.T) {
	repo := NewAssessmentRepository(&fakeQuerier{row: fakeRow{values: []any{
		uuid.New(), "c", "", "",
		10, "purple", "rules",
		[]string{}, []byte(`{}`), false, []byte(`{}`), time.Now(),
	}}})

	_, err := repo.FindByID(context.Background(), uuid.New())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "risk level")
}
