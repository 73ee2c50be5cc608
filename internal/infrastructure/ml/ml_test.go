package ml

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bibbank/scam-service/internal/domain/model"
)

func featureVector(t *testing.T, set map[string]float64) model.FeatureVector {
	t.Helper()
	named := make(map[string]float64, model.FeatureCount)
	for _, name := range model.FeatureNames {
		named[name] = set[name]
	}
	fv, err := model.NewFeatureVector(named)
	require.NoError(t, err)
	return fv
}
