package ml

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
	"gopkg.in/yaml.v3"

	"github.com/bibbank/scam-service/internal/domain/model"
	"github.com/bibbank/scam-service/internal/domain/port"
	"github.com/bibbank/scam-service/internal/domain/valueobject"
)

// Compile-time interface check.
var _ port.StatisticalClassifier = (*ONNXClassifier)(nil)

// Bundle file names inside ONNX_MODEL_DIR.
const (
	ModelFileName      = "scam_classifier.onnx"
	MetadataFileName   = "feature_importance.yaml"
	maxTopFactors      = 5
	defaultInputName   = "features"
	defaultOutputName  = "probabilities"
	defaultOutputWidth = 2
)

// BundleMetadata describes the exported model. Importance is the static
// global importance of each feature, used to rank top factors.
type BundleMetadata struct {
	Importance  map[string]float64 `yaml:"importance"`
	InputName   string             `yaml:"input_name"`
	OutputName  string             `yaml:"output_name"`
	OutputWidth int                `yaml:"output_width"`
}

// ONNXClassifier runs the exported statistical classifier in process.
type ONNXClassifier struct {
	meta BundleMetadata

	mu      sync.Mutex
	run     func(input []float32) ([]float32, error)
	destroy func() error
}

// LoadONNXClassifier initialises onnxruntime and opens the bundle in dir.
// libPath overrides shared library discovery when non-empty.
func LoadONNXClassifier(dir, libPath string) (*ONNXClassifier, error) {
	if dir == "" {
		return nil, errors.New("model bundle dir is empty")
	}

	meta, err := LoadBundleMetadata(filepath.Join(dir, MetadataFileName))
	if err != nil {
		return nil, fmt.Errorf("load bundle metadata: %w", err)
	}

	if libPath == "" {
		libPath = resolveSharedLibraryPath(dir)
	}
	if libPath == "" {
		return nil, fmt.Errorf("onnxruntime shared library not found; set ONNXRUNTIME_SHARED_LIBRARY_PATH")
	}
	ort.SetSharedLibraryPath(libPath)
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("initialize onnxruntime: %w", err)
		}
	}

	modelPath := filepath.Join(dir, ModelFileName)
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("model file missing at %s: %w", modelPath, err)
	}

	input, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(model.FeatureCount)))
	if err != nil {
		return nil, fmt.Errorf("allocate input tensor: %w", err)
	}
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(meta.OutputWidth)))
	if err != nil {
		_ = input.Destroy()
		return nil, fmt.Errorf("allocate output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		modelPath,
		[]string{meta.InputName},
		[]string{meta.OutputName},
		[]ort.Value{input},
		[]ort.Value{output},
		nil,
	)
	if err != nil {
		_ = input.Destroy()
		_ = output.Destroy()
		return nil, fmt.Errorf("create onnx session: %w", err)
	}

	run := func(values []float32) ([]float32, error) {
		copy(input.GetData(), values)
		if err := session.Run(); err != nil {
			return nil, fmt.Errorf("onnx run: %w", err)
		}
		out := make([]float32, len(output.GetData()))
		copy(out, output.GetData())
		return out, nil
	}
	destroy := func() error {
		return errors.Join(session.Destroy(), input.Destroy(), output.Destroy())
	}

	return newONNXClassifier(meta, run, destroy), nil
}

func newONNXClassifier(meta BundleMetadata, run func([]float32) ([]float32, error), destroy func() error) *ONNXClassifier {
	return &ONNXClassifier{meta: meta, run: run, destroy: destroy}
}

// Predict scores one feature vector. Inference is serialised because the
// session tensors are shared.
func (c *ONNXClassifier) Predict(ctx context.Context, features model.FeatureVector) (*model.StatisticalSignal, error) {
	if features.Len() != model.FeatureCount {
		return nil, fmt.Errorf("feature vector has %d values, want %d", features.Len(), model.FeatureCount)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	values := features.Values()
	input := make([]float32, len(values))
	for i, v := range values {
		input[i] = float32(v)
	}

	c.mu.Lock()
	out, err := c.run(input)
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}

	p, err := scamProbability(out, c.meta.OutputWidth)
	if err != nil {
		return nil, err
	}

	return &model.StatisticalSignal{
		ScamProbability: p,
		Confidence:      valueobject.ModelConfidenceFromProbability(p),
		TopFactors:      TopFactors(features, c.meta.Importance, maxTopFactors),
	}, nil
}

// Close releases the onnxruntime session.
func (c *ONNXClassifier) Close() error {
	if c.destroy == nil {
		return nil
	}
	return c.destroy()
}

// scamProbability reads the positive-class probability from the model output.
// A width of 2 means [p(legit), p(scam)].
func scamProbability(out []float32, width int) (float64, error) {
	idx := 0
	if width == 2 {
		idx = 1
	}
	if idx >= len(out) {
		return 0, fmt.Errorf("model output has %d values, want %d", len(out), width)
	}
	p := float64(out[idx])
	if math.IsNaN(p) {
		return 0, fmt.Errorf("model produced NaN probability")
	}
	return p, nil
}

// TopFactors ranks features with a non-zero value by static importance and
// returns at most limit of them. Ties keep declared feature order.
func TopFactors(features model.FeatureVector, importance map[string]float64, limit int) []model.Factor {
	factors := make([]model.Factor, 0, limit)
	for _, name := range model.FeatureNames {
		v, _ := features.Get(name)
		w := importance[name]
		if v == 0 || w <= 0 {
			continue
		}
		factors = append(factors, model.Factor{Feature: name, Value: v, Importance: w})
	}
	sort.SliceStable(factors, func(i, j int) bool {
		return factors[i].Importance > factors[j].Importance
	})
	if len(factors) > limit {
		factors = factors[:limit]
	}
	return factors
}

// LoadBundleMetadata reads feature_importance.yaml and applies defaults.
func LoadBundleMetadata(path string) (BundleMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return BundleMetadata{}, err
	}

	var meta BundleMetadata
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return BundleMetadata{}, err
	}
	for name := range meta.Importance {
		if !isFeatureName(name) {
			return BundleMetadata{}, fmt.Errorf("importance for unknown feature %q", name)
		}
	}
	if meta.InputName == "" {
		meta.InputName = defaultInputName
	}
	if meta.OutputName == "" {
		meta.OutputName = defaultOutputName
	}
	if meta.OutputWidth == 0 {
		meta.OutputWidth = defaultOutputWidth
	}
	if meta.OutputWidth != 1 && meta.OutputWidth != 2 {
		return BundleMetadata{}, fmt.Errorf("output_width must be 1 or 2, got %d", meta.OutputWidth)
	}
	return meta, nil
}

func isFeatureName(name string) bool {
	for _, n := range model.FeatureNames {
		if n == name {
			return true
		}
	}
	return false
}

func resolveSharedLibraryPath(bundleDir string) string {
	names := []string{"libonnxruntime.so", "libonnxruntime.dylib", "onnxruntime.dll"}
	dirs := []string{bundleDir, filepath.Join(bundleDir, "lib"), "/usr/local/lib", "/usr/lib"}
	for _, dir := range dirs {
		for _, name := range names {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
	}
	return ""
}
