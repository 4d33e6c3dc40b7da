package wml

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/sbinet/npyio"
)

//Report is the result of one training run as written by the train mode.
type Report struct {
	Method        string          `json:"method"`
	TrainTimeMs   int64           `json:"train_time_ms"`
	TrainErrors   int             `json:"train_error_count"`
	TrainCount    int             `json:"train_count"`
	TrainError    float64         `json:"train_error_rate"`
	Bias          float32         `json:"bias"`
	TopIndices    []int           `json:"top_indices"`
	TopWeights    []float32       `json:"top_weights"`
	TopFeaturePMI map[int]float64 `json:"top_feature_pmi,omitempty"`
	Test          *TestResult     `json:"test,omitempty"`
}

//NewReport collects the ranking and bias of a trained model.
func NewReport(method string, model Classifier, result TrainResult) Report {
	ranked := model.Rank()
	report := Report{
		Method:      method,
		TrainTimeMs: result.RuntimeMs,
		TrainErrors: result.Mismatches,
		TrainCount:  result.Count,
		TrainError:  result.ErrorRate(),
		Bias:        model.Bias(),
		TopIndices:  make([]int, len(ranked)),
		TopWeights:  make([]float32, len(ranked)),
	}
	for i, p := range ranked {
		report.TopIndices[i] = p.Key
		report.TopWeights[i] = p.Weight
	}
	if pmi, ok := model.(*PMI); ok {
		report.TopFeaturePMI = pmi.TopWeightsPMI()
	}
	return report
}

//Save writes the report as indented JSON.
func (r Report) Save(filename string) (err error) {
	dest, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("can't open %s to write: %w", filename, err)
	}
	defer func() {
		if cerr := dest.Close(); err == nil {
			err = cerr
		}
	}()

	bytes, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	_, err = dest.Write(bytes)
	return err
}

//DumpTopWeights writes ranked indices (int64) and weights (float32) as two .npy files.
func DumpTopWeights(ranked []Pair, indicesFile, weightsFile string) error {
	indices := make([]int64, len(ranked))
	weights := make([]float32, len(ranked))
	for i, p := range ranked {
		indices[i] = int64(p.Key)
		weights[i] = p.Weight
	}
	if err := writeNpy(indicesFile, indices); err != nil {
		return err
	}
	return writeNpy(weightsFile, weights)
}

//LoadTopWeights reads back a ranking written by DumpTopWeights.
func LoadTopWeights(indicesFile, weightsFile string) ([]Pair, error) {
	var indices []int64
	if err := readNpy(indicesFile, &indices); err != nil {
		return nil, err
	}
	var weights []float32
	if err := readNpy(weightsFile, &weights); err != nil {
		return nil, err
	}
	if len(indices) != len(weights) {
		return nil, fmt.Errorf("%d indices but %d weights", len(indices), len(weights))
	}
	ranked := make([]Pair, len(indices))
	for i := range indices {
		ranked[i] = Pair{Key: int(indices[i]), Weight: weights[i]}
	}
	return ranked, nil
}

func writeNpy(filename string, val interface{}) (err error) {
	dst, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := dst.Close(); err == nil {
			err = cerr
		}
	}()
	return npyio.Write(dst, val)
}

func readNpy(filename string, ptr interface{}) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	r, err := npyio.NewReader(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", filename, err)
	}
	return r.Read(ptr)
}
