package wml

import (
	"math"
	"sort"
	"strings"
)

//Budget is one (log2 width, depth) point of a memory-budget sweep.
type Budget struct {
	Label     string `json:"label" yaml:"label"`
	Log2Width int    `json:"log2_width" yaml:"log2_width"`
	Depth     int    `json:"depth" yaml:"depth"`
}

//Config collects everything needed to build a classifier and run it.
type Config struct {
	Method       string  `json:"method" yaml:"method"`
	Train        string  `json:"train" yaml:"train"`
	Test         string  `json:"test" yaml:"test"`
	Log2Width    int     `json:"log2_width" yaml:"log2_width"`
	Depth        int     `json:"depth" yaml:"depth"`
	TopK         int     `json:"topk" yaml:"topk"`
	LearningRate float32 `json:"lr_init" yaml:"lr_init"`
	L2           float32 `json:"l2_reg" yaml:"l2_reg"`
	CountSmooth  float64 `json:"count_smooth" yaml:"count_smooth"`
	Seed         int64   `json:"seed" yaml:"seed"`
	Iters        int     `json:"iters" yaml:"iters"`
	Epochs       int     `json:"epochs" yaml:"epochs"`
	Hash         string  `json:"hash" yaml:"hash"`

	FileNameResults    string `json:"filename_results" yaml:"filename_results"`
	FileNameTopWeights string `json:"filename_top_weights" yaml:"filename_top_weights"`
	FileNameTopIndices string `json:"filename_top_indices" yaml:"filename_top_indices"`
	FileNameMetrics    string `json:"filename_metrics" yaml:"filename_metrics"`
	FileNameGraph      string `json:"filename_graph" yaml:"filename_graph"`

	Methods          []string `json:"methods" yaml:"methods"`
	Budgets          []Budget `json:"budgets" yaml:"budgets"`
	Ks               []int    `json:"ks" yaml:"ks"`
	TotalBudgetBytes int      `json:"total_budget_bytes" yaml:"total_budget_bytes"`
	ThreadsNum       int      `json:"threads_num" yaml:"threads_num"`
}

//DefaultConfig returns the defaults a config file is decoded on top of.
func DefaultConfig() Config {
	return Config{
		Method:       "AWMsketch",
		Log2Width:    10,
		Depth:        1,
		TopK:         512,
		LearningRate: 0.1,
		L2:           1e-6,
		CountSmooth:  1.0,
		Seed:         42,
		Epochs:       1,
		Hash:         "xxhash",
		ThreadsNum:   1,
	}
}

//Maker builds a classifier from a validated configuration.
type Maker func(cfg Config, dimensionality int, hash HashFunc) Classifier

//Makers maps method names to constructors.
var Makers = map[string]Maker{
	"UncompressedLogisticRegression": func(cfg Config, dim int, _ HashFunc) Classifier {
		return NewUncompressed(dim, cfg.TopK, cfg.LearningRate, cfg.L2)
	},
	"WMSketch": func(cfg Config, _ int, hash HashFunc) Classifier {
		return NewWMSketch(cfg.Log2Width, cfg.Depth, cfg.TopK, cfg.LearningRate, hash)
	},
	"AWMsketch": func(cfg Config, _ int, hash HashFunc) Classifier {
		return NewAWMSketch(cfg.TopK, cfg.Log2Width, cfg.Depth, cfg.LearningRate, cfg.L2, hash)
	},
	"TruncatedModel": func(cfg Config, _ int, _ HashFunc) Classifier {
		return NewTruncated(cfg.TopK, cfg.LearningRate, cfg.L2)
	},
	"PMI": func(cfg Config, dim int, _ HashFunc) Classifier {
		return NewPMI(dim, cfg.TopK, cfg.LearningRate, cfg.L2, cfg.CountSmooth)
	},
}

//MethodNames lists the registered methods in sorted order.
func MethodNames() []string {
	names := make([]string, 0, len(Makers))
	for name := range Makers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

//Validate checks the fields every mode depends on.
func (cfg Config) Validate() error {
	if _, ok := Makers[cfg.Method]; !ok {
		return &ConfigurationError{Field: "method", Value: cfg.Method, Err: ErrUnknownMethod}
	}
	for _, method := range cfg.Methods {
		if _, ok := Makers[method]; !ok {
			return &ConfigurationError{Field: "methods", Value: method, Err: ErrUnknownMethod}
		}
	}
	if _, ok := Hashes[strings.ToLower(cfg.Hash)]; !ok {
		return &ConfigurationError{Field: "hash", Value: cfg.Hash, Err: ErrUnknownHash}
	}
	if cfg.Log2Width < 1 || cfg.Log2Width > 30 {
		return &ConfigurationError{Field: "log2_width", Value: cfg.Log2Width, Err: ErrInvalidWidth}
	}
	for _, b := range cfg.Budgets {
		if b.Log2Width < 1 || b.Log2Width > 30 {
			return &ConfigurationError{Field: "budgets.log2_width", Value: b.Log2Width, Err: ErrInvalidWidth}
		}
	}
	if cfg.TopK < 0 {
		return &ConfigurationError{Field: "topk", Value: cfg.TopK, Err: ErrInvalidCapacity}
	}
	if !(cfg.LearningRate > 0) || math.IsInf(float64(cfg.LearningRate), 0) {
		return &ConfigurationError{Field: "lr_init", Value: cfg.LearningRate, Err: ErrInvalidRate}
	}
	if !(cfg.L2 >= 0) || math.IsInf(float64(cfg.L2), 0) {
		return &ConfigurationError{Field: "l2_reg", Value: cfg.L2, Err: ErrInvalidRate}
	}
	//The decay step is at most lr_init*l2_reg; the scale must stay positive.
	if float64(cfg.LearningRate)*float64(cfg.L2) >= 1 {
		return &ConfigurationError{Field: "lr_init*l2_reg", Value: float64(cfg.LearningRate) * float64(cfg.L2), Err: ErrInvalidRate}
	}
	if cfg.Epochs < 0 || cfg.Iters < 0 {
		return &ConfigurationError{Field: "epochs/iters", Value: [2]int{cfg.Epochs, cfg.Iters}, Err: ErrInvalidSchedule}
	}
	return nil
}

//NewClassifier validates cfg and builds its method. A zero topk means "track every feature".
func NewClassifier(cfg Config, dimensionality int) (Classifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.TopK == 0 {
		cfg.TopK = dimensionality
	}
	hash := Hashes[strings.ToLower(cfg.Hash)]
	logger.Debugw("building classifier",
		"method", cfg.Method, "dimensionality", dimensionality, "log2_width", cfg.Log2Width,
		"depth", cfg.Depth, "topk", cfg.TopK, "lr_init", cfg.LearningRate, "l2_reg", cfg.L2)
	return Makers[cfg.Method](cfg, dimensionality, hash), nil
}
