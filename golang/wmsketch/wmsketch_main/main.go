package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/tarstars/sketched_classification/golang/wmsketch/libsvm"
	"github.com/tarstars/sketched_classification/golang/wmsketch/wmeval"
	"github.com/tarstars/sketched_classification/golang/wmsketch/wml"
	"github.com/tarstars/sketched_classification/golang/wmsketch/wmmetrics"
	"github.com/tarstars/sketched_classification/golang/wmsketch/wmviz"
)

var logger = zap.NewNop().Sugar()

func handleError(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}

func decodeConfig(srcConfig string) wml.Config {
	cfg := wml.DefaultConfig()
	file, err := os.Open(srcConfig)
	handleError(err)
	defer func() { handleError(file.Close()) }()

	switch strings.ToLower(filepath.Ext(srcConfig)) {
	case ".yaml", ".yml":
		handleError(yaml.NewDecoder(file).Decode(&cfg))
	default:
		handleError(json.NewDecoder(file).Decode(&cfg))
	}
	handleError(cfg.Validate())
	return cfg
}

func readDataset(path string) *wml.Dataset {
	if path == "" {
		logger.Fatal("no training file given, set \"train\" in the config")
	}
	logger.Infow("load dataset", "path", path)
	dataset, err := libsvm.Read(path)
	handleError(err)
	logger.Infow("dataset loaded", "examples", dataset.Len(), "dimensionality", dataset.Dimensionality)
	return dataset
}

func writeJSON(filename string, v interface{}) {
	bytes, err := json.MarshalIndent(v, "", "  ")
	handleError(err)
	if filename == "" {
		_, err = os.Stdout.Write(append(bytes, '\n'))
		handleError(err)
		return
	}
	handleError(os.WriteFile(filename, bytes, 0o644))
}

func train(cfg wml.Config) {
	dataset := readDataset(cfg.Train)

	clf, err := wml.NewClassifier(cfg, dataset.Dimensionality)
	handleError(err)

	observer := wmmetrics.NewObserver(cfg.Method)
	result := wml.Train(clf, dataset, wml.TrainParams{
		Iters:    cfg.Iters,
		Epochs:   cfg.Epochs,
		Seed:     cfg.Seed,
		Observer: observer,
	})
	logger.Infow("training finished", "method", cfg.Method, "count", result.Count,
		"error_rate", result.ErrorRate(), "train_time_ms", result.RuntimeMs)

	report := wml.NewReport(cfg.Method, clf, result)
	if cfg.Test != "" {
		testResult := wml.Test(clf, readDataset(cfg.Test))
		logger.Infow("test finished", "precision", testResult.Precision, "recall", testResult.Recall)
		report.Test = &testResult
	}

	if cfg.FileNameResults != "" {
		handleError(report.Save(cfg.FileNameResults))
	} else {
		writeJSON("", report)
	}
	if cfg.FileNameTopIndices != "" && cfg.FileNameTopWeights != "" {
		handleError(wml.DumpTopWeights(clf.Rank(), cfg.FileNameTopIndices, cfg.FileNameTopWeights))
	}
	if cfg.FileNameMetrics != "" {
		handleError(observer.WriteTextfile(cfg.FileNameMetrics))
	}
}

func compareBudget(cfg wml.Config) {
	dataset := readDataset(cfg.Train)
	methods := cfg.Methods
	if len(methods) == 0 {
		methods = wml.MethodNames()
	}
	budgets := cfg.Budgets
	if len(budgets) == 0 {
		budgets = []wml.Budget{{Label: "default", Log2Width: cfg.Log2Width, Depth: cfg.Depth}}
	}
	grid, err := wmeval.CompareByMemoryBudget(context.Background(), dataset, cfg, methods, budgets, cfg.ThreadsNum)
	handleError(err)
	writeJSON(cfg.FileNameResults, grid.Table())
}

func reconError(cfg wml.Config) {
	dataset := readDataset(cfg.Train)
	methods := cfg.Methods
	if len(methods) == 0 {
		methods = []string{"WMSketch", "AWMsketch", "TruncatedModel"}
	}
	ks := cfg.Ks
	if len(ks) == 0 {
		ks = []int{cfg.TopK}
	}
	totalBytes := cfg.TotalBudgetBytes
	if totalBytes == 0 {
		totalBytes = int(wmeval.MemoryBytes(cfg.Log2Width, cfg.Depth, cfg.TopK))
	}
	grid, err := wmeval.CompareReconstruction(context.Background(), dataset, cfg, methods, ks, totalBytes, cfg.ThreadsNum)
	handleError(err)
	writeJSON(cfg.FileNameResults, grid.Table())
}

type collisionsReport struct {
	wmeval.CollisionReport
	//RankedAliases groups the ranked features (from the top weights dump) sharing a slot.
	RankedAliases map[int][]int `json:"ranked_aliases,omitempty"`
}

func collisions(cfg wml.Config) {
	dataset := readDataset(cfg.Train)
	hash := wml.Hashes[strings.ToLower(cfg.Hash)]
	report := collisionsReport{CollisionReport: wmeval.Collisions(dataset, cfg.Log2Width, hash)}
	if cfg.FileNameTopIndices != "" && cfg.FileNameTopWeights != "" {
		ranked, err := wml.LoadTopWeights(cfg.FileNameTopIndices, cfg.FileNameTopWeights)
		handleError(err)
		indices := make([]int, len(ranked))
		for i, p := range ranked {
			indices[i] = p.Key
		}
		report.RankedAliases = wmeval.Aliases(indices, cfg.Log2Width, hash)
	}
	writeJSON(cfg.FileNameResults, report)
}

func graph(cfg wml.Config) {
	if cfg.FileNameGraph == "" {
		logger.Fatal("no output file given, set \"filename_graph\" in the config")
	}
	ranked, err := wml.LoadTopWeights(cfg.FileNameTopIndices, cfg.FileNameTopWeights)
	handleError(err)
	handleError(wmviz.RenderCollisionGraph(cfg.FileNameGraph, ranked, cfg.Log2Width, wml.Hashes[strings.ToLower(cfg.Hash)]))
	logger.Infow("graph rendered", "features", len(ranked), "filename", cfg.FileNameGraph)
}

func main() {
	runMode := flag.String("mode", "train", "you can select 'train', 'compare_budget', 'recon_error', 'collisions' or 'graph' modes")
	config := flag.String("config", "wmsketch_config.json", "a config file for the run of the program (.json or .yaml)")
	verbose := flag.Bool("v", false, "debug logging")
	memprofile := flag.String("memprofile", "", "write memory profile to `file`")

	flag.Parse()

	var zlog *zap.Logger
	var err error
	if *verbose {
		zlog, err = zap.NewDevelopment()
	} else {
		zlog, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	defer func() { _ = zlog.Sync() }()
	logger = zlog.Sugar()
	wml.SetLogger(zlog)
	wmeval.SetLogger(zlog)

	mode, ok := map[string]func(wml.Config){
		"train":          train,
		"compare_budget": compareBudget,
		"recon_error":    reconError,
		"collisions":     collisions,
		"graph":          graph,
	}[*runMode]
	if !ok {
		logger.Fatalw("unknown mode", "mode", *runMode)
	}
	mode(decodeConfig(*config))

	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		handleError(err)
		defer func() { handleError(f.Close()) }()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			logger.Fatal("could not write memory profile: ", err)
		}
	}
}
