package wmeval

import (
	"context"
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorgonia.org/tensor"

	"github.com/tarstars/sketched_classification/golang/wmsketch/wml"
)

var logger = zap.NewNop().Sugar()

//ErrEmptySweep is returned when a sweep has no methods or no grid points.
var ErrEmptySweep = errors.New("sweep needs at least one method and one grid point")

//SetLogger routes sweep progress logs to l.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l.Sugar()
}

//Budget metrics stored along the last axis of BudgetGrid.Values.
const (
	MetricErrorRate = iota
	MetricRuntimeMs
	budgetMetrics
)

//BudgetGrid holds train error rate and runtime for every (method, budget) cell.
//Values has shape (methods, budgets, 2).
type BudgetGrid struct {
	Methods []string
	Labels  []string
	Values  *tensor.Dense
}

//At returns one metric of a cell.
func (g *BudgetGrid) At(method, budget, metric int) float64 {
	v, err := g.Values.At(method, budget, metric)
	if err != nil {
		panic(err)
	}
	return v.(float64)
}

//BudgetTable is the JSON form of a BudgetGrid.
type BudgetTable struct {
	Methods   []string    `json:"methods"`
	Budgets   []string    `json:"budgets"`
	ErrorRate [][]float64 `json:"train_error_rate"`
	RuntimeMs [][]float64 `json:"train_time_ms"`
}

//Table unrolls the tensor into nested slices.
func (g *BudgetGrid) Table() BudgetTable {
	table := BudgetTable{Methods: g.Methods, Budgets: g.Labels}
	for m := range g.Methods {
		errs := make([]float64, len(g.Labels))
		runtimes := make([]float64, len(g.Labels))
		for b := range g.Labels {
			errs[b] = g.At(m, b, MetricErrorRate)
			runtimes[b] = g.At(m, b, MetricRuntimeMs)
		}
		table.ErrorRate = append(table.ErrorRate, errs)
		table.RuntimeMs = append(table.RuntimeMs, runtimes)
	}
	return table
}

//CompareByMemoryBudget trains one independent model per (method, budget) and records
//its training error rate and runtime. Up to threads models train concurrently; each
//model is only ever touched by its own goroutine.
func CompareByMemoryBudget(ctx context.Context, dataset *wml.Dataset, base wml.Config, methods []string, budgets []wml.Budget, threads int) (*BudgetGrid, error) {
	if len(methods) == 0 || len(budgets) == 0 {
		return nil, ErrEmptySweep
	}
	cells := make([]wml.TrainResult, len(methods)*len(budgets))
	configs := make([]wml.Config, len(cells))
	models := make([]wml.Classifier, len(cells))
	for m, method := range methods {
		for b, budget := range budgets {
			cell := m*len(budgets) + b
			configs[cell] = base
			configs[cell].Method = method
			configs[cell].Log2Width = budget.Log2Width
			configs[cell].Depth = budget.Depth
			model, err := wml.NewClassifier(configs[cell], dataset.Dimensionality)
			if err != nil {
				return nil, err
			}
			models[cell] = model
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, threads))
	for m := range methods {
		for b, budget := range budgets {
			cell := m*len(budgets) + b
			cfg, model := configs[cell], models[cell]
			label := budget.Label
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				cells[cell] = wml.Train(model, dataset, wml.TrainParams{Iters: cfg.Iters, Epochs: cfg.Epochs, Seed: cfg.Seed})
				logger.Infow("budget run finished",
					"method", cfg.Method, "budget", label,
					"memory", humanize.Bytes(MemoryBytes(cfg.Log2Width, cfg.Depth, cfg.TopK)),
					"error_rate", cells[cell].ErrorRate(), "train_time_ms", cells[cell].RuntimeMs)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	values := tensor.New(tensor.WithShape(len(methods), len(budgets), budgetMetrics), tensor.Of(tensor.Float64))
	for m := range methods {
		for b := range budgets {
			cell := cells[m*len(budgets)+b]
			if err := values.SetAt(cell.ErrorRate(), m, b, MetricErrorRate); err != nil {
				return nil, err
			}
			if err := values.SetAt(float64(cell.RuntimeMs), m, b, MetricRuntimeMs); err != nil {
				return nil, err
			}
		}
	}

	labels := make([]string, len(budgets))
	for i, budget := range budgets {
		labels[i] = budget.Label
		if labels[i] == "" {
			labels[i] = fmt.Sprintf("w%d_d%d", budget.Log2Width, budget.Depth)
		}
	}
	return &BudgetGrid{Methods: methods, Labels: labels, Values: values}, nil
}

//ReconGrid holds the relative reconstruction error of every (method, K) cell.
//Values has shape (methods, ks).
type ReconGrid struct {
	Methods []string
	Ks      []int
	Values  *tensor.Dense
}

//At returns the error of one cell.
func (g *ReconGrid) At(method, k int) float64 {
	v, err := g.Values.At(method, k)
	if err != nil {
		panic(err)
	}
	return v.(float64)
}

//ReconTable is the JSON form of a ReconGrid.
type ReconTable struct {
	Methods []string    `json:"methods"`
	Ks      []int       `json:"ks"`
	Error   [][]float64 `json:"reconstruction_error"`
}

func (g *ReconGrid) Table() ReconTable {
	table := ReconTable{Methods: g.Methods, Ks: g.Ks}
	for m := range g.Methods {
		row := make([]float64, len(g.Ks))
		for k := range g.Ks {
			row[k] = g.At(m, k)
		}
		table.Error = append(table.Error, row)
	}
	return table
}

//CompareReconstruction trains the uncompressed model as ground truth, then for every
//method and K sizes the sketch from totalBytes and measures how far the model's top-K
//is from the true top-K.
func CompareReconstruction(ctx context.Context, dataset *wml.Dataset, base wml.Config, methods []string, ks []int, totalBytes, threads int) (*ReconGrid, error) {
	if len(methods) == 0 || len(ks) == 0 {
		return nil, ErrEmptySweep
	}
	dim := dataset.Dimensionality
	params := wml.TrainParams{Iters: base.Iters, Epochs: base.Epochs, Seed: base.Seed}

	truth := wml.NewUncompressed(dim, dim, base.LearningRate, base.L2)
	truthResult := wml.Train(truth, dataset, params)
	logger.Infow("ground truth trained", "error_rate", truthResult.ErrorRate(), "train_time_ms", truthResult.RuntimeMs)
	trueRank := truth.Rank()

	cells := make([]float64, len(methods)*len(ks))
	configs := make([]wml.Config, len(cells))
	models := make([]wml.Classifier, len(cells))
	for m, method := range methods {
		for ki, k := range ks {
			cell := m*len(ks) + ki
			configs[cell] = base
			configs[cell].Method = method
			configs[cell].TopK = k
			configs[cell].Log2Width = SketchWidthForBudget(totalBytes, k, base.Depth)
			model, err := wml.NewClassifier(configs[cell], dim)
			if err != nil {
				return nil, err
			}
			models[cell] = model
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, threads))
	for m := range methods {
		for ki, k := range ks {
			cell := m*len(ks) + ki
			cfg, model := configs[cell], models[cell]
			wStarK := trueRank[:max(0, min(k, len(trueRank)))]
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				wml.Train(model, dataset, params)
				cells[cell] = ReconstructionError(wStarK, model.Rank(), dim)
				logger.Infow("reconstruction run finished",
					"method", cfg.Method, "k", cfg.TopK, "log2_width", cfg.Log2Width,
					"budget", humanize.Bytes(uint64(totalBytes)), "error", cells[cell])
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	values := tensor.New(tensor.WithShape(len(methods), len(ks)), tensor.Of(tensor.Float64))
	for m := range methods {
		for ki := range ks {
			if err := values.SetAt(cells[m*len(ks)+ki], m, ki); err != nil {
				return nil, err
			}
		}
	}
	return &ReconGrid{Methods: methods, Ks: ks, Values: values}, nil
}
