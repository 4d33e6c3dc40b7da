package wml

import (
	"math/rand"
	"time"
)

//Observer receives training progress. Implementations must be cheap: ObserveExample is
//called once per update.
type Observer interface {
	ObserveExample(mismatch bool)
	ObserveEpoch(epoch int, result TrainResult)
}

//TrainParams collects arguments of a training run.
type TrainParams struct {
	//Iters > 0 draws that many examples uniformly with replacement instead of sweeping.
	Iters    int
	Epochs   int
	Seed     int64
	Observer Observer
}

//TrainResult summarises a training run. Mismatches counts predictions returned by Update that
//disagreed with the label.
type TrainResult struct {
	RuntimeMs  int64 `json:"runtime_ms"`
	Mismatches int   `json:"mismatches"`
	Count      int   `json:"count"`
}

//ErrorRate is Mismatches / Count, zero when nothing was trained.
func (r TrainResult) ErrorRate() float64 {
	if r.Count == 0 {
		return 0
	}
	return float64(r.Mismatches) / float64(r.Count)
}

//TestResult summarises a prediction-only pass.
type TestResult struct {
	RuntimeMs int64   `json:"runtime_ms"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
}

type trainRun struct {
	model    Classifier
	observer Observer
	result   TrainResult
}

func (run *trainRun) step(example Example) {
	predicted := run.model.Update(example.Features, example.Label)
	mismatch := predicted != example.Label
	if mismatch {
		run.result.Mismatches++
	}
	run.result.Count++
	if run.observer != nil {
		run.observer.ObserveExample(mismatch)
	}
}

//Train feeds dataset through model.Update and counts pre-update mistakes.
func Train(model Classifier, dataset *Dataset, params TrainParams) TrainResult {
	run := &trainRun{model: model, observer: params.Observer}
	start := time.Now()

	if params.Iters == 0 {
		for epoch := 0; epoch < params.Epochs; epoch++ {
			for _, example := range dataset.Examples {
				run.step(example)
			}
			run.result.RuntimeMs = time.Since(start).Milliseconds()
			logger.Debugw("epoch finished", "epoch", epoch+1, "count", run.result.Count,
				"mismatches", run.result.Mismatches, "error_rate", run.result.ErrorRate())
			if run.observer != nil {
				run.observer.ObserveEpoch(epoch, run.result)
			}
		}
	} else if len(dataset.Examples) > 0 {
		rng := rand.New(rand.NewSource(params.Seed))
		for i := 0; i < params.Iters; i++ {
			run.step(dataset.Examples[rng.Intn(len(dataset.Examples))])
		}
		if run.observer != nil {
			run.observer.ObserveEpoch(0, run.result)
		}
	}

	run.result.RuntimeMs = time.Since(start).Milliseconds()
	return run.result
}

//Test predicts every example once without touching the model.
func Test(model Classifier, dataset *Dataset) TestResult {
	var tp, fp, fn int
	start := time.Now()
	for _, example := range dataset.Examples {
		predicted := model.Predict(example.Features)
		switch {
		case example.Label && predicted:
			tp++
		case !example.Label && predicted:
			fp++
		case example.Label && !predicted:
			fn++
		}
	}
	result := TestResult{RuntimeMs: time.Since(start).Milliseconds(), Precision: 1, Recall: 1}
	if tp+fp > 0 {
		result.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		result.Recall = float64(tp) / float64(tp+fn)
	}
	return result
}
