// SPDX-License-Identifier: Apache-2.0

package main

/*
#cgo CFLAGS: -I.
#include <stdlib.h>
*/
import "C"

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/goccy/go-json"

	"github.com/tarstars/sketched_classification/golang/wmsketch/libsvm"
	"github.com/tarstars/sketched_classification/golang/wmsketch/wml"
)

//model serialises calls on one classifier; classifiers are single-threaded.
type model struct {
	mu  sync.Mutex
	clf wml.Classifier
}

var (
	handleMu   sync.Mutex
	nextHandle uint64 = 1
	models            = make(map[uint64]*model)

	lastErrorMu sync.Mutex
	lastError   string
)

func setLastError(err error) {
	lastErrorMu.Lock()
	defer lastErrorMu.Unlock()
	if err != nil {
		lastError = err.Error()
	} else {
		lastError = ""
	}
}

func getLastError() string {
	lastErrorMu.Lock()
	defer lastErrorMu.Unlock()
	return lastError
}

func storeModel(m *model) uint64 {
	handleMu.Lock()
	defer handleMu.Unlock()
	handle := nextHandle
	models[handle] = m
	nextHandle++
	return handle
}

func fetchModel(handle uint64) (*model, error) {
	handleMu.Lock()
	defer handleMu.Unlock()
	m, ok := models[handle]
	if !ok {
		return nil, errors.New("invalid model handle")
	}
	return m, nil
}

//export FreeModel
func FreeModel(handle C.ulonglong) {
	handleMu.Lock()
	defer handleMu.Unlock()
	delete(models, uint64(handle))
}

func buildFeatures(indicesPtr *C.longlong, valuesPtr *C.float, length C.int) ([]wml.Feature, error) {
	n := int(length)
	if n < 0 {
		return nil, errors.New("negative length")
	}
	if n == 0 {
		return nil, nil
	}
	if indicesPtr == nil || valuesPtr == nil {
		return nil, errors.New("null pointer for non-empty features")
	}
	indices := unsafe.Slice((*int64)(unsafe.Pointer(indicesPtr)), n)
	values := unsafe.Slice((*float32)(unsafe.Pointer(valuesPtr)), n)
	features := make([]wml.Feature, n)
	for i := range features {
		if indices[i] < 0 {
			return nil, fmt.Errorf("negative feature index %d", indices[i])
		}
		features[i] = wml.Feature{Index: int(indices[i]), Value: values[i]}
	}
	return features, nil
}

//NewModel builds a classifier from a JSON config decoded over the defaults.
//Returns 0 on failure.
//
//export NewModel
func NewModel(configJSON *C.char, dimensionality C.int) C.ulonglong {
	setLastError(nil)
	cfg := wml.DefaultConfig()
	if configJSON != nil {
		if err := json.Unmarshal([]byte(C.GoString(configJSON)), &cfg); err != nil {
			setLastError(err)
			return 0
		}
	}
	if dimensionality < 0 {
		setLastError(errors.New("negative dimensionality"))
		return 0
	}
	clf, err := wml.NewClassifier(cfg, int(dimensionality))
	if err != nil {
		setLastError(err)
		return 0
	}
	return C.ulonglong(storeModel(&model{clf: clf}))
}

//Update returns the prediction reported by the model (1 or 0), -1 on error.
//
//export Update
func Update(handle C.ulonglong, indicesPtr *C.longlong, valuesPtr *C.float, length C.int, label C.int) C.int {
	setLastError(nil)
	m, err := fetchModel(uint64(handle))
	if err != nil {
		setLastError(err)
		return -1
	}
	features, err := buildFeatures(indicesPtr, valuesPtr, length)
	if err != nil {
		setLastError(err)
		return -1
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.clf.Update(features, label != 0) {
		return 1
	}
	return 0
}

//export Predict
func Predict(handle C.ulonglong, indicesPtr *C.longlong, valuesPtr *C.float, length C.int) C.int {
	setLastError(nil)
	m, err := fetchModel(uint64(handle))
	if err != nil {
		setLastError(err)
		return -1
	}
	features, err := buildFeatures(indicesPtr, valuesPtr, length)
	if err != nil {
		setLastError(err)
		return -1
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.clf.Predict(features) {
		return 1
	}
	return 0
}

//TrainFile runs epochs passes over a LIBSVM file and returns the mismatch count, -1 on error.
//
//export TrainFile
func TrainFile(handle C.ulonglong, path *C.char, epochs C.int) C.longlong {
	setLastError(nil)
	m, err := fetchModel(uint64(handle))
	if err != nil {
		setLastError(err)
		return -1
	}
	dataset, err := libsvm.Read(C.GoString(path))
	if err != nil {
		setLastError(err)
		return -1
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := wml.Train(m.clf, dataset, wml.TrainParams{Epochs: int(epochs)})
	return C.longlong(result.Mismatches)
}

//Rank writes at most capacity ranked (index, weight) pairs and returns how many were
//written, -1 on error.
//
//export Rank
func Rank(handle C.ulonglong, outIndices *C.longlong, outWeights *C.float, capacity C.int) C.int {
	setLastError(nil)
	m, err := fetchModel(uint64(handle))
	if err != nil {
		setLastError(err)
		return -1
	}
	m.mu.Lock()
	ranked := m.clf.Rank()
	m.mu.Unlock()

	n := min(len(ranked), int(capacity))
	if n <= 0 {
		return 0
	}
	if outIndices == nil || outWeights == nil {
		setLastError(errors.New("null output buffer"))
		return -1
	}
	indices := unsafe.Slice((*int64)(unsafe.Pointer(outIndices)), n)
	weights := unsafe.Slice((*float32)(unsafe.Pointer(outWeights)), n)
	for i := 0; i < n; i++ {
		indices[i] = int64(ranked[i].Key)
		weights[i] = ranked[i].Weight
	}
	return C.int(n)
}

//export Bias
func Bias(handle C.ulonglong) C.float {
	setLastError(nil)
	m, err := fetchModel(uint64(handle))
	if err != nil {
		setLastError(err)
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return C.float(m.clf.Bias())
}

//export GetLastError
func GetLastError() *C.char {
	errStr := getLastError()
	if errStr == "" {
		return nil
	}
	return C.CString(errStr)
}

//export FreeCString
func FreeCString(str *C.char) {
	if str != nil {
		C.free(unsafe.Pointer(str))
	}
}

func main() {}
