// Package libsvm reads sparse datasets in LIBSVM text format:
//
//	label index:value index:value ...
//
// one example per line. Blank lines are skipped. A label greater than zero is the
// positive class. Files ending in .gz, .zst or .lz4 are decompressed transparently.
package libsvm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/tarstars/sketched_classification/golang/wmsketch/wml"
)

var (
	// ErrBadToken is returned for a feature token that is not index:value.
	ErrBadToken = errors.New("malformed feature token")
	// ErrNegativeIndex is returned for a feature index below zero.
	ErrNegativeIndex = errors.New("negative feature index")
)

// DataFormatError identifies the record that could not be parsed.
//
// The underlying parse error can be accessed via errors.Unwrap.
type DataFormatError struct {
	Path string
	Line int
	Text string
	Err  error
}

func (e *DataFormatError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s:%d: %v: %q", e.Path, e.Line, e.Err, e.Text)
	}
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *DataFormatError) Unwrap() error { return e.Err }

// Read loads a whole dataset from a file.
func Read(path string) (*wml.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, closer, err := decompress(path, f)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer closer()

	ds, err := Parse(r)
	var dfe *DataFormatError
	if errors.As(err, &dfe) {
		dfe.Path = path
	}
	return ds, err
}

func decompress(path string, r io.Reader) (io.Reader, func(), error) {
	switch {
	case strings.HasSuffix(path, ".gz"):
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return zr, func() { _ = zr.Close() }, nil
	case strings.HasSuffix(path, ".zst"):
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return zr, zr.Close, nil
	case strings.HasSuffix(path, ".lz4"):
		return lz4.NewReader(r), func() {}, nil
	default:
		return r, func() {}, nil
	}
}

// maxLineBytes bounds a single record.
const maxLineBytes = 16 * 1024 * 1024

// Parse reads LIBSVM records until EOF. A malformed line aborts the whole read.
func Parse(r io.Reader) (*wml.Dataset, error) {
	ds := &wml.Dataset{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		example, err := ParseLine(line)
		if err != nil {
			return nil, &DataFormatError{Line: lineNo, Text: line, Err: err}
		}
		ds.Add(example)
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &DataFormatError{Line: lineNo + 1, Err: err}
		}
		return nil, err
	}
	return ds, nil
}

// ParseLine parses one non-empty record.
func ParseLine(line string) (wml.Example, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return wml.Example{}, fmt.Errorf("%w: empty record", ErrBadToken)
	}
	label, err := strconv.ParseFloat(tokens[0], 64)
	if err != nil {
		return wml.Example{}, fmt.Errorf("label: %w", err)
	}

	features := make([]wml.Feature, 0, len(tokens)-1)
	for _, token := range tokens[1:] {
		indexText, valueText, ok := strings.Cut(token, ":")
		if !ok || indexText == "" || valueText == "" {
			return wml.Example{}, fmt.Errorf("%w: %q", ErrBadToken, token)
		}
		index, err := strconv.Atoi(indexText)
		if err != nil {
			return wml.Example{}, fmt.Errorf("index of %q: %w", token, err)
		}
		if index < 0 {
			return wml.Example{}, fmt.Errorf("%w: %q", ErrNegativeIndex, token)
		}
		value, err := strconv.ParseFloat(valueText, 32)
		if err != nil {
			return wml.Example{}, fmt.Errorf("value of %q: %w", token, err)
		}
		features = append(features, wml.Feature{Index: index, Value: float32(value)})
	}
	return wml.Example{Label: label > 0, Features: features}, nil
}
