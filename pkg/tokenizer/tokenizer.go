// Package tokenizer counts whitespace-delimited tokens in a single file.
package tokenizer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dtnitsch/topwords/models"
)

// MaxTokenBytes bounds a single token. Longer runs fail the read rather
// than being split into two tokens.
const MaxTokenBytes = 1 << 20

// ctxCheckEvery is how many tokens are scanned between context checks.
const ctxCheckEvery = 4096

// Opener opens a file for reading. storage.Storage satisfies it.
type Opener interface {
	Open(path string) (io.ReadCloser, error)
}

// Totals describes how much input a count consumed.
type Totals struct {
	Tokens int   `json:"tokens" yaml:"tokens"`
	Bytes  int64 `json:"bytes" yaml:"bytes"`
}

// ReadError reports a file that could not be opened or fully read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Count splits r on runs of whitespace and counts each token.
// Whitespace is the ASCII set space, \t, \n, \v, \f and \r. Other Unicode
// spaces such as NBSP and invalid UTF-8 bytes stay inside tokens.
func Count(ctx context.Context, r io.Reader) (models.FrequencyMap, Totals, error) {
	cr := &countingReader{r: r}
	scanner := bufio.NewScanner(cr)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxTokenBytes)
	scanner.Split(scanTokens)

	counts := make(models.FrequencyMap)
	var totals Totals

	for scanner.Scan() {
		counts[scanner.Text()]++
		totals.Tokens++

		if totals.Tokens%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, totals, err
			}
		}
	}
	totals.Bytes = cr.n

	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, totals, fmt.Errorf("token exceeds %d bytes: %w", MaxTokenBytes, err)
		}
		return nil, totals, err
	}
	if err := ctx.Err(); err != nil {
		return nil, totals, err
	}

	return counts, totals, nil
}

// scanTokens is a bufio.SplitFunc that yields runs of non-separator bytes.
// It never returns an empty token.
func scanTokens(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for start < len(data) && isSeparator(data[start]) {
		start++
	}
	for i := start; i < len(data); i++ {
		if isSeparator(data[i]) {
			return i + 1, data[start:i], nil
		}
	}
	if atEOF && len(data) > start {
		return len(data), data[start:], nil
	}
	return start, nil, nil
}

func isSeparator(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// CountFile opens path through o and counts its tokens. The handle is
// closed on every return path.
func CountFile(ctx context.Context, o Opener, path string) (counts models.FrequencyMap, totals Totals, err error) {
	if err := ctx.Err(); err != nil {
		return nil, totals, err
	}

	f, err := o.Open(path)
	if err != nil {
		return nil, totals, &ReadError{Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			counts = nil
			err = &ReadError{Path: path, Err: cerr}
		}
	}()

	counts, totals, err = Count(ctx, f)
	if err != nil {
		// Cancellation is the scheduler's doing, not a property of the file.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, totals, err
		}
		return nil, totals, &ReadError{Path: path, Err: err}
	}
	return counts, totals, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
