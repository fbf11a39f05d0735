package tokenizer

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/dtnitsch/topwords/models"
)

type osOpener struct{}

func (osOpener) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// failingReader returns some data, then an error.
type failingReader struct {
	data []byte
	err  error
	done bool
}

func (f *failingReader) Read(p []byte) (int, error) {
	if !f.done {
		f.done = true
		return copy(p, f.data), nil
	}
	return 0, f.err
}

type trackingCloser struct {
	io.Reader
	closed bool
}

func (t *trackingCloser) Close() error {
	t.closed = true
	return nil
}

type stubOpener struct {
	rc  io.ReadCloser
	err error
}

func (s stubOpener) Open(string) (io.ReadCloser, error) {
	return s.rc, s.err
}

func TestCount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  models.FrequencyMap
	}{
		{
			name:  "empty input",
			input: "",
			want:  models.FrequencyMap{},
		},
		{
			name:  "only whitespace",
			input: " \t\n\r\n  ",
			want:  models.FrequencyMap{},
		},
		{
			name:  "leading and trailing whitespace is dropped",
			input: "   cat dog   ",
			want:  models.FrequencyMap{"cat": 1, "dog": 1},
		},
		{
			name:  "mixed whitespace runs",
			input: "a\tb\n\na  \v b\fa\r\n",
			want:  models.FrequencyMap{"a": 3, "b": 2},
		},
		{
			name:  "case sensitive, no normalization",
			input: "Cat cat CAT cat. cat",
			want:  models.FrequencyMap{"Cat": 1, "cat": 2, "CAT": 1, "cat.": 1},
		},
		{
			name:  "unicode tokens",
			input: "héllo wörld héllo 世界",
			want:  models.FrequencyMap{"héllo": 2, "wörld": 1, "世界": 1},
		},
		{
			name:  "no-break space is not a separator",
			input: "a\u00a0b",
			want:  models.FrequencyMap{"a\u00a0b": 1},
		},
		{
			name:  "vertical tab separates",
			input: "a\vb",
			want:  models.FrequencyMap{"a": 1, "b": 1},
		},
		{
			name:  "only ascii whitespace separates",
			input: "a\u00a0b c\u2003d e\u0085f g\u3000h",
			want:  models.FrequencyMap{"a\u00a0b": 1, "c\u2003d": 1, "e\u0085f": 1, "g\u3000h": 1},
		},
		{
			name:  "invalid utf-8 degrades into the token",
			input: "ab\xffcd ab\xffcd",
			want:  models.FrequencyMap{"ab\xffcd": 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := Count(context.Background(), strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("Count() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Count() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCount_TokensAcrossReadBoundaries(t *testing.T) {
	input := "alpha  beta\tgamma\n\nalpha"
	got, _, err := Count(context.Background(), iotest.OneByteReader(strings.NewReader(input)))
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	want := models.FrequencyMap{"alpha": 2, "beta": 1, "gamma": 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Count() = %v, want %v", got, want)
	}
}

func TestCount_Totals(t *testing.T) {
	input := "one two two\nthree three three\n"
	_, totals, err := Count(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if totals.Tokens != 6 {
		t.Errorf("totals.Tokens = %d, want 6", totals.Tokens)
	}
	if totals.Bytes != int64(len(input)) {
		t.Errorf("totals.Bytes = %d, want %d", totals.Bytes, len(input))
	}
}

func TestCount_Idempotent(t *testing.T) {
	input := strings.Repeat("the quick brown fox jumps over the lazy dog\n", 50)

	first, _, err := Count(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		again, _, err := Count(context.Background(), strings.NewReader(input))
		if err != nil {
			t.Fatalf("Count() error = %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Count() run %d = %v, want %v", i, again, first)
		}
	}
}

func TestCount_TokenTooLong(t *testing.T) {
	input := strings.Repeat("x", MaxTokenBytes+1)
	_, _, err := Count(context.Background(), strings.NewReader(input))
	if err == nil {
		t.Fatal("Count() error = nil, want token too long")
	}
}

func TestCount_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	input := strings.Repeat("w ", ctxCheckEvery*2)
	_, _, err := Count(ctx, strings.NewReader(input))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Count() error = %v, want context.Canceled", err)
	}
}

func TestCountFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words.txt")
	if err := os.WriteFile(path, []byte("1\n2 2\n3 3 3\n"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	counts, totals, err := CountFile(context.Background(), osOpener{}, path)
	if err != nil {
		t.Fatalf("CountFile() error = %v", err)
	}
	want := models.FrequencyMap{"1": 1, "2": 2, "3": 3}
	if !reflect.DeepEqual(counts, want) {
		t.Errorf("CountFile() = %v, want %v", counts, want)
	}
	if totals.Tokens != 6 {
		t.Errorf("totals.Tokens = %d, want 6", totals.Tokens)
	}
}

func TestCountFile_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.txt")

	_, _, err := CountFile(context.Background(), osOpener{}, path)

	var readErr *ReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("CountFile() error = %v, want *ReadError", err)
	}
	if readErr.Path != path {
		t.Errorf("ReadError.Path = %q, want %q", readErr.Path, path)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("CountFile() error should wrap os.ErrNotExist, got %v", err)
	}
}

func TestCountFile_ReadFailureClosesHandle(t *testing.T) {
	boom := errors.New("disk went away")
	rc := &trackingCloser{Reader: &failingReader{data: []byte("a b c "), err: boom}}

	_, _, err := CountFile(context.Background(), stubOpener{rc: rc}, "flaky.txt")

	if !errors.Is(err, boom) {
		t.Errorf("CountFile() error = %v, want %v", err, boom)
	}
	var readErr *ReadError
	if !errors.As(err, &readErr) || readErr.Path != "flaky.txt" {
		t.Errorf("CountFile() error = %v, want *ReadError for flaky.txt", err)
	}
	if !rc.closed {
		t.Error("CountFile() did not close the file after a read failure")
	}
}

func TestCountFile_EmptyFileClosesHandle(t *testing.T) {
	rc := &trackingCloser{Reader: strings.NewReader("")}

	counts, _, err := CountFile(context.Background(), stubOpener{rc: rc}, "empty.txt")
	if err != nil {
		t.Fatalf("CountFile() error = %v", err)
	}
	if len(counts) != 0 {
		t.Errorf("CountFile() = %v, want empty map", counts)
	}
	if !rc.closed {
		t.Error("CountFile() did not close an empty file")
	}
}
