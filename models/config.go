// Package models defines data structures for configuration and ranking.
package models

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	// MaxTopN caps how many ranked words a run may request.
	MaxTopN = 100
	// MaxFileWalk caps directory traversal depth.
	MaxFileWalk = 99
	// MaxWorkers caps an explicitly configured worker count.
	MaxWorkers = 1024
)

// MergeMode selects what each task hands to the global aggregator.
type MergeMode string

const (
	// MergeExact merges every file's full frequency map.
	MergeExact MergeMode = "exact"
	// MergeBounded merges only each file's top-N ranking.
	MergeBounded MergeMode = "bounded"
)

// RunConfig holds runtime configuration for a counting run.
// Values come from an optional YAML file, then CLI flags and env vars.
type RunConfig struct {
	TopN        int           `yaml:"top_n" validate:"min=1,max=100"`
	Roots       []string      `yaml:"paths" validate:"min=1,dive,required"`
	Workers     int           `yaml:"workers" validate:"min=0,max=1024"`
	MaxDepth    int           `yaml:"max_depth" validate:"min=0,max=99"`
	Merge       MergeMode     `yaml:"merge" validate:"oneof=exact bounded"`
	TaskTimeout time.Duration `yaml:"task_timeout" validate:"min=0"`
}

// DefaultConfig returns a config with every optional field at its default.
func DefaultConfig() *RunConfig {
	return &RunConfig{
		MaxDepth: MaxFileWalk,
		Merge:    MergeExact,
	}
}

// LoadConfig reads a YAML config file on top of the defaults.
func LoadConfig(path string) (*RunConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return config, nil
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the config before any file is touched.
func (c *RunConfig) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate config: %w", err)
	}

	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		verr.Problems = append(verr.Problems, describe(fe))
	}
	return verr
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("%s must be at least %s (got %v)", fe.Field(), fe.Param(), fe.Value())
	case "max":
		return fmt.Sprintf("%s must be at most %s (got %v)", fe.Field(), fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s] (got %v)", fe.Field(), fe.Param(), fe.Value())
	case "required":
		return fmt.Sprintf("%s must not be empty", fe.Namespace())
	default:
		return fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
	}
}

// EffectiveWorkers resolves the worker count for a run over fileCount files.
// Zero means one less than the available CPUs, leaving the coordinator a core.
func (c *RunConfig) EffectiveWorkers(fileCount int) int {
	workers := c.Workers
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	if fileCount > 0 && workers > fileCount {
		workers = fileCount
	}
	return workers
}

// DefaultWorkers is NumCPU-1 with a floor of one.
func DefaultWorkers() int {
	cores := runtime.NumCPU()
	if cores > 1 {
		return cores - 1
	}
	return 1
}
