// Package config loads the pipeline demo configuration from YAML or JSON.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Execution modes for the pipeline.
const (
	ModePool    = "pool"
	ModeProcess = "process"
)

// FileConfig mirrors the on-disk layout.
type FileConfig struct {
	Pipeline PipelineConfig `yaml:"pipeline" json:"pipeline"`
}

// PipelineConfig describes one pipeline run.
type PipelineConfig struct {
	Mode        string          `yaml:"mode" json:"mode"`
	Tasks       int             `yaml:"tasks" json:"tasks"`
	Buckets     int             `yaml:"buckets" json:"buckets"`
	Workers     int             `yaml:"workers" json:"workers"`
	WorkerRatio float64         `yaml:"worker_ratio" json:"worker_ratio"`
	Concurrency int             `yaml:"concurrency" json:"concurrency"`
	Retry       RetryConfig     `yaml:"retry" json:"retry"`
	RateLimit   RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`
}

// RetryConfig is the fixed-delay retry budget applied to every unit of work.
type RetryConfig struct {
	Attempts int    `yaml:"attempts" json:"attempts"`
	Delay    string `yaml:"delay" json:"delay"`
}

// RateLimitConfig throttles task starts; zero disables it.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second" json:"per_second"`
	Burst     int     `yaml:"burst" json:"burst"`
}

// Pipeline is the validated, typed form of PipelineConfig.
type Pipeline struct {
	Mode          string
	Tasks         int
	Buckets       int
	Workers       int
	WorkerRatio   float64
	Concurrency   int
	RetryAttempts int
	RetryDelay    time.Duration
	RatePerSecond float64
	RateBurst     int
}

// Default returns the settings used when no file is given.
func Default() Pipeline {
	return Pipeline{
		Mode:          ModePool,
		Tasks:         64,
		Buckets:       4,
		Workers:       0, // resolved from WorkerRatio by the caller
		WorkerRatio:   2.0 / 3,
		Concurrency:   4,
		RetryAttempts: 3,
		RetryDelay:    10 * time.Millisecond,
	}
}

// LoadFile reads a .yaml/.yml/.json config file.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}

	return &cfg, nil
}

// Validate checks value ranges without applying defaults.
func (f *FileConfig) Validate() error {
	p := f.Pipeline

	switch strings.ToLower(p.Mode) {
	case "", ModePool, ModeProcess:
	default:
		return fmt.Errorf("unknown mode: %s", p.Mode)
	}
	if p.Tasks < 0 {
		return fmt.Errorf("tasks must be non-negative")
	}
	if p.Buckets < 0 {
		return fmt.Errorf("buckets must be non-negative")
	}
	if p.Workers < 0 {
		return fmt.Errorf("workers must be non-negative")
	}
	if p.WorkerRatio < 0 {
		return fmt.Errorf("worker_ratio must be non-negative")
	}
	if p.Retry.Attempts < 0 {
		return fmt.Errorf("retry.attempts must be non-negative")
	}
	if p.RateLimit.PerSecond < 0 || p.RateLimit.Burst < 0 {
		return fmt.Errorf("rate_limit values must be non-negative")
	}

	return nil
}

// ToPipeline overlays the file settings on Default.
func (f *FileConfig) ToPipeline() (Pipeline, error) {
	p := f.Pipeline
	out := Default()

	if p.Mode != "" {
		out.Mode = strings.ToLower(p.Mode)
	}
	if p.Tasks > 0 {
		out.Tasks = p.Tasks
	}
	if p.Buckets > 0 {
		out.Buckets = p.Buckets
	}
	if p.Workers > 0 {
		out.Workers = p.Workers
	}
	if p.WorkerRatio > 0 {
		out.WorkerRatio = p.WorkerRatio
	}
	if p.Concurrency != 0 {
		out.Concurrency = p.Concurrency
	}
	if p.Retry.Attempts > 0 {
		out.RetryAttempts = p.Retry.Attempts
	}
	if p.Retry.Delay != "" {
		d, err := time.ParseDuration(p.Retry.Delay)
		if err != nil {
			return out, fmt.Errorf("invalid retry delay: %w", err)
		}
		out.RetryDelay = d
	}
	out.RatePerSecond = p.RateLimit.PerSecond
	out.RateBurst = p.RateLimit.Burst

	return out, nil
}
