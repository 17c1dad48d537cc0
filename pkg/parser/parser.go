package parser

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
)

// RecordCallback is called for each decoded record along with its 1-based position in the file.
// Return error to stop processing.
type RecordCallback[T any] func(ctx context.Context, line int, record *T) error

// JSONConfig holds JSON-specific parsing configuration
type JSONConfig struct {
	LineDelimited bool `json:"line_delimited"` // Default: true (JSONL format)
}

// DefaultJSONConfig is the layout of the song and log datasets
func DefaultJSONConfig() JSONConfig {
	return JSONConfig{LineDelimited: true}
}

// JSONParser decodes JSON files into typed records
type JSONParser struct {
	config   JSONConfig
	validate *validator.Validate
}

// NewJSONParser creates a new JSON parser with the given configuration
func NewJSONParser(config JSONConfig) *JSONParser {
	return &JSONParser{
		config:   config,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Validate checks the `validate` struct tags of a decoded record
func (p *JSONParser) Validate(ctx context.Context, record any) error {
	if err := p.validate.StructCtx(ctx, record); err != nil {
		return fmt.Errorf("invalid record: %w", err)
	}
	return nil
}

// StreamFile opens path and streams its records through callback
func StreamFile[T any](ctx context.Context, p *JSONParser, path string, callback RecordCallback[T]) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	return StreamRecords(ctx, p, path, file, callback)
}

// StreamRecords is StreamFile for an already opened reader; path is only used to annotate errors
func StreamRecords[T any](ctx context.Context, p *JSONParser, path string, reader io.Reader, callback RecordCallback[T]) error {
	if p.config.LineDelimited {
		return streamJSONL(ctx, path, reader, callback)
	}
	return streamJSONArray(ctx, path, reader, callback)
}
