package parser

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/datazip-inc/sparkify/types"
	"github.com/goccy/go-json"
)

// streamJSONL decodes line-delimited JSON. A malformed record stops the stream with a RecordError,
// the decoder cannot reliably resynchronise after a syntax error.
func streamJSONL[T any](ctx context.Context, path string, reader io.Reader, callback RecordCallback[T]) error {
	decoder := json.NewDecoder(reader)
	for line := 1; ; line++ {
		// Check context cancellation
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		record := new(T)
		err := decoder.Decode(record)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return &types.RecordError{Path: path, Line: line, Err: fmt.Errorf("malformed JSON: %w", err)}
		}

		if err := callback(ctx, line, record); err != nil {
			return err
		}
	}
}

// streamJSONArray decodes a top level JSON array element by element to avoid loading it whole
func streamJSONArray[T any](ctx context.Context, path string, reader io.Reader, callback RecordCallback[T]) error {
	decoder := json.NewDecoder(reader)

	// Read opening bracket
	token, err := decoder.Token()
	if err != nil {
		return &types.RecordError{Path: path, Err: fmt.Errorf("failed to read JSON array start: %w", err)}
	}

	// Verify it's an array
	if delim, ok := token.(json.Delim); !ok || delim != '[' {
		return &types.RecordError{Path: path, Err: fmt.Errorf("expected JSON array, got: %v", token)}
	}

	for line := 1; decoder.More(); line++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		record := new(T)
		if err := decoder.Decode(record); err != nil {
			return &types.RecordError{Path: path, Line: line, Err: fmt.Errorf("failed to decode JSON array element: %w", err)}
		}

		if err := callback(ctx, line, record); err != nil {
			return err
		}
	}
	return nil
}
