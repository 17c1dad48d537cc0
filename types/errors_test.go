package types

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		fatal bool
	}{
		{name: "nil", err: nil, fatal: false},
		{name: "plain error", err: errors.New("duplicate key"), fatal: false},
		{name: "record error", err: &RecordError{Path: "a.json", Line: 2, Err: errors.New("bad")}, fatal: false},
		{name: "marked fatal", err: Fatal(errors.New("boom")), fatal: true},
		{name: "wrapped fatal", err: fmt.Errorf("stage failed: %w", Fatal(errors.New("boom"))), fatal: true},
		{name: "cancelled context", err: fmt.Errorf("exec: %w", context.Canceled), fatal: true},
		{name: "bad connection", err: fmt.Errorf("exec: %w", driver.ErrBadConn), fatal: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.fatal, IsFatal(tt.err))
		})
	}
}

func TestRecordErrorUnwrap(t *testing.T) {
	inner := errors.New("missing song_id")
	err := fmt.Errorf("process: %w", &RecordError{Path: "song.json", Err: inner})

	var recordErr *RecordError
	assert.True(t, errors.As(err, &recordErr))
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "record song.json: missing song_id", recordErr.Error())
}

func TestParseErrorPolicy(t *testing.T) {
	policy, err := ParseErrorPolicy("")
	assert.NoError(t, err)
	assert.Equal(t, FailPolicy, policy)

	policy, err = ParseErrorPolicy(" Skip ")
	assert.NoError(t, err)
	assert.Equal(t, SkipPolicy, policy)

	_, err = ParseErrorPolicy("retry")
	assert.Error(t, err)
}
