package domainerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	err := New(MatchCountMismatch, "stage needs %d matches, has %d", 4, 3).
		WithDetail("required", 4).
		WithDetail("actual", 3)

	assert.Equal(t, "match_count_mismatch: stage needs 4 matches, has 3", err.Error())
	assert.Equal(t, 4, err.Details["required"])
	assert.Equal(t, 3, err.Details["actual"])
}

func TestCodeOfThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("LockStage: %w", New(StageLocked, "locked"))
	assert.Equal(t, StageLocked, CodeOf(wrapped))
	assert.True(t, errors.Is(wrapped, New(StageLocked, "")))
	assert.False(t, errors.Is(wrapped, New(StageNotFound, "")))
	assert.Equal(t, Code(""), CodeOf(errors.New("plain")))
}
