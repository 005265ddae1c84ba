package main

import (
	"strings"
	"testing"

	"github.com/potent-zedlee/templar-archives/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentInputs(t *testing.T) {
	inputs, err := segmentInputs([]string{"00:00:40-00:01:20=Final Table", "0-7200"})
	require.NoError(t, err)
	assert.Equal(t, []pipeline.SegmentInput{
		{Start: 40, End: 80, Label: "Final Table"},
		{Start: 0, End: 7200},
	}, inputs)

	_, err = segmentInputs([]string{"bogus"})
	assert.Error(t, err)
}

func TestReadInputStdin(t *testing.T) {
	data, err := readInput(strings.NewReader(`{"handNumber":1}`), "-")
	require.NoError(t, err)
	assert.Equal(t, `{"handNumber":1}`, string(data))
}
