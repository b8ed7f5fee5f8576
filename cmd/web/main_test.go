//go:build js && wasm

package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFailureStatusSaysNothingIsDrawn(t *testing.T) {
	msg := failureStatus(errors.New("GPU initialization failed: not yet implemented"))
	assert.Contains(t, msg, "GPU initialization failed")
	assert.Contains(t, msg, "nothing is drawn")
}

func TestCanvasSizeWithoutDocument(t *testing.T) {
	w, h := canvasSize()
	assert.Equal(t, []uint32{800, 600}, []uint32{w, h})
}
