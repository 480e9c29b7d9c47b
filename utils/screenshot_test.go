package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFilename(t *testing.T) {
	ts := time.Date(2023, 7, 6, 14, 5, 9, 0, time.UTC)
	assert.Equal(t, "apply-aborted_2023-07-06_14-05-09.png", Filename("apply-aborted", ts))
}

func TestNewScreenShotDebugger_Defaults(t *testing.T) {
	d := NewScreenShotDebugger("", nil)
	assert.Equal(t, "logs/screenshots", d.outputDir)
	assert.NotNil(t, d.log)
}
