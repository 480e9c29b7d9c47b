package apply

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStdinGate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ReviewOutcome
	}{
		{"enter completes", "\n", ReviewCompleted},
		{"s skips", "s\n", ReviewSkipped},
		{"S skips", "  S \n", ReviewSkipped},
		{"last line without newline", "s", ReviewSkipped},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			gate := NewStdinGate(strings.NewReader(tt.input), &out)

			got, err := gate.Review(context.Background(), reviewReady(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "ready for review")
		})
	}
}

func TestStdinGate_ClosedInput(t *testing.T) {
	gate := NewStdinGate(strings.NewReader(""), &bytes.Buffer{})
	_, err := gate.Review(context.Background(), reviewReady(t))
	assert.Error(t, err)
}
