package output_test

import (
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/inkdeck/internal/ui/output"
)

func TestColorProfileRespectsNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, termenv.Ascii, output.ColorProfile())
}

func TestNewWritesToWriter(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var sb strings.Builder
	out := output.New(&sb)

	_, err := out.WriteString("hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", sb.String())
}
