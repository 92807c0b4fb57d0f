package utils

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseSymbols(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"empty string", "", nil},
		{"only separators", " , ,", nil},
		{"single", "aapl", []string{"AAPL"}},
		{"spacing", " msft ,  nvda", []string{"MSFT", "NVDA"}},
		{"repeats dropped", "AAPL,aapl, MSFT", []string{"AAPL", "MSFT"}},
		{"index symbols", "^gspc,brk-b", []string{"^GSPC", "BRK-B"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseSymbols(tt.input))
		})
	}
}

func TestNormalizeSymbols_PreservesInput(t *testing.T) {
	in := []string{" a ", "b"}
	NormalizeSymbols(in)
	assert.Equal(t, []string{" a ", "b"}, in)
}

func TestTimer_Stop(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	timer := NewTimer("scan", log)
	timer.now = func() time.Time { return timer.start.Add(2 * time.Second) }
	assert.Equal(t, 2*time.Second, timer.Stop())
	assert.Contains(t, buf.String(), `"level":"debug"`)
	assert.Contains(t, buf.String(), `"operation":"scan"`)

	buf.Reset()
	slow := NewTimer("scan", log)
	slow.now = func() time.Time { return slow.start.Add(time.Minute) }
	slow.Stop()
	assert.Contains(t, buf.String(), `"level":"warn"`)
}
