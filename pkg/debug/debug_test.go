package debug_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/walteh/liquidparse/pkg/debug"
)

func TestSplitFuncName(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		pkg      string
		function string
	}{
		{name: "method", in: "github.com/walteh/liquidparse/pkg/parser.(*Session).Run", pkg: "github.com/walteh/liquidparse/pkg/parser", function: "(*Session).Run"},
		{name: "func", in: "main.main", pkg: "main", function: "main"},
		{name: "no_dot", in: "weird", pkg: "weird", function: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg, fn := debug.SplitFuncName(tt.in)
			assert.Equal(t, tt.pkg, pkg)
			assert.Equal(t, tt.function, fn)
		})
	}
}

func TestFormatCaller(t *testing.T) {
	got := debug.FormatCaller("github.com/walteh/liquidparse/pkg/lexer", "/src/pkg/lexer/scanner.go", 42, false)
	assert.Equal(t, "lexer:scanner.go:42", got)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := debug.NewLogger(&buf, zerolog.DebugLevel, false)
	logger.Debug().Str("uri", "a.liquid").Msg("parsed document")

	out := buf.String()
	assert.Contains(t, out, "parsed document")
	assert.Contains(t, out, "uri=a.liquid")
	assert.Contains(t, out, "debug_test.go:")

	buf.Reset()
	quiet := debug.NewLogger(&buf, zerolog.WarnLevel, false)
	quiet.Debug().Msg("hidden")
	assert.Empty(t, buf.String())
}
