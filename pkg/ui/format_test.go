package ui_test

import (
	"os"
	"testing"

	"github.com/arthur-debert/mmv/pkg/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    ui.Format
		wantErr bool
	}{
		{"", ui.FormatText, false},
		{"text", ui.FormatText, false},
		{"YAML", ui.FormatYAML, false},
		{"yml", ui.FormatYAML, false},
		{"json", ui.FormatText, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ui.ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, must(ui.ParseFormat(got.String())))
		})
	}
}

func must(f ui.Format, err error) ui.Format {
	if err != nil {
		panic(err)
	}
	return f
}

func TestParseColor(t *testing.T) {
	for in, want := range map[string]ui.ColorMode{
		"":       ui.ColorAuto,
		"auto":   ui.ColorAuto,
		"always": ui.ColorAlways,
		"never":  ui.ColorNever,
	} {
		got, err := ui.ParseColor(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ui.ParseColor("sometimes")
	assert.Error(t, err)
}

func TestUseColor(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.True(t, ui.UseColor(ui.ColorAlways, f))
	assert.False(t, ui.UseColor(ui.ColorNever, f))
	assert.False(t, ui.UseColor(ui.ColorAuto, f), "a regular file is not a terminal")
}
