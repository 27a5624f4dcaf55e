// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test reply parsing of the console prompter

package ui_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/mmv/pkg/errors"
	"github.com/arthur-debert/mmv/pkg/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleYesNo(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    bool
		wantOut string
	}{
		{"yes", "y\n", true, "Go? "},
		{"yes word", "Yes please\n", true, "Go? "},
		{"no", "n\n", false, "Go? "},
		{"upper no", "NO\n", false, "Go? "},
		{"retry", "maybe\n\ny\n", true, "Go? Yes or No? Yes or No? "},
		{"no trailing newline", "y", true, "Go? "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			c := ui.NewConsoleFrom(strings.NewReader(tt.input), &out)

			got, err := c.YesNo("Go? ")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOut, out.String())
		})
	}
}

func TestConsoleEndOfInput(t *testing.T) {
	var out bytes.Buffer
	c := ui.NewConsoleFrom(strings.NewReader("what\n"), &out)

	_, err := c.YesNo("Go? ")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCancelled))
	assert.Equal(t, "Go? Yes or No? Can not get reply.\n", out.String())
}

func TestConsoleAsk(t *testing.T) {
	var out bytes.Buffer
	c := ui.NewConsoleFrom(strings.NewReader("report.txt\r\nignored\n"), &out)

	name, err := c.Ask("File name> ")
	require.NoError(t, err)
	assert.Equal(t, "report.txt", name)
	assert.Equal(t, "File name> ", out.String())
}

func TestConsoleWithoutTerminal(t *testing.T) {
	var out bytes.Buffer
	c := ui.NewConsole(&out)
	missing := filepath.Join(t.TempDir(), "tty")
	ui.SetConsolePath(c, missing)

	_, err := c.YesNo("Go? ")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCancelled))
	assert.Equal(t, "Go? Can not open "+missing+" to get reply.\n", out.String())
}
