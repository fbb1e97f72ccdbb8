package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// invoke runs the command line with the given standard input and returns the
// exit status and outputs. It always uses an empty config file.
func invoke(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "knight.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("history: \"\"\n"), 0o644))
	var out, errs bytes.Buffer
	a := newApp(strings.NewReader(stdin), &out, &errs)
	status := a.execute(append([]string{"--config", cfg}, args...))
	return status, out.String(), errs.String()
}

func TestRunExpression(t *testing.T) {
	cases := map[string]struct {
		args   []string
		stdin  string
		status int
		out    string
		errs   string
	}{
		"Output":      {[]string{"-e", `OUTPUT + 1 2`}, "", 0, "3\n", ""},
		"Quit":        {[]string{"-e", `; OUTPUT "bye" QUIT 7`}, "", 7, "bye\n", ""},
		"QuitZero":    {[]string{"-e", `QUIT 0`}, "", 0, "", ""},
		"Error":       {[]string{"-e", `/ 1 0`}, "", 1, "", "divide 1 by zero"},
		"ParseError":  {[]string{"-e", `+ 1`}, "", 1, "", "missing argument 2"},
		"Prompt":      {[]string{"-e", `OUTPUT + PROMPT "!"`}, "hello\nworld\n", 0, "hello!\n", ""},
		"Stdin":       {nil, "OUTPUT 'piped'\n", 0, "piped\n", ""},
		"Extensions":  {[]string{"-e", `OUTPUT ~ 3`}, "", 0, "-3\n", ""},
		"Checked":     {[]string{"--checked", "-e", `+ 9223372036854775807 1`}, "", 1, "", "overflows"},
		"Depth":       {[]string{"--max-depth", "2", "-e", `! ! ! T`}, "", 1, "", "nested deeper"},
		"Stats":       {[]string{"--stats", "-e", `= a "xyz"`}, "", 0, "", "variables=1 assigned=1 strings=1 bytes=3"},
		"BothSources": {[]string{"-e", "1", "-f", "x.kn"}, "", 1, "", "cannot use both"},
		"BadLevel":    {[]string{"--log-level", "loud", "-e", "1"}, "", 1, "", "log level"},
		"BadEncoding": {[]string{"--encoding", "ebcdic", "-e", "1"}, "", 1, "", "unknown encoding"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			status, out, errs := invoke(t, c.stdin, c.args...)
			assert.Equal(t, c.status, status)
			assert.Equal(t, c.out, out)
			if c.errs == "" {
				assert.Empty(t, errs)
			} else {
				assert.Contains(t, errs, c.errs)
			}
		})
	}
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.kn")
	require.NoError(t, os.WriteFile(path, []byte("# greet\nOUTPUT + 'hi ' PROMPT\n"), 0o644))
	status, out, _ := invoke(t, "there\n", path)
	assert.Equal(t, 0, status)
	assert.Equal(t, "hi there\n", out)

	status, out, _ = invoke(t, "you\n", "-f", path)
	assert.Equal(t, 0, status)
	assert.Equal(t, "hi you\n", out)

	status, _, errs := invoke(t, "", filepath.Join(dir, "missing.kn"))
	assert.Equal(t, 1, status)
	assert.Contains(t, errs, "missing.kn")
}

func TestRunEncoding(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "latin1.kn")
	// OUTPUT "café" in ISO 8859-1.
	require.NoError(t, os.WriteFile(path, []byte("OUTPUT \"caf\xe9\""), 0o644))
	status, out, _ := invoke(t, "", "--encoding", "latin1", path)
	assert.Equal(t, 0, status)
	assert.Equal(t, "café\n", out)
}

func TestVersion(t *testing.T) {
	status, out, _ := invoke(t, "", "version")
	assert.Equal(t, 0, status)
	assert.True(t, strings.HasPrefix(out, "knight "), out)
}

func TestTrace(t *testing.T) {
	status, _, errs := invoke(t, "", "--trace", "-e", `+ 1 2`)
	assert.Equal(t, 0, status)
	assert.Contains(t, errs, "msg=apply")
	assert.Contains(t, errs, "fn=+")
}
