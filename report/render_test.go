package report

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestBuildGenerateArgs(t *testing.T) {
	require.Equal(t,
		[]string{"generate", "-o", "out/allure-report", "--clean", "allure-results"},
		BuildGenerateArgs("out/allure-report", "allure-results"))
}

func TestCommandRenderer_BuildGenerateCommand(t *testing.T) {
	tests := []struct {
		name    string
		binary  string
		outDir  string
		results string
		want    string
	}{
		{
			name:    "default binary",
			outDir:  "out/allure-report",
			results: "allure-results",
			want:    "allure generate -o out/allure-report --clean allure-results",
		},
		{
			name:    "paths with spaces",
			binary:  "/opt/allure/bin/allure",
			outDir:  "my reports/allure-report",
			results: "test results",
			want:    "/opt/allure/bin/allure generate -o 'my reports/allure-report' --clean 'test results'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewCommandRenderer(zerolog.Nop(), tt.binary)
			require.Equal(t, tt.want, r.BuildGenerateCommand(tt.outDir, tt.results))
		})
	}
}

// writeScript creates an executable shell script standing in for the renderer.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("renderer scripts need a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "allure")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755))
	return path
}

func TestCommandRenderer_Render(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args.txt")
	script := writeScript(t, fmt.Sprintf(`printf '%%s\n' "$@" > %q
echo "Report successfully generated"`, argsFile))

	r := NewCommandRenderer(zerolog.Nop(), script)
	require.NoError(t, r.Render("out/allure-report", "allure-results"))

	args := strings.Split(strings.TrimSpace(readFile(t, argsFile)), "\n")
	require.Equal(t, []string{"generate", "-o", "out/allure-report", "--clean", "allure-results"}, args)
}

func TestCommandRenderer_RenderFailure(t *testing.T) {
	script := writeScript(t, `echo "results directory not found" >&2
exit 3`)

	r := NewCommandRenderer(zerolog.Nop(), script)
	err := r.Render("out/allure-report", "missing")
	require.ErrorIs(t, err, ErrRender)

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	require.Equal(t, 3, renderErr.ExitCode)
	require.Contains(t, renderErr.Output, "results directory not found")
}

func TestCommandRenderer_MissingBinary(t *testing.T) {
	r := NewCommandRenderer(zerolog.Nop(), filepath.Join(t.TempDir(), "no-such-renderer"))

	err := r.Render("out", "results")
	require.ErrorIs(t, err, ErrIO)
	require.NotErrorIs(t, err, ErrRender)
}
