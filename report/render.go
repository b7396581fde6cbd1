package report

// render.go contains the external renderer invocation.

import (
	"bytes"
	"errors"
	"os/exec"
	"strings"

	"al.essio.dev/pkg/shellescape"
	"github.com/rs/zerolog"
)

// DefaultRendererBinary is the renderer looked up on PATH when none is set.
const DefaultRendererBinary = "allure"

// Renderer turns a results directory into a report directory, replacing
// whatever was at artifactDir.
type Renderer interface {
	Render(artifactDir, resultsDir string) error
}

// CommandRenderer runs the renderer as an external process.
type CommandRenderer struct {
	logger zerolog.Logger
	binary string
}

// NewCommandRenderer creates a renderer calling binary, or
// DefaultRendererBinary when binary is empty.
func NewCommandRenderer(logger zerolog.Logger, binary string) *CommandRenderer {
	if binary == "" {
		binary = DefaultRendererBinary
	}
	return &CommandRenderer{logger: logger, binary: binary}
}

// BuildGenerateArgs builds the renderer arguments for one render.
func BuildGenerateArgs(artifactDir, resultsDir string) []string {
	return []string{"generate", "-o", artifactDir, "--clean", resultsDir}
}

// BuildGenerateCommand returns the shell-escaped command line, for logging.
func (r *CommandRenderer) BuildGenerateCommand(artifactDir, resultsDir string) string {
	args := BuildGenerateArgs(artifactDir, resultsDir)

	parts := make([]string, 0, len(args)+1)
	parts = append(parts, shellescape.Quote(r.binary))
	for _, arg := range args {
		parts = append(parts, shellescape.Quote(arg))
	}
	return strings.Join(parts, " ")
}

// Render runs the renderer and blocks until it exits. Output is captured but
// not parsed; a non-zero exit code is returned as *RenderError.
func (r *CommandRenderer) Render(artifactDir, resultsDir string) error {
	cmd := exec.Command(r.binary, BuildGenerateArgs(artifactDir, resultsDir)...)

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	r.logger.Debug().
		Str("command", r.BuildGenerateCommand(artifactDir, resultsDir)).
		Msg("Executing renderer")

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			r.logger.Debug().
				Int("exit_code", exitErr.ExitCode()).
				Str("output", output.String()).
				Msg("Renderer failed")
			return &RenderError{ExitCode: exitErr.ExitCode(), Output: output.String()}
		}
		return ioError("render", r.binary, err)
	}

	r.logger.Debug().Int("output_bytes", output.Len()).Msg("Renderer finished")
	return nil
}
