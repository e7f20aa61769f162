package validator

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"

	"golang.org/x/sync/errgroup"

	"github.com/Strum355/vscode-mc-shader/internal/shaderkind"
)

// ExecAdapter drives a real GLSL validator binary (e.g. glslangValidator)
// as a subprocess, writing the merged buffer to its stdin on one
// goroutine while os/exec drains its combined stdout/stderr into a buffer
// and the caller waits for exit, so a full pipe in either direction can
// never deadlock the exchange, the same
// shape gopls uses to run govulncheck as a subprocess.
type ExecAdapter struct {
	// BinaryPath is the validator executable to invoke.
	BinaryPath string
	// KindFlag returns the command-line argument that tells the driver
	// which shader kind it is compiling.
	KindFlag func(shaderkind.Kind) []string
}

// NewExecAdapter returns an ExecAdapter for binaryPath using the standard
// -S<stage> flag convention glslangValidator-compatible drivers accept.
func NewExecAdapter(binaryPath string) *ExecAdapter {
	return &ExecAdapter{
		BinaryPath: binaryPath,
		KindFlag:   defaultKindFlag,
	}
}

func defaultKindFlag(k shaderkind.Kind) []string {
	switch k {
	case shaderkind.Fragment:
		return []string{"-S", "frag"}
	case shaderkind.Vertex:
		return []string{"-S", "vert"}
	case shaderkind.Geometry:
		return []string{"-S", "geom"}
	case shaderkind.Compute:
		return []string{"-S", "comp"}
	default:
		return nil
	}
}

// Validate runs the configured driver over mergedText. A missing or
// unconfigured binary degrades to (.., false, nil): the driver "refused to
// run", which the lint orchestrator treats as DriverUnavailable rather
// than a hard failure.
func (a *ExecAdapter) Validate(ctx context.Context, kind shaderkind.Kind, mergedText string) (string, bool, error) {
	if a.BinaryPath == "" {
		return "", false, nil
	}
	flags := a.KindFlag(kind)
	if flags == nil {
		return "", false, nil
	}

	args := append(append([]string{}, flags...), "--stdin")
	cmd := exec.CommandContext(ctx, a.BinaryPath, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return "", false, fmt.Errorf("validator: stdin pipe: %w", err)
	}

	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined

	if err := cmd.Start(); err != nil {
		// The driver is simply unavailable: a missing executable degrades
		// to no diagnostics rather than a hard lint failure.
		return "", false, nil
	}

	var g errgroup.Group
	g.Go(func() error {
		defer stdin.Close()
		_, err := io.Copy(stdin, bytesReader(mergedText))
		return err
	})

	waitErr := cmd.Wait()
	if err := g.Wait(); err != nil {
		return "", false, fmt.Errorf("validator: writing stdin: %w", err)
	}
	// A non-zero exit from a real compiler is expected whenever it reports
	// errors; the diagnostic text on stdout/stderr is what matters, not
	// the exit code.
	_ = waitErr

	return combined.String(), true, nil
}

func bytesReader(s string) io.Reader {
	return bytes.NewReader([]byte(s))
}
