// Package validator submits a merged shader buffer to an external GLSL
// driver and returns its raw diagnostic output.
package validator

import (
	"context"

	"github.com/Strum355/vscode-mc-shader/internal/shaderkind"
)

// Adapter drives an external GLSL compiler for one shader kind. A false
// ok return means the driver refused to run (e.g. an uninitialized
// OpenGL context), not an error, just "no diagnostics this time".
type Adapter interface {
	Validate(ctx context.Context, kind shaderkind.Kind, mergedText string) (output string, ok bool, err error)
}
