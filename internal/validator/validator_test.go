package validator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Strum355/vscode-mc-shader/internal/shaderkind"
	"github.com/Strum355/vscode-mc-shader/internal/validator"
)

func TestExecAdapterDegradesWhenUnconfigured(t *testing.T) {
	a := validator.NewExecAdapter("")
	out, ok, err := a.Validate(context.Background(), shaderkind.Fragment, "void main(){}\n")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, out)
}

func TestExecAdapterDegradesOnMissingBinary(t *testing.T) {
	a := validator.NewExecAdapter("/definitely/not/a/real/glsl/driver")
	out, ok, err := a.Validate(context.Background(), shaderkind.Fragment, "void main(){}\n")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, out)
}

// stubAdapter is a minimal value-type Adapter used only to check that the
// interface can be satisfied outside this package.
type stubAdapter struct {
	output string
	ok     bool
}

func (s stubAdapter) Validate(context.Context, shaderkind.Kind, string) (string, bool, error) {
	return s.output, s.ok, nil
}

func TestAdapterInterfaceSatisfiedByStub(t *testing.T) {
	var _ validator.Adapter = stubAdapter{}
}
