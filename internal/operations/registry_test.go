package operations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(newFakeStep("load", nil)))
	require.NoError(t, r.Register(newFakeStep("clean", nil)))

	assert.Equal(t, 2, r.Count())
	assert.True(t, r.Has("load"))
	assert.False(t, r.Has("export"))

	step, err := r.Get("clean")
	require.NoError(t, err)
	assert.Equal(t, "clean", step.ID())

	_, err = r.Get("export")
	assert.Error(t, err)
}

func TestRegistry_RegisterErrors(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newFakeStep("load", nil)))

	tests := []struct {
		name string
		step Step
	}{
		{"nil step", nil},
		{"empty id", newFakeStep("", nil)},
		{"duplicate id", newFakeStep("load", nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, r.Register(tt.step))
		})
	}
	assert.Equal(t, 1, r.Count())
}

func TestRegistry_KeepsRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	ids := []string{"load", "clean", "filter", "reshape", "export"}
	for _, id := range ids {
		require.NoError(t, r.Register(newFakeStep(id, nil)))
	}

	assert.Equal(t, ids, r.ListIDs())

	var listed []string
	for _, s := range r.List() {
		listed = append(listed, s.ID())
	}
	assert.Equal(t, ids, listed)
}

func TestRegistry_ListIDsReturnsCopy(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newFakeStep("load", nil)))

	ids := r.ListIDs()
	ids[0] = "changed"

	assert.Equal(t, []string{"load"}, r.ListIDs())
}
