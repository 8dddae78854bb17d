package skua

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func markerStep(order *[]string, name string) Step {
	return func(ctx context.Context, db Execer) error {
		*order = append(*order, name)
		return nil
	}
}

func Test_StepListYieldsStepsInDeclarationOrder(t *testing.T) {
	var order []string

	registry := StepList{
		markerStep(&order, "one"),
		markerStep(&order, "two"),
		markerStep(&order, "three"),
	}

	for _, s := range registry.Steps() {
		require.NoError(t, s(context.Background(), nil))
	}

	assert.Equal(t, []string{"one", "two", "three"}, order)
}

func Test_BuilderCollectsStepsInAddOrder(t *testing.T) {
	var order []string

	b := NewBuilder().
		Add(markerStep(&order, "first")).
		Add(markerStep(&order, "second"))

	steps := b.Steps()
	require.Len(t, steps, 2)

	for _, s := range steps {
		require.NoError(t, s(context.Background(), nil))
	}

	assert.Equal(t, []string{"first", "second"}, order)
}

func Test_BuilderStepsReturnsACopy(t *testing.T) {
	var order []string

	b := NewBuilder().Add(markerStep(&order, "only"))

	steps := b.Steps()
	steps[0] = nil

	require.Len(t, b.Steps(), 1)
	assert.NotNil(t, b.Steps()[0])
}
