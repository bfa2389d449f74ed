package test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chunkproc/cairohints/felt"
	"github.com/chunkproc/cairohints/hint"
	"github.com/chunkproc/cairohints/ids"
	"github.com/chunkproc/cairohints/vm"
)

func readInto(got *felt.Felt) hint.Hint {
	return hint.NewHint("read_y", func(ctx *hint.Context) error {
		f, err := ctx.Ids.Felt("y")
		if err != nil {
			return err
		}
		*got = f
		return nil
	}, "read(ids.y)")
}

func TestEngineApTracking(t *testing.T) {
	assert := require.New(t)

	e, err := NewEngine(WithApTracking(1, 2))
	assert.NoError(err)
	e.Felt("x", 5)
	e.Slot("a")
	e.Slot("b")
	// taken when ap was fp+1, two cells before the hint
	e.Declare("y", vm.Reference{
		Register:    vm.AP,
		Offset:      -1,
		Dereference: true,
		ApTracking:  vm.ApTracking{Group: 1, Offset: 0},
	})
	assert.Equal(vm.ApTracking{Group: 1, Offset: 2}, e.HintData("").ApTracking)

	var got felt.Felt
	assert.NoError(e.RunHint(readInto(&got)))
	assert.True(got.Equal(felt.FromUint64(5)))
}

func TestEngineApTrackingGroupMismatch(t *testing.T) {
	assert := require.New(t)

	e, err := NewEngine(WithApTracking(2, 0))
	assert.NoError(err)
	e.Felt("x", 5)
	e.Declare("y", vm.Reference{Register: vm.AP, Offset: -1, Dereference: true, ApTracking: vm.ApTracking{Group: 1}})

	var got felt.Felt
	assert.ErrorIs(e.RunHint(readInto(&got)), ids.ErrApTracking)
}
