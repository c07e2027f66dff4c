package place

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunKey_Creation(t *testing.T) {
	tests := []struct {
		name string
		seed int64
	}{
		{"positive seed", 42},
		{"zero seed", 0},
		{"negative seed", -1},
		{"max int64", math.MaxInt64},
		{"min int64", math.MinInt64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.seed, int64(NewRunKey(tt.seed)))
		})
	}
}

func TestPartitionedRNG_DeterministicDerivation(t *testing.T) {
	rng1 := NewPartitionedRNG(NewRunKey(42))
	rng2 := NewPartitionedRNG(NewRunKey(42))
	name := SubsystemType("NAND2")
	for i := 0; i < 3; i++ {
		assert.Equal(t, rng1.ForSubsystem(name).Float64(), rng2.ForSubsystem(name).Float64(), "value %d", i)
	}
}

func TestPartitionedRNG_TypeStreamsAreIsolated(t *testing.T) {
	// Drawing from the DFF stream does not shift the NAND2 stream.
	a := NewPartitionedRNG(NewRunKey(7))
	for i := 0; i < 10; i++ {
		a.ForSubsystem(SubsystemType("DFF")).Int63()
	}
	got := a.ForSubsystem(SubsystemType("NAND2")).Int63()

	fresh := NewPartitionedRNG(NewRunKey(7))
	assert.Equal(t, fresh.ForSubsystem(SubsystemType("NAND2")).Int63(), got)
}

func TestPartitionedRNG_CachesInstance(t *testing.T) {
	rng := NewPartitionedRNG(NewRunKey(42))
	assert.Same(t, rng.ForSubsystem("x"), rng.ForSubsystem("x"))
	assert.Equal(t, RunKey(42), rng.Key())
}

func TestPartitionedRNG_LazyInitialization(t *testing.T) {
	rng := NewPartitionedRNG(NewRunKey(42))
	assert.Empty(t, rng.subsystems)
	rng.ForSubsystem(SubsystemType("INV"))
	assert.Len(t, rng.subsystems, 1)
}

func TestSubsystemType_Names(t *testing.T) {
	assert.Equal(t, "type_NAND2", SubsystemType("NAND2"))
	assert.NotEqual(t, fnv1a64(SubsystemType("A")), fnv1a64(SubsystemType("B")))
}
