package vm

// Limits holds the global resource bounds enforced at every step. They are
// virtualizable by the embedder: DefaultLimits returns the spec's defaults,
// but an Engine can be constructed with any Limits value.
type Limits struct {
	MaxStackSize           int
	MaxItemSize            int
	MaxInvocationStackSize int
	MaxArraySize           int
	MaxSizeForBigInteger   int
	MaxShiftSize           int
	MinShiftSize           int
}

// DefaultLimits returns the spec §6 default resource bounds.
func DefaultLimits() Limits {
	return Limits{
		MaxStackSize:           2048,
		MaxItemSize:            1 << 20,
		MaxInvocationStackSize: 1024,
		MaxArraySize:           1024,
		MaxSizeForBigInteger:   32,
		MaxShiftSize:           256,
		MinShiftSize:           -256,
	}
}
