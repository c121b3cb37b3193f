package adapter

// Per-type instantiations. Each has its own handle space.

var (
	BackwardFillImputerInt8   = NewBackwardFillFeaturizer[int8]()
	BackwardFillImputerInt16  = NewBackwardFillFeaturizer[int16]()
	BackwardFillImputerInt32  = NewBackwardFillFeaturizer[int32]()
	BackwardFillImputerInt64  = NewBackwardFillFeaturizer[int64]()
	BackwardFillImputerUInt8  = NewBackwardFillFeaturizer[uint8]()
	BackwardFillImputerUInt16 = NewBackwardFillFeaturizer[uint16]()
	BackwardFillImputerUInt32 = NewBackwardFillFeaturizer[uint32]()
	BackwardFillImputerUInt64 = NewBackwardFillFeaturizer[uint64]()
	BackwardFillImputerFloat  = NewBackwardFillFeaturizer[float32]()
	BackwardFillImputerDouble = NewBackwardFillFeaturizer[float64]()
	BackwardFillImputerBool   = NewBackwardFillFeaturizer[bool]()
	BackwardFillImputerString = NewBackwardFillFeaturizer[string]()
)

var (
	ForwardFillImputerInt8   = NewForwardFillFeaturizer[int8]()
	ForwardFillImputerInt16  = NewForwardFillFeaturizer[int16]()
	ForwardFillImputerInt32  = NewForwardFillFeaturizer[int32]()
	ForwardFillImputerInt64  = NewForwardFillFeaturizer[int64]()
	ForwardFillImputerUInt8  = NewForwardFillFeaturizer[uint8]()
	ForwardFillImputerUInt16 = NewForwardFillFeaturizer[uint16]()
	ForwardFillImputerUInt32 = NewForwardFillFeaturizer[uint32]()
	ForwardFillImputerUInt64 = NewForwardFillFeaturizer[uint64]()
	ForwardFillImputerFloat  = NewForwardFillFeaturizer[float32]()
	ForwardFillImputerDouble = NewForwardFillFeaturizer[float64]()
	ForwardFillImputerBool   = NewForwardFillFeaturizer[bool]()
	ForwardFillImputerString = NewForwardFillFeaturizer[string]()
)
