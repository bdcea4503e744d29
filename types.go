package triton

// DataType identifies the element type of a tensor. The values mirror the
// host server's datatype enumeration and are consumed as a versioned
// contract.
type DataType uint32

const (
	DataTypeInvalid DataType = iota
	DataTypeBool
	DataTypeUint8
	DataTypeUint16
	DataTypeUint32
	DataTypeUint64
	DataTypeInt8
	DataTypeInt16
	DataTypeInt32
	DataTypeInt64
	DataTypeFP16
	DataTypeFP32
	DataTypeFP64
	DataTypeBytes
	DataTypeBF16
)

var dataTypeNames = map[DataType]string{
	DataTypeInvalid: "INVALID",
	DataTypeBool:    "BOOL",
	DataTypeUint8:   "UINT8",
	DataTypeUint16:  "UINT16",
	DataTypeUint32:  "UINT32",
	DataTypeUint64:  "UINT64",
	DataTypeInt8:    "INT8",
	DataTypeInt16:   "INT16",
	DataTypeInt32:   "INT32",
	DataTypeInt64:   "INT64",
	DataTypeFP16:    "FP16",
	DataTypeFP32:    "FP32",
	DataTypeFP64:    "FP64",
	DataTypeBytes:   "BYTES",
	DataTypeBF16:    "BF16",
}

func (d DataType) String() string {
	if name, ok := dataTypeNames[d]; ok {
		return name
	}
	return "INVALID"
}

// MemoryType tags where a buffer region resides. Only host-accessible kinds
// (CPU and pinned CPU) are supported by this layer; device memory is an
// explicit hard error, never a silent misread.
type MemoryType uint32

const (
	MemoryCPU MemoryType = iota
	MemoryCPUPinned
	MemoryGPU
)

func (m MemoryType) String() string {
	switch m {
	case MemoryCPU:
		return "CPU"
	case MemoryCPUPinned:
		return "CPU_PINNED"
	case MemoryGPU:
		return "GPU"
	default:
		return "UNKNOWN"
	}
}

func (m MemoryType) hostAccessible() bool {
	return m == MemoryCPU || m == MemoryCPUPinned
}
