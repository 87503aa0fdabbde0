package parser

// Hard bound on the parent chain walk during path resolution. Corrupt
// journal data can produce loops the self-parent check alone does not
// catch.
const DefaultMaxDirectoryDepth = 1024

// Size of the buffer handed to FSCTL_ENUM_USN_DATA on each
// iteration.
const DefaultEnumBufferSize = 1024 * 1024

// ProgressFunc receives the number of journal bytes enumerated so
// far. The journal does not announce its total size up front, so
// progress is reported as raw byte counts rather than a percentage.
type ProgressFunc func(phase string, bytes int64)

type Options struct {
	// Maximum directory depth to walk when resolving paths.
	MaxDirectoryDepth int

	// Size of the USN enumeration buffer.
	EnumBufferSize int

	// Optional progress callback.
	Progress ProgressFunc
}

func GetDefaultOptions() Options {
	return Options{
		MaxDirectoryDepth: DefaultMaxDirectoryDepth,
		EnumBufferSize:    DefaultEnumBufferSize,
	}
}
