package parser

// Candidate sources. USN candidates carry a file reference number that
// can be fed back into GetFileRecord/RecoverFile; recycle bin
// candidates carry the path of the matching $R payload file.
const (
	SourceUSN        = "USN"
	SourceRecycleBin = "RecycleBin"
)

// Confidence assigned to each evidence source. The recycle bin holds
// the actual payload so a paired $I/$R is near certain; a USN deletion
// event only proves the file existed, not that its clusters survive.
const (
	ConfidenceUSN        = 25
	ConfidenceRecycleBin = 94
	ConfidenceOrphaned   = 10
)

// UsnRecord is one decoded USN_RECORD_V2.
type UsnRecord struct {
	FileRef     uint64
	ParentRef   uint64
	Usn         int64
	TimestampMs int64
	Reason      uint32
	Attributes  uint32
	Name        string
	IsDirectory bool
}

// FileEntry is one row of the identifier table built during USN
// enumeration. Keyed by file reference number; later records for the
// same reference overwrite earlier ones since they reflect the most
// recent name.
type FileEntry struct {
	ParentRef   uint64
	Name        string
	IsDirectory bool
}

// DeletedCandidate is the unit of output of a scan - one piece of
// evidence that a file was deleted, from either source.
type DeletedCandidate struct {
	Source      string
	Drive       string
	Name        string
	ParentPath  string
	FullPath    string
	IsDirectory bool
	Size        int64
	DeletedMs   int64
	Confidence  int

	// Set for USN candidates.
	FileRef uint64

	// Set for recycle bin candidates whose $R payload still
	// exists.
	RecycleDataPath string
}

// AttributeInfo describes one attribute record inside an MFT file
// record. Runs is only set for non resident attributes and
// ResidentData only for resident ones; either may be empty when the
// value is empty or its bounds are corrupt.
type AttributeInfo struct {
	Type          uint32
	TypeName      string
	Name          string
	NonResident   bool
	Flags         uint16
	DataSize      uint64
	AllocatedSize uint64
	Runs          []RunSegment
	ResidentData  []byte
}

// IsUnnamedData is true for the unnamed $DATA stream - the stream the
// recovery engine reads.
func (self *AttributeInfo) IsUnnamedData() bool {
	return self.Type == ATTR_TYPE_DATA && self.Name == ""
}

// FileRecordDetails is a fully parsed MFT file record plus the volume
// geometry it was read under.
type FileRecordDetails struct {
	InUse         bool
	IsDirectory   bool
	BaseReference uint64
	HardLinkCount uint16
	Flags         uint16
	Attributes    []*AttributeInfo

	BytesPerSector    uint32
	SectorsPerCluster uint32
	ClusterSize       uint64
}

// DataAttribute selects the attribute recovery should read: the
// unnamed $DATA stream if present, otherwise the first named one.
func (self *FileRecordDetails) DataAttribute() *AttributeInfo {
	var named *AttributeInfo
	for _, attr := range self.Attributes {
		if attr.Type != ATTR_TYPE_DATA {
			continue
		}
		if attr.Name == "" {
			return attr
		}
		if named == nil {
			named = attr
		}
	}
	return named
}
