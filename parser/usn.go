package parser

import (
	"strings"
)

// Parse USN records
// https://docs.microsoft.com/en-us/windows/win32/api/winioctl/ns-winioctl-usn_record_v2

// USN reason flags.
const (
	USN_REASON_DATA_OVERWRITE  = 0x00000001
	USN_REASON_DATA_EXTEND     = 0x00000002
	USN_REASON_DATA_TRUNCATION = 0x00000004
	USN_REASON_FILE_CREATE     = 0x00000100
	USN_REASON_FILE_DELETE     = 0x00000200
	USN_REASON_RENAME_OLD_NAME = 0x00001000
	USN_REASON_RENAME_NEW_NAME = 0x00002000
	USN_REASON_CLOSE           = 0x80000000
)

const FILE_ATTRIBUTE_DIRECTORY = 0x00000010

// USN_RECORD_V2 layout.
const (
	offUsnRecordLength   = 0
	offUsnMajorVersion   = 4
	offUsnFileRef        = 8
	offUsnParentRef      = 16
	offUsnUsn            = 24
	offUsnTimestamp      = 32
	offUsnReason         = 40
	offUsnFileAttributes = 52
	offUsnNameLength     = 56
	offUsnNameOffset     = 58

	usnRecordHeaderSize = 60
)

var usnReasonNames = []struct {
	flag uint32
	name string
}{
	{USN_REASON_DATA_OVERWRITE, "DATA_OVERWRITE"},
	{USN_REASON_DATA_EXTEND, "DATA_EXTEND"},
	{USN_REASON_DATA_TRUNCATION, "DATA_TRUNCATION"},
	{USN_REASON_FILE_CREATE, "FILE_CREATE"},
	{USN_REASON_FILE_DELETE, "FILE_DELETE"},
	{USN_REASON_RENAME_OLD_NAME, "RENAME_OLD_NAME"},
	{USN_REASON_RENAME_NEW_NAME, "RENAME_NEW_NAME"},
	{USN_REASON_CLOSE, "CLOSE"},
}

// ReasonString renders a reason bitmask as flag names.
func ReasonString(reason uint32) string {
	result := []string{}
	for _, r := range usnReasonNames {
		if reason&r.flag != 0 {
			result = append(result, r.name)
		}
	}
	if len(result) == 0 {
		return "NONE"
	}
	return strings.Join(result, ", ")
}

func (self *UsnRecord) IsDelete() bool {
	return self.Reason&USN_REASON_FILE_DELETE != 0
}

// ParseUsnRecord decodes one USN_RECORD_V2 at the head of buf. The
// name length is clamped to the record so a corrupt length cannot
// read past it; an odd length loses its trailing half unit.
func ParseUsnRecord(buf []byte) *UsnRecord {
	if len(buf) < usnRecordHeaderSize {
		return nil
	}

	record_length := int64(ParseUint32(buf, offUsnRecordLength))
	if record_length < usnRecordHeaderSize ||
		record_length > int64(len(buf)) {
		return nil
	}

	name_offset := int64(ParseUint16(buf, offUsnNameOffset))
	name_length := int64(ParseUint16(buf, offUsnNameLength))
	name := ""
	if name_offset >= usnRecordHeaderSize && name_offset < record_length {
		end := name_offset + name_length
		if end > record_length {
			end = record_length
		}
		name = ParseUTF16String(buf[name_offset:end])
	}

	attributes := ParseUint32(buf, offUsnFileAttributes)

	return &UsnRecord{
		FileRef:     ParseUint64(buf, offUsnFileRef),
		ParentRef:   ParseUint64(buf, offUsnParentRef),
		Usn:         ParseInt64(buf, offUsnUsn),
		TimestampMs: FiletimeToUnixMs(ParseInt64(buf, offUsnTimestamp)),
		Reason:      ParseUint32(buf, offUsnReason),
		Attributes:  attributes,
		Name:        name,
		IsDirectory: attributes&FILE_ATTRIBUTE_DIRECTORY != 0,
	}
}

// ParseEnumBuffer decodes one FSCTL_ENUM_USN_DATA response: an 8 byte
// continuation cookie followed by packed USN_RECORD_V2s. Records are
// walked strictly by RecordLength; a zero or overlong length ends the
// walk.
func ParseEnumBuffer(buf []byte) (next_ref uint64, records []*UsnRecord) {
	if len(buf) < 8 {
		return 0, nil
	}

	next_ref = ParseUint64(buf, 0)

	offset := int64(8)
	for offset < int64(len(buf)) {
		record_length := int64(ParseUint32(buf, offset+offUsnRecordLength))
		if record_length == 0 ||
			offset+record_length > int64(len(buf)) {
			break
		}

		record := ParseUsnRecord(buf[offset : offset+record_length])
		if record == nil {
			logger.Warnf("Skipping malformed USN record at offset %d", offset)
			offset += record_length
			continue
		}

		records = append(records, record)
		offset += record_length
	}

	return next_ref, records
}

// FileTable is the identifier table built during one enumeration
// pass: file reference number to the entry last seen for it. Rows are
// only ever added or overwritten, never removed - a deleted file's
// row must survive so its children can still resolve through it.
type FileTable map[uint64]FileEntry

func NewFileTable() FileTable {
	return make(FileTable)
}

func (self FileTable) Upsert(record *UsnRecord) {
	self[record.FileRef] = FileEntry{
		ParentRef:   record.ParentRef,
		Name:        record.Name,
		IsDirectory: record.IsDirectory,
	}
}

// Resolve builds the full path of a deletion event by climbing parent
// references through the table. The walk stops at a zero parent, a
// missing entry, an entry that is its own parent, or the depth bound -
// journal data is not trusted to terminate on its own.
func (self FileTable) Resolve(drive string, name string,
	parent_ref uint64, max_depth int) string {

	segments := []string{}
	if name != "" {
		segments = append(segments, name)
	}

	current := parent_ref
	for depth := 0; current != 0 && depth < max_depth; depth++ {
		entry, pres := self[current]
		if !pres {
			break
		}

		// An entry that is its own parent is either the root
		// directory or a journal corruption loop; its name is
		// not a path segment either way.
		if current == entry.ParentRef {
			break
		}

		if entry.Name != "" {
			segments = append(segments, entry.Name)
		}
		current = entry.ParentRef
	}

	// Segments were collected leaf first.
	var builder strings.Builder
	builder.WriteString(drive)
	builder.WriteString(":\\")
	for i := len(segments) - 1; i >= 0; i-- {
		builder.WriteString(segments[i])
		if i > 0 {
			builder.WriteString("\\")
		}
	}

	return builder.String()
}

// ParentPath returns the directory part of a resolved full path.
func ParentPath(full_path string) string {
	idx := strings.LastIndex(full_path, "\\")
	if idx < 0 {
		return full_path
	}
	parent := full_path[:idx]

	// Keep the root form "X:\" rather than "X:".
	if strings.HasSuffix(parent, ":") {
		parent += "\\"
	}
	return parent
}
