package parser

// NTFS attribute type codes.
const (
	ATTR_TYPE_STANDARD_INFORMATION = 0x10
	ATTR_TYPE_ATTRIBUTE_LIST       = 0x20
	ATTR_TYPE_FILE_NAME            = 0x30
	ATTR_TYPE_OBJECT_ID            = 0x40
	ATTR_TYPE_SECURITY_DESCRIPTOR  = 0x50
	ATTR_TYPE_VOLUME_NAME          = 0x60
	ATTR_TYPE_VOLUME_INFORMATION   = 0x70
	ATTR_TYPE_DATA                 = 0x80
	ATTR_TYPE_INDEX_ROOT           = 0x90
	ATTR_TYPE_INDEX_ALLOCATION     = 0xA0
	ATTR_TYPE_BITMAP               = 0xB0
	ATTR_TYPE_REPARSE_POINT        = 0xC0
	ATTR_TYPE_EA_INFORMATION       = 0xD0
	ATTR_TYPE_EA                   = 0xE0
	ATTR_TYPE_PROPERTY_SET         = 0xF0
	ATTR_TYPE_LOGGED_UTILITY       = 0x100
	ATTR_TYPE_END                  = 0xFFFFFFFF
)

// File record header flags.
const (
	RECORD_FLAG_IN_USE    = 0x0001
	RECORD_FLAG_DIRECTORY = 0x0002
)

// FILE record magic ('FILE' little endian).
const FILE_RECORD_MAGIC = 0x454C4946

// File record header layout.
const (
	offRecordMagic          = 0
	offRecordHardLinkCount  = 18
	offRecordFirstAttribute = 20
	offRecordFlags          = 22
	offRecordBaseReference  = 32

	fileRecordHeaderSize = 48
)

// Attribute record header layout. The union at offset 16 is selected
// by the non resident flag at offset 8.
const (
	offAttrType        = 0
	offAttrLength      = 4
	offAttrNonResident = 8
	offAttrNameLength  = 9
	offAttrNameOffset  = 10
	offAttrFlags       = 12

	offAttrValueLength = 16
	offAttrValueOffset = 20

	offAttrLowestVcn     = 16
	offAttrRunOffset     = 32
	offAttrAllocatedSize = 40
	offAttrDataSize      = 48

	attributeHeaderSize = 24
)

func AttributeTypeName(attr_type uint32) string {
	switch attr_type {
	case ATTR_TYPE_STANDARD_INFORMATION:
		return "StandardInformation"
	case ATTR_TYPE_ATTRIBUTE_LIST:
		return "AttributeList"
	case ATTR_TYPE_FILE_NAME:
		return "FileName"
	case ATTR_TYPE_OBJECT_ID:
		return "ObjectId"
	case ATTR_TYPE_SECURITY_DESCRIPTOR:
		return "SecurityDescriptor"
	case ATTR_TYPE_VOLUME_NAME:
		return "VolumeName"
	case ATTR_TYPE_VOLUME_INFORMATION:
		return "VolumeInformation"
	case ATTR_TYPE_DATA:
		return "Data"
	case ATTR_TYPE_INDEX_ROOT:
		return "IndexRoot"
	case ATTR_TYPE_INDEX_ALLOCATION:
		return "IndexAllocation"
	case ATTR_TYPE_BITMAP:
		return "Bitmap"
	case ATTR_TYPE_REPARSE_POINT:
		return "ReparsePoint"
	case ATTR_TYPE_EA_INFORMATION:
		return "EAInformation"
	case ATTR_TYPE_EA:
		return "EA"
	case ATTR_TYPE_PROPERTY_SET:
		return "PropertySet"
	case ATTR_TYPE_LOGGED_UTILITY:
		return "LoggedUtilityStream"
	default:
		return "Unknown"
	}
}

// ParseFileRecord decodes one MFT file record. The buffer must come
// from FSCTL_GET_NTFS_FILE_RECORD - the kernel already applied the
// update sequence fixups, so none are applied here.
func ParseFileRecord(buf []byte) (*FileRecordDetails, error) {
	if len(buf) < fileRecordHeaderSize {
		return nil, ErrNotAFileRecord
	}

	if ParseUint32(buf, offRecordMagic) != FILE_RECORD_MAGIC {
		return nil, ErrNotAFileRecord
	}

	flags := ParseUint16(buf, offRecordFlags)
	details := &FileRecordDetails{
		InUse:         flags&RECORD_FLAG_IN_USE != 0,
		IsDirectory:   flags&RECORD_FLAG_DIRECTORY != 0,
		BaseReference: ParseUint64(buf, offRecordBaseReference),
		HardLinkCount: ParseUint16(buf, offRecordHardLinkCount),
		Flags:         flags,
		Attributes:    []*AttributeInfo{},
	}

	offset := int64(ParseUint16(buf, offRecordFirstAttribute))
	for offset+attributeHeaderSize <= int64(len(buf)) {
		attr_type := ParseUint32(buf, offset+offAttrType)
		attr_length := int64(ParseUint32(buf, offset+offAttrLength))
		if attr_type == ATTR_TYPE_END || attr_length == 0 {
			break
		}

		// A length past the end of the record, or one too small
		// to hold the header, means the stream is corrupt -
		// stop walking.
		if attr_length < attributeHeaderSize ||
			offset+attr_length > int64(len(buf)) {
			break
		}

		attr := buf[offset : offset+attr_length]
		details.Attributes = append(details.Attributes,
			parseAttribute(attr, attr_type))

		offset += attr_length
	}

	return details, nil
}

func parseAttribute(attr []byte, attr_type uint32) *AttributeInfo {
	info := &AttributeInfo{
		Type:        attr_type,
		TypeName:    AttributeTypeName(attr_type),
		NonResident: attr[offAttrNonResident] != 0,
		Flags:       ParseUint16(attr, offAttrFlags),
	}

	name_length := int64(attr[offAttrNameLength])
	if name_length > 0 {
		name_offset := int64(ParseUint16(attr, offAttrNameOffset))
		end := name_offset + name_length*2
		if end <= int64(len(attr)) {
			info.Name = ParseUTF16String(attr[name_offset:end])
		}
	}

	if info.NonResident {
		info.AllocatedSize = ParseUint64(attr, offAttrAllocatedSize)
		info.DataSize = ParseUint64(attr, offAttrDataSize)

		lowest_vcn := int64(ParseUint64(attr, offAttrLowestVcn))
		run_offset := int64(ParseUint16(attr, offAttrRunOffset))
		if run_offset > 0 && run_offset < int64(len(attr)) {
			info.Runs = DecodeRunList(attr[run_offset:], lowest_vcn)
		}
	} else {
		value_length := int64(ParseUint32(attr, offAttrValueLength))
		value_offset := int64(ParseUint16(attr, offAttrValueOffset))
		info.DataSize = uint64(value_length)
		info.AllocatedSize = uint64(value_length)

		// Silently empty on overrun - a corrupt resident value
		// does not invalidate the rest of the record.
		if value_length > 0 &&
			value_offset+value_length <= int64(len(attr)) {
			info.ResidentData = append([]byte{},
				attr[value_offset:value_offset+value_length]...)
		}
	}

	return info
}
