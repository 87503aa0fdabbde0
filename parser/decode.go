package parser

import (
	"encoding/binary"
	"unicode/utf16"
)

// Windows FILETIME counts 100ns ticks since 1601-01-01 UTC.
const (
	WindowsEpochOffsetMs = 11644473600000
	TicksPerMillisecond  = 10000
)

func ParseUint16(buf []byte, offset int64) uint16 {
	if offset < 0 || offset+2 > int64(len(buf)) {
		return 0
	}
	return binary.LittleEndian.Uint16(buf[offset:])
}

func ParseUint32(buf []byte, offset int64) uint32 {
	if offset < 0 || offset+4 > int64(len(buf)) {
		return 0
	}
	return binary.LittleEndian.Uint32(buf[offset:])
}

func ParseUint64(buf []byte, offset int64) uint64 {
	if offset < 0 || offset+8 > int64(len(buf)) {
		return 0
	}
	return binary.LittleEndian.Uint64(buf[offset:])
}

func ParseInt64(buf []byte, offset int64) int64 {
	return int64(ParseUint64(buf, offset))
}

// ParseSignedValue reads size bytes little endian and sign extends
// from the top bit of the last byte. Run list offsets are stored this
// way (1-8 bytes).
func ParseSignedValue(buf []byte, size int) int64 {
	if size <= 0 || size > 8 || size > len(buf) {
		return 0
	}

	value := int64(0)
	for i := 0; i < size; i++ {
		value |= int64(buf[i]) << (8 * i)
	}

	if size < 8 && buf[size-1]&0x80 != 0 {
		value |= -1 << (size * 8)
	}

	return value
}

// ParseUTF16String decodes UTF-16LE bytes. An odd trailing byte is
// truncated - USN records occasionally report name lengths past the
// record end.
func ParseUTF16String(buf []byte) string {
	units := make([]uint16, len(buf)/2)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(buf[i*2:])
	}
	return string(utf16.Decode(units))
}

// ParseTerminatedUTF16String decodes up to the first NUL code unit.
func ParseTerminatedUTF16String(buf []byte) string {
	for i := 0; i+1 < len(buf); i += 2 {
		if buf[i] == 0 && buf[i+1] == 0 {
			return ParseUTF16String(buf[:i])
		}
	}
	return ParseUTF16String(buf)
}

func FiletimeToUnixMs(filetime int64) int64 {
	return filetime/TicksPerMillisecond - WindowsEpochOffsetMs
}

func UnixMsToFiletime(ms int64) int64 {
	return (ms + WindowsEpochOffsetMs) * TicksPerMillisecond
}
