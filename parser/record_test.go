package parser

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Builds attribute records byte by byte so the parser is exercised
// against the exact on disk layout.
type recordBuilder struct {
	buf []byte
}

func newRecordBuilder(flags uint16) *recordBuilder {
	buf := make([]byte, fileRecordHeaderSize)
	binary.LittleEndian.PutUint32(buf[0:], FILE_RECORD_MAGIC)
	binary.LittleEndian.PutUint16(buf[18:], 1) // hard link count
	binary.LittleEndian.PutUint16(buf[20:], fileRecordHeaderSize)
	binary.LittleEndian.PutUint16(buf[22:], flags)
	return &recordBuilder{buf: buf}
}

func (self *recordBuilder) addResident(
	attr_type uint32, name string, value []byte) *recordBuilder {

	name_bytes := encodeUTF16(name)
	value_offset := 24 + len(name_bytes)
	length := pad8(value_offset + len(value))

	attr := make([]byte, length)
	binary.LittleEndian.PutUint32(attr[0:], attr_type)
	binary.LittleEndian.PutUint32(attr[4:], uint32(length))
	attr[8] = 0 // resident
	attr[9] = byte(len(name_bytes) / 2)
	binary.LittleEndian.PutUint16(attr[10:], 24)
	binary.LittleEndian.PutUint32(attr[16:], uint32(len(value)))
	binary.LittleEndian.PutUint16(attr[20:], uint16(value_offset))
	copy(attr[24:], name_bytes)
	copy(attr[value_offset:], value)

	self.buf = append(self.buf, attr...)
	return self
}

func (self *recordBuilder) addNonResident(attr_type uint32, name string,
	runlist []byte, data_size, allocated_size uint64) *recordBuilder {

	name_bytes := encodeUTF16(name)
	run_offset := 64 + len(name_bytes)
	length := pad8(run_offset + len(runlist))

	attr := make([]byte, length)
	binary.LittleEndian.PutUint32(attr[0:], attr_type)
	binary.LittleEndian.PutUint32(attr[4:], uint32(length))
	attr[8] = 1 // non resident
	attr[9] = byte(len(name_bytes) / 2)
	binary.LittleEndian.PutUint16(attr[10:], 64)
	binary.LittleEndian.PutUint16(attr[32:], uint16(run_offset))
	binary.LittleEndian.PutUint64(attr[40:], allocated_size)
	binary.LittleEndian.PutUint64(attr[48:], data_size)
	copy(attr[64:], name_bytes)
	copy(attr[run_offset:], runlist)

	self.buf = append(self.buf, attr...)
	return self
}

func (self *recordBuilder) build() []byte {
	end := make([]byte, 8)
	binary.LittleEndian.PutUint32(end, ATTR_TYPE_END)
	result := append(self.buf, end...)

	// Records are fixed size on disk.
	padded := make([]byte, 1024)
	copy(padded, result)
	return padded
}

func encodeUTF16(s string) []byte {
	result := make([]byte, 0, len(s)*2)
	for _, r := range s {
		result = append(result, byte(r), byte(r>>8))
	}
	return result
}

func pad8(n int) int {
	return (n + 7) &^ 7
}

func TestParseFileRecordResident(t *testing.T) {
	record := newRecordBuilder(RECORD_FLAG_IN_USE).
		addResident(ATTR_TYPE_STANDARD_INFORMATION, "",
			make([]byte, 48)).
		addResident(ATTR_TYPE_DATA, "", []byte("Hello")).
		build()

	details, err := ParseFileRecord(record)
	assert.NoError(t, err)

	assert.True(t, details.InUse)
	assert.False(t, details.IsDirectory)
	assert.Equal(t, uint16(1), details.HardLinkCount)
	assert.Equal(t, 2, len(details.Attributes))

	data := details.DataAttribute()
	assert.NotNil(t, data)
	assert.False(t, data.NonResident)
	assert.Equal(t, "Data", data.TypeName)
	assert.Equal(t, []byte("Hello"), data.ResidentData)
	assert.Equal(t, uint64(5), data.DataSize)
	assert.Equal(t, uint64(5), data.AllocatedSize)
}

func TestParseFileRecordNonResident(t *testing.T) {
	runlist := []byte{0x21, 0x18, 0x34, 0x56, 0x00}

	record := newRecordBuilder(RECORD_FLAG_IN_USE).
		addNonResident(ATTR_TYPE_DATA, "", runlist,
			98300, 98304).
		build()

	details, err := ParseFileRecord(record)
	assert.NoError(t, err)

	data := details.DataAttribute()
	assert.NotNil(t, data)
	assert.True(t, data.NonResident)
	assert.Equal(t, uint64(98300), data.DataSize)
	assert.Equal(t, uint64(98304), data.AllocatedSize)
	assert.Equal(t, []RunSegment{
		{VCN: 0, LCN: 0x5634, Length: 0x18},
	}, data.Runs)
	assert.Nil(t, data.ResidentData)
}

func TestParseFileRecordNamedStreams(t *testing.T) {
	// The unnamed $DATA stream wins over an alternate stream even
	// when the alternate comes first.
	record := newRecordBuilder(RECORD_FLAG_IN_USE).
		addResident(ATTR_TYPE_DATA, "Zone.Identifier",
			[]byte("[ZoneTransfer]")).
		addResident(ATTR_TYPE_DATA, "", []byte("payload")).
		build()

	details, err := ParseFileRecord(record)
	assert.NoError(t, err)

	assert.Equal(t, "Zone.Identifier", details.Attributes[0].Name)
	assert.False(t, details.Attributes[0].IsUnnamedData())

	data := details.DataAttribute()
	assert.Equal(t, []byte("payload"), data.ResidentData)
	assert.True(t, data.IsUnnamedData())
}

func TestParseFileRecordNamedFallback(t *testing.T) {
	// With no unnamed stream the first named one is selected.
	record := newRecordBuilder(RECORD_FLAG_IN_USE).
		addResident(ATTR_TYPE_DATA, "ads", []byte("alternate")).
		build()

	details, err := ParseFileRecord(record)
	assert.NoError(t, err)

	data := details.DataAttribute()
	assert.NotNil(t, data)
	assert.Equal(t, "ads", data.Name)
}

func TestParseFileRecordInvalid(t *testing.T) {
	_, err := ParseFileRecord([]byte("BAAD"))
	assert.Equal(t, ErrNotAFileRecord, err)

	record := newRecordBuilder(0).build()
	record[0] = 'X'
	_, err = ParseFileRecord(record)
	assert.Equal(t, ErrNotAFileRecord, err)

	_, err = ParseFileRecord(nil)
	assert.Equal(t, ErrNotAFileRecord, err)
}

func TestParseFileRecordDirectory(t *testing.T) {
	record := newRecordBuilder(
		RECORD_FLAG_IN_USE | RECORD_FLAG_DIRECTORY).build()

	details, err := ParseFileRecord(record)
	assert.NoError(t, err)
	assert.True(t, details.IsDirectory)
	assert.Nil(t, details.DataAttribute())
}

func TestParseFileRecordTruncatedAttribute(t *testing.T) {
	// An attribute whose length runs past the record ends the
	// walk but keeps what parsed before it.
	builder := newRecordBuilder(RECORD_FLAG_IN_USE).
		addResident(ATTR_TYPE_DATA, "", []byte("Hello"))

	attr := make([]byte, 24)
	binary.LittleEndian.PutUint32(attr[0:], ATTR_TYPE_FILE_NAME)
	binary.LittleEndian.PutUint32(attr[4:], 4096)
	builder.buf = append(builder.buf, attr...)

	record := make([]byte, 1024)
	copy(record, builder.buf)

	details, err := ParseFileRecord(record)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(details.Attributes))
}
