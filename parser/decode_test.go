package parser

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseUTF16String(t *testing.T) {
	// "a.txt" little endian UTF-16.
	buf := []byte{0x61, 0x00, 0x2E, 0x00, 0x74, 0x00, 0x78, 0x00,
		0x74, 0x00}
	assert.Equal(t, "a.txt", ParseUTF16String(buf))

	// An odd trailing byte is dropped, not decoded.
	assert.Equal(t, "a.txt", ParseUTF16String(append(buf, 0x74)))

	assert.Equal(t, "", ParseUTF16String(nil))
	assert.Equal(t, "", ParseUTF16String([]byte{0x61}))
}

func TestParseTerminatedUTF16String(t *testing.T) {
	buf := []byte{0x61, 0x00, 0x62, 0x00, 0x00, 0x00, 0x7A, 0x00}
	assert.Equal(t, "ab", ParseTerminatedUTF16String(buf))

	// No terminator - the whole buffer is the string.
	assert.Equal(t, "ab",
		ParseTerminatedUTF16String([]byte{0x61, 0x00, 0x62, 0x00}))
}

func TestFiletimeConversion(t *testing.T) {
	// 1970-01-01 in FILETIME ticks.
	assert.Equal(t, int64(0),
		FiletimeToUnixMs(WindowsEpochOffsetMs*TicksPerMillisecond))

	assert.Equal(t, int64(1253569221000),
		FiletimeToUnixMs(128980428210000000))

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		ms := rng.Int63n(1<<41+1) - 1<<40
		assert.Equal(t, ms, FiletimeToUnixMs(UnixMsToFiletime(ms)))
	}
}

func TestParseSignedValue(t *testing.T) {
	assert.Equal(t, int64(0x34), ParseSignedValue([]byte{0x34}, 1))
	assert.Equal(t, int64(-16), ParseSignedValue([]byte{0xF0}, 1))
	assert.Equal(t, int64(0x5634), ParseSignedValue([]byte{0x34, 0x56}, 2))
	assert.Equal(t, int64(-1), ParseSignedValue([]byte{0xFF, 0xFF, 0xFF}, 3))
	assert.Equal(t, int64(0), ParseSignedValue([]byte{0x34}, 0))
	assert.Equal(t, int64(0), ParseSignedValue([]byte{0x34}, 2))

	assert.Equal(t, int64(-1), ParseSignedValue([]byte{
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, 8))
}

func TestParseIntegers(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}

	assert.Equal(t, uint16(0x0201), ParseUint16(buf, 0))
	assert.Equal(t, uint32(0x04030201), ParseUint32(buf, 0))
	assert.Equal(t, uint64(0x0807060504030201), ParseUint64(buf, 0))

	// Out of bounds reads yield zero rather than panicking.
	assert.Equal(t, uint16(0), ParseUint16(buf, 7))
	assert.Equal(t, uint32(0), ParseUint32(buf, 5))
	assert.Equal(t, uint64(0), ParseUint64(buf, 1))
	assert.Equal(t, uint64(0), ParseUint64(buf, -1))
}
