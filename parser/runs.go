package parser

import "fmt"

// RunSegment is one extent of a non-resident attribute: Length
// clusters of the file starting at virtual cluster VCN, stored at
// logical cluster LCN on the volume. A sparse segment occupies no
// clusters on disk and reads back as zeros; its LCN is meaningless.
type RunSegment struct {
	VCN    int64
	LCN    int64
	Length int64
	Sparse bool
}

func (self RunSegment) String() string {
	if self.Sparse {
		return fmt.Sprintf("vcn %d sparse length %d", self.VCN, self.Length)
	}
	return fmt.Sprintf("vcn %d lcn %d length %d", self.VCN, self.LCN, self.Length)
}

// DecodeRunList parses the NTFS run list encoding starting at the
// head of buf. Each run starts with a header byte: the low nibble is
// the byte width of the length field, the high nibble the byte width
// of the signed LCN delta (0 means the run is sparse). Parsing stops
// at a zero header, at the end of the buffer, or at a malformed run,
// returning whatever decoded cleanly before that point.
func DecodeRunList(buf []byte, startVCN int64) []RunSegment {
	result := []RunSegment{}

	vcn := startVCN
	lcn := int64(0)

	for offset := 0; offset < len(buf); {
		header := buf[offset]
		if header == 0 {
			break
		}
		offset++

		length_size := int(header & 0x0F)
		offset_size := int(header >> 4)

		if length_size == 0 || length_size > 8 || offset_size > 8 ||
			offset+length_size+offset_size > len(buf) {
			break
		}

		length := int64(0)
		for i := 0; i < length_size; i++ {
			length |= int64(buf[offset+i]) << (8 * i)
		}
		offset += length_size

		if length <= 0 {
			break
		}

		sparse := offset_size == 0
		lcn += ParseSignedValue(buf[offset:], offset_size)
		offset += offset_size

		result = append(result, RunSegment{
			VCN:    vcn,
			LCN:    lcn,
			Length: length,
			Sparse: sparse,
		})
		vcn += length
	}

	return result
}

// EncodeRunList is the inverse of DecodeRunList, used to carry run
// lists across the serialization boundary without loss. Segments are
// re-encoded with minimal field widths; the output always carries the
// terminating zero header.
func EncodeRunList(runs []RunSegment) []byte {
	result := []byte{}

	lcn := int64(0)
	for _, run := range runs {
		if run.Length <= 0 {
			continue
		}

		length_size := unsignedWidth(uint64(run.Length))

		offset_size := 0
		delta := int64(0)
		if !run.Sparse {
			delta = run.LCN - lcn
			offset_size = signedWidth(delta)
			lcn = run.LCN
		}

		result = append(result, byte(offset_size<<4|length_size))
		for i := 0; i < length_size; i++ {
			result = append(result, byte(run.Length>>(8*i)))
		}
		for i := 0; i < offset_size; i++ {
			result = append(result, byte(delta>>(8*i)))
		}
	}

	return append(result, 0)
}

// Number of bytes needed to store v little endian unsigned.
func unsignedWidth(v uint64) int {
	width := 1
	for v > 0xFF {
		v >>= 8
		width++
	}
	return width
}

// Number of bytes needed so that sign extension recovers v exactly.
func signedWidth(v int64) int {
	for width := 1; width < 8; width++ {
		shift := uint(64 - width*8)
		if v<<shift>>shift == v {
			return width
		}
	}
	return 8
}

// TotalClusters sums the lengths of all runs.
func TotalClusters(runs []RunSegment) int64 {
	total := int64(0)
	for _, run := range runs {
		total += run.Length
	}
	return total
}
