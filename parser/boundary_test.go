package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDrive(t *testing.T) {
	for _, input := range []string{"c", "C", "c:", "C:", "c:\\", " C "} {
		drive, err := NormalizeDrive(input)
		assert.NoError(t, err, "input %q", input)
		assert.Equal(t, "C", drive)
	}

	for _, input := range []string{"", ":", "CD", "1", "\\\\.\\C:"} {
		_, err := NormalizeDrive(input)
		assert.ErrorIs(t, err, ErrInvalidArgument, "input %q", input)
	}
}

func TestParseU64String(t *testing.T) {
	// Past the 53 bit float limit that forces strings at the
	// boundary in the first place.
	value, err := ParseU64String("9007199254740993")
	assert.NoError(t, err)
	assert.Equal(t, uint64(9007199254740993), value)

	value, err = ParseU64String("18446744073709551615")
	assert.NoError(t, err)
	assert.Equal(t, uint64(18446744073709551615), value)

	for _, input := range []string{"", "-1", "abc", "1.5",
		"18446744073709551616"} {
		_, err := ParseU64String(input)
		assert.ErrorIs(t, err, ErrInvalidArgument, "input %q", input)
	}

	assert.Equal(t, "18446744073709551615",
		FormatU64(18446744073709551615))
}

func TestDescribeCandidate(t *testing.T) {
	usn := &DeletedCandidate{
		Source:     SourceUSN,
		Drive:      "C",
		Name:       "a.txt",
		FullPath:   "C:\\Docs\\a.txt",
		Confidence: ConfidenceUSN,
		FileRef:    562949953421317,
	}

	dict := usn.Describe()
	ref, pres := dict.Get("fileReferenceNumber")
	assert.True(t, pres)
	assert.Equal(t, "562949953421317", ref)

	_, pres = dict.Get("recycleDataPath")
	assert.False(t, pres)

	bin := &DeletedCandidate{
		Source:          SourceRecycleBin,
		RecycleDataPath: "C:\\$Recycle.Bin\\S-1\\$R1.txt",
	}

	dict = bin.Describe()
	path, pres := dict.Get("recycleDataPath")
	assert.True(t, pres)
	assert.Equal(t, "C:\\$Recycle.Bin\\S-1\\$R1.txt", path)
}

func TestDescribeAttribute(t *testing.T) {
	resident := &AttributeInfo{
		Type:          ATTR_TYPE_DATA,
		TypeName:      "Data",
		DataSize:      5,
		AllocatedSize: 5,
		ResidentData:  []byte("Hello"),
	}

	dict := resident.Describe()
	encoded, pres := dict.Get("residentDataBase64")
	assert.True(t, pres)
	assert.Equal(t, "SGVsbG8=", encoded)

	_, pres = dict.Get("runs")
	assert.False(t, pres)

	_, pres = dict.Get("name")
	assert.False(t, pres)

	non_resident := &AttributeInfo{
		Type:        ATTR_TYPE_DATA,
		TypeName:    "Data",
		NonResident: true,
		Runs:        []RunSegment{{LCN: 100, Length: 2}},
	}

	dict = non_resident.Describe()
	_, pres = dict.Get("runs")
	assert.True(t, pres)

	size, _ := dict.Get("dataSize")
	assert.Equal(t, "0", size)
}

func TestDescribeFileRecord(t *testing.T) {
	details := &FileRecordDetails{
		InUse:             true,
		BaseReference:     0,
		HardLinkCount:     1,
		BytesPerSector:    512,
		SectorsPerCluster: 8,
		ClusterSize:       4096,
		Attributes: []*AttributeInfo{
			{Type: ATTR_TYPE_DATA, TypeName: "Data"},
		},
	}

	dict := details.Describe()
	cluster_size, pres := dict.Get("clusterSize")
	assert.True(t, pres)
	assert.Equal(t, "4096", cluster_size)

	in_use, _ := dict.Get("inUse")
	assert.Equal(t, true, in_use)
}
