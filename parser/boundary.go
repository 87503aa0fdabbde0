package parser

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/Velocidex/ordereddict"
)

// Values crossing the serialization boundary follow two rules: all 64
// bit integers travel as decimal strings (scripting hosts truncate
// past 53 bits) and resident payloads travel as standard base64.

// NormalizeDrive canonicalizes a drive spec ("c", "C:", "c:\\") to a
// single upper case letter.
func NormalizeDrive(drive string) (string, error) {
	drive = strings.TrimSpace(drive)
	drive = strings.TrimRight(drive, ":\\/")
	if len(drive) != 1 {
		return "", fmt.Errorf("%w: drive letter %q",
			ErrInvalidArgument, drive)
	}

	letter := drive[0]
	if letter >= 'a' && letter <= 'z' {
		letter -= 'a' - 'A'
	}
	if letter < 'A' || letter > 'Z' {
		return "", fmt.Errorf("%w: drive letter %q",
			ErrInvalidArgument, drive)
	}

	return string(letter), nil
}

func ParseU64String(value string) (uint64, error) {
	result, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a 64 bit decimal",
			ErrInvalidArgument, value)
	}
	return result, nil
}

func FormatU64(value uint64) string {
	return strconv.FormatUint(value, 10)
}

func (self RunSegment) Describe() *ordereddict.Dict {
	return ordereddict.NewDict().
		Set("vcn", strconv.FormatInt(self.VCN, 10)).
		Set("lcn", strconv.FormatInt(self.LCN, 10)).
		Set("length", strconv.FormatInt(self.Length, 10)).
		Set("sparse", self.Sparse)
}

func (self *AttributeInfo) Describe() *ordereddict.Dict {
	result := ordereddict.NewDict().
		Set("type", self.Type).
		Set("typeName", self.TypeName).
		Set("nonResident", self.NonResident)

	if self.Name != "" {
		result.Set("name", self.Name)
	}

	result.Set("dataSize", FormatU64(self.DataSize)).
		Set("allocatedSize", FormatU64(self.AllocatedSize))

	if len(self.Runs) > 0 {
		runs := make([]*ordereddict.Dict, 0, len(self.Runs))
		for _, run := range self.Runs {
			runs = append(runs, run.Describe())
		}
		result.Set("runs", runs)

	} else if len(self.ResidentData) > 0 {
		result.Set("residentDataBase64",
			base64.StdEncoding.EncodeToString(self.ResidentData))
	}

	return result
}

func (self *FileRecordDetails) Describe() *ordereddict.Dict {
	attributes := make([]*ordereddict.Dict, 0, len(self.Attributes))
	for _, attr := range self.Attributes {
		attributes = append(attributes, attr.Describe())
	}

	return ordereddict.NewDict().
		Set("inUse", self.InUse).
		Set("isDirectory", self.IsDirectory).
		Set("baseReference", FormatU64(self.BaseReference)).
		Set("hardLinkCount", self.HardLinkCount).
		Set("flags", self.Flags).
		Set("bytesPerSector", self.BytesPerSector).
		Set("sectorsPerCluster", self.SectorsPerCluster).
		Set("clusterSize", FormatU64(self.ClusterSize)).
		Set("attributes", attributes)
}

func (self *DeletedCandidate) Describe() *ordereddict.Dict {
	result := ordereddict.NewDict().
		Set("source", self.Source).
		Set("drive", self.Drive).
		Set("name", self.Name).
		Set("parentPath", self.ParentPath).
		Set("path", self.FullPath).
		Set("isDirectory", self.IsDirectory).
		Set("size", strconv.FormatInt(self.Size, 10)).
		Set("deletedTimeMs", strconv.FormatInt(self.DeletedMs, 10)).
		Set("confidence", self.Confidence)

	switch self.Source {
	case SourceUSN:
		result.Set("fileReferenceNumber", FormatU64(self.FileRef))
	case SourceRecycleBin:
		if self.RecycleDataPath != "" {
			result.Set("recycleDataPath", self.RecycleDataPath)
		}
	}

	return result
}
