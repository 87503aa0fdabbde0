package parser

import (
	"os"
	"path/filepath"
	"strings"
)

// The recycle bin stores each deleted file as a pair under
// $Recycle.Bin\<SID>\: a $I metadata file (original path, size,
// deletion time) and a $R payload file holding the actual bytes.

const iFileHeaderSize = 24

// $I file layout.
const (
	offIFileVersion = 0
	offIFileSize    = 8
	offIFileDeleted = 16
	offIFilePath    = 24
)

// RecycleBinRecord is one parsed $I metadata file.
type RecycleBinRecord struct {
	Version      uint8
	Size         int64
	DeletedMs    int64
	OriginalPath string
}

// ParseIFile decodes a $I metadata file: a 24 byte header followed by
// the NUL padded UTF-16LE original path. Versions other than 1 and 2
// are unknown formats and rejected.
func ParseIFile(data []byte) (*RecycleBinRecord, bool) {
	if len(data) < iFileHeaderSize {
		return nil, false
	}

	version := data[offIFileVersion]
	if version != 1 && version != 2 {
		return nil, false
	}

	return &RecycleBinRecord{
		Version:      version,
		Size:         ParseInt64(data, offIFileSize),
		DeletedMs:    FiletimeToUnixMs(ParseInt64(data, offIFileDeleted)),
		OriginalPath: ParseTerminatedUTF16String(data[offIFilePath:]),
	}, true
}

// ScanRecycleRoot walks a $Recycle.Bin directory tree: one
// subdirectory per user SID, each holding $I/$R pairs. Metadata whose
// original path points at another drive is skipped - the bin on one
// volume can hold entries recycled from another. Malformed $I files
// are logged and skipped; the scan always completes with whatever
// parsed.
func ScanRecycleRoot(root string, drive string) []*DeletedCandidate {
	result := []*DeletedCandidate{}

	prefix := drive + ":\\"

	sid_dirs, err := os.ReadDir(root)
	if err != nil {
		logger.Warnf("Cannot read recycle bin root %v: %v", root, err)
		return result
	}

	for _, sid_dir := range sid_dirs {
		if !sid_dir.IsDir() {
			continue
		}

		sid_path := filepath.Join(root, sid_dir.Name())
		files, err := os.ReadDir(sid_path)
		if err != nil {
			logger.Warnf("Cannot read %v: %v", sid_path, err)
			continue
		}

		for _, file := range files {
			if !strings.HasPrefix(file.Name(), "$I") {
				continue
			}

			meta_path := filepath.Join(sid_path, file.Name())
			data, err := os.ReadFile(meta_path)
			if err != nil {
				logger.Warnf("Cannot read %v: %v", meta_path, err)
				continue
			}

			record, ok := ParseIFile(data)
			if !ok {
				logger.Warnf("Skipping malformed metadata %v", meta_path)
				continue
			}

			if !strings.HasPrefix(
				strings.ToUpper(record.OriginalPath), prefix) {
				continue
			}

			candidate := &DeletedCandidate{
				Source:     SourceRecycleBin,
				Drive:      drive,
				Name:       baseName(record.OriginalPath),
				ParentPath: ParentPath(record.OriginalPath),
				FullPath:   record.OriginalPath,
				Size:       record.Size,
				DeletedMs:  record.DeletedMs,
			}

			// The payload file has the same name with $I
			// replaced by $R.
			data_path := filepath.Join(sid_path,
				"$R"+file.Name()[2:])
			if _, err := os.Stat(data_path); err == nil {
				candidate.Confidence = ConfidenceRecycleBin
				candidate.RecycleDataPath = data_path
			} else {
				candidate.Confidence = ConfidenceOrphaned
			}

			result = append(result, candidate)
		}
	}

	return result
}

func baseName(path string) string {
	idx := strings.LastIndex(path, "\\")
	if idx < 0 {
		return path
	}
	return path[idx+1:]
}

// ScanRecycleBin scans the recycle bin of a mounted drive.
func ScanRecycleBin(drive string) ([]*DeletedCandidate, error) {
	drive, err := NormalizeDrive(drive)
	if err != nil {
		return nil, err
	}
	return ScanRecycleRoot(drive+":\\$Recycle.Bin", drive), nil
}
