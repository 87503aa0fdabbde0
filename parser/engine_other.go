//go:build !windows

package parser

import (
	"context"
	"fmt"
)

// The engine drives NTFS specific volume controls; on other platforms
// every live volume operation reports the volume as unavailable. The
// pure parsers (run lists, file records, USN buffers, $I metadata)
// work everywhere.

func errNotWindows() error {
	return fmt.Errorf("%w: raw NTFS volume access requires Windows",
		ErrVolumeUnavailable)
}

func ScanUSN(ctx context.Context, drive string,
	options Options) ([]*DeletedCandidate, error) {
	return nil, errNotWindows()
}

func Scan(ctx context.Context, drive string,
	options Options) ([]*DeletedCandidate, error) {
	return nil, errNotWindows()
}

func GetFileRecord(drive string, file_ref uint64) (*FileRecordDetails, error) {
	return nil, errNotWindows()
}

func RecoverDataRuns(drive string, runs []RunSegment,
	cluster_size int64, file_size int64, output_path string) error {
	return errNotWindows()
}

func RecoverFile(drive string, file_ref uint64, output_path string) error {
	return errNotWindows()
}
