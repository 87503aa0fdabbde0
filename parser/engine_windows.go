//go:build windows

package parser

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"golang.org/x/sys/windows"
)

// NTFS_FILE_RECORD_OUTPUT_BUFFER: file reference, record length,
// record bytes.
const fileRecordOutputHeaderSize = 12

// ScanUSN enumerates the whole USN journal of a drive and returns one
// candidate per deletion event, with paths reconstructed from the
// identifier table built during the same pass.
func ScanUSN(ctx context.Context, drive string,
	options Options) ([]*DeletedCandidate, error) {

	drive, err := NormalizeDrive(drive)
	if err != nil {
		return nil, err
	}

	if options.EnumBufferSize <= 0 {
		options.EnumBufferSize = DefaultEnumBufferSize
	}
	if options.MaxDirectoryDepth <= 0 {
		options.MaxDirectoryDepth = DefaultMaxDirectoryDepth
	}

	volume, err := OpenVolume(drive)
	if err != nil {
		return nil, err
	}
	defer volume.Close()

	// MFT_ENUM_DATA_V0: StartFileReferenceNumber, LowUsn, HighUsn.
	input := make([]byte, 24)
	binary.LittleEndian.PutUint64(input[16:], math.MaxInt64)

	buffer := make([]byte, options.EnumBufferSize)
	table := NewFileTable()
	deleted := []*UsnRecord{}
	enumerated := int64(0)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		returned, err := volume.Ioctl(FSCTL_ENUM_USN_DATA, input, buffer)
		if err != nil {
			// EOF is the kernel's end of enumeration signal,
			// not a failure.
			if errors.Is(err, windows.ERROR_HANDLE_EOF) {
				break
			}
			return nil, err
		}

		if returned <= 8 {
			continue
		}

		next_ref, records := ParseEnumBuffer(buffer[:returned])
		for _, record := range records {
			table.Upsert(record)
			if record.IsDelete() {
				deleted = append(deleted, record)
			}
		}

		enumerated += int64(returned)
		if options.Progress != nil {
			options.Progress("usn", enumerated)
		}

		binary.LittleEndian.PutUint64(input[:8], next_ref)
	}

	DebugPrint("Enumerated %d bytes of USN data, %d deletions, %d table rows\n",
		enumerated, len(deleted), len(table))

	candidates := make([]*DeletedCandidate, 0, len(deleted))
	for _, record := range deleted {
		full_path := table.Resolve(drive, record.Name,
			record.ParentRef, options.MaxDirectoryDepth)

		// The journal does not carry sizes; recovery reads the
		// real size from the MFT record.
		candidates = append(candidates, &DeletedCandidate{
			Source:      SourceUSN,
			Drive:       drive,
			Name:        record.Name,
			ParentPath:  ParentPath(full_path),
			FullPath:    full_path,
			IsDirectory: record.IsDirectory,
			DeletedMs:   record.TimestampMs,
			Confidence:  ConfidenceUSN,
			FileRef:     record.FileRef,
		})
	}

	return candidates, nil
}

// Scan runs both evidence sources over a drive and merges the
// results.
func Scan(ctx context.Context, drive string,
	options Options) ([]*DeletedCandidate, error) {

	usn, err := ScanUSN(ctx, drive, options)
	if err != nil {
		return nil, err
	}

	bin, err := ScanRecycleBin(drive)
	if err != nil {
		return nil, err
	}

	return MergeCandidates(usn, bin), nil
}

// GetFileRecord fetches and parses the MFT record of a file reference
// number. Records returned by the kernel already have the update
// sequence fixups applied.
func GetFileRecord(drive string, file_ref uint64) (*FileRecordDetails, error) {
	drive, err := NormalizeDrive(drive)
	if err != nil {
		return nil, err
	}

	geometry, err := QueryGeometry(drive)
	if err != nil {
		return nil, err
	}

	volume, err := OpenVolume(drive)
	if err != nil {
		return nil, err
	}
	defer volume.Close()

	input := make([]byte, 8)
	binary.LittleEndian.PutUint64(input, file_ref)

	output := make([]byte, DefaultEnumBufferSize)
	returned, err := volume.Ioctl(FSCTL_GET_NTFS_FILE_RECORD, input, output)
	if err != nil {
		return nil, err
	}

	if returned < fileRecordOutputHeaderSize {
		return nil, ErrNotAFileRecord
	}

	record_length := int64(ParseUint32(output, 8))
	end := fileRecordOutputHeaderSize + record_length
	if end > int64(returned) {
		end = int64(returned)
	}

	details, err := ParseFileRecord(output[fileRecordOutputHeaderSize:end])
	if err != nil {
		return nil, err
	}

	details.BytesPerSector = geometry.BytesPerSector
	details.SectorsPerCluster = geometry.SectorsPerCluster
	details.ClusterSize = uint64(geometry.ClusterSize())

	return details, nil
}

// RecoverDataRuns streams a run list off the raw volume into a new
// output file. The run list, cluster size and logical size normally
// come from a GetFileRecord call on the same drive.
func RecoverDataRuns(drive string, runs []RunSegment,
	cluster_size int64, file_size int64, output_path string) error {

	if file_size <= 0 {
		return fmt.Errorf("%w: target file size %d",
			ErrInvalidArgument, file_size)
	}

	volume, err := OpenVolume(drive)
	if err != nil {
		return err
	}
	defer volume.Close()

	return RecoverRuns(volume, runs, cluster_size, file_size, output_path)
}

// RecoverFile recovers a deleted file by file reference number:
// fetches its MFT record, picks the $DATA stream and either dumps the
// resident payload or streams the run list off the volume.
func RecoverFile(drive string, file_ref uint64, output_path string) error {
	drive, err := NormalizeDrive(drive)
	if err != nil {
		return err
	}

	details, err := GetFileRecord(drive, file_ref)
	if err != nil {
		return err
	}

	attr := details.DataAttribute()
	if attr == nil {
		return ErrNoDataAttribute
	}

	if !attr.NonResident {
		return RecoverResident(attr.ResidentData,
			int64(attr.DataSize), output_path)
	}

	return RecoverDataRuns(drive, attr.Runs,
		int64(details.ClusterSize), int64(attr.DataSize), output_path)
}
