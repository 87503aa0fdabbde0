package parser

import (
	"fmt"
	"io"
	"os"
)

// Raw reads are issued in chunks of this many clusters.
const recoveryChunkClusters = 16

// CopyRuns streams the content described by a run list from a raw
// volume reader into w. Exactly file_size bytes are produced: sparse
// runs and runs with a non positive LCN contribute zeros, and if the
// runs cover less than file_size (initialized size below data size)
// the tail is zero padded. A read returning no data mid run is fatal.
func CopyRuns(reader io.ReaderAt, runs []RunSegment,
	cluster_size int64, file_size int64, w io.Writer) error {

	if cluster_size <= 0 {
		return fmt.Errorf("%w: cluster size %d", ErrInvalidArgument,
			cluster_size)
	}
	if file_size < 0 {
		return fmt.Errorf("%w: file size %d", ErrInvalidArgument,
			file_size)
	}

	buffer := make([]byte, cluster_size*recoveryChunkClusters)
	zeros := make([]byte, len(buffer))

	remaining := file_size
	for _, run := range runs {
		if remaining == 0 {
			break
		}
		if run.Length <= 0 {
			continue
		}

		to_copy := run.Length * cluster_size
		if to_copy > remaining {
			to_copy = remaining
		}

		if run.Sparse || run.LCN <= 0 {
			err := writeZeros(w, zeros, to_copy)
			if err != nil {
				return err
			}

		} else {
			offset := run.LCN * cluster_size

			processed := int64(0)
			for processed < to_copy {
				chunk := to_copy - processed
				if chunk > int64(len(buffer)) {
					chunk = int64(len(buffer))
				}

				// The device only takes whole cluster reads; bytes
				// past the logical end are read and dropped.
				read_size := (chunk + cluster_size - 1) /
					cluster_size * cluster_size

				n, err := reader.ReadAt(
					buffer[:read_size], offset+processed)
				if n == 0 {
					if err == nil || err == io.EOF {
						return ErrUnexpectedVolumeEnd
					}
					return fmt.Errorf("volume read: %w", err)
				}
				if int64(n) > chunk {
					n = int(chunk)
				}

				_, err = w.Write(buffer[:n])
				if err != nil {
					return fmt.Errorf("write output: %w", err)
				}

				processed += int64(n)
			}
		}

		remaining -= to_copy
	}

	return writeZeros(w, zeros, remaining)
}

func writeZeros(w io.Writer, zeros []byte, count int64) error {
	for count > 0 {
		chunk := count
		if chunk > int64(len(zeros)) {
			chunk = int64(len(zeros))
		}
		_, err := w.Write(zeros[:chunk])
		if err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		count -= chunk
	}
	return nil
}

// RecoverRuns is CopyRuns writing to a freshly created output file,
// overwriting any previous file at that path.
func RecoverRuns(reader io.ReaderAt, runs []RunSegment,
	cluster_size int64, file_size int64, output_path string) error {

	if output_path == "" {
		return fmt.Errorf("%w: output path is required",
			ErrInvalidArgument)
	}

	out, err := os.Create(output_path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	err = CopyRuns(reader, runs, cluster_size, file_size, out)
	close_err := out.Close()
	if err != nil {
		return err
	}
	if close_err != nil {
		return fmt.Errorf("write output: %w", close_err)
	}
	return nil
}

// RecoverResident writes the resident payload of an attribute,
// truncated to data_size, to output_path.
func RecoverResident(data []byte, data_size int64,
	output_path string) error {

	if output_path == "" {
		return fmt.Errorf("%w: output path is required",
			ErrInvalidArgument)
	}

	if data_size >= 0 && data_size < int64(len(data)) {
		data = data[:data_size]
	}

	err := os.WriteFile(output_path, data, 0644)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// RecoverRecycleFile copies a recycle bin $R payload to output_path,
// truncated to the logical size recorded in the matching $I header
// when the payload grew past it.
func RecoverRecycleFile(data_path string, size int64,
	output_path string) error {

	if output_path == "" {
		return fmt.Errorf("%w: output path is required",
			ErrInvalidArgument)
	}

	src, err := os.Open(data_path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrSourceMissing
		}
		return fmt.Errorf("open %v: %w", data_path, err)
	}
	defer src.Close()

	out, err := os.Create(output_path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	var reader io.Reader = src
	if info, err := src.Stat(); err == nil && size > 0 &&
		info.Size() > size {
		reader = io.LimitReader(src, size)
	}

	_, err = io.Copy(out, reader)
	close_err := out.Close()
	if err != nil {
		return fmt.Errorf("copy payload: %w", err)
	}
	if close_err != nil {
		return fmt.Errorf("write output: %w", close_err)
	}
	return nil
}
