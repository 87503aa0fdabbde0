//go:build windows

package parser

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Volume device control codes.
const (
	FSCTL_ENUM_USN_DATA        = 0x000900b3
	FSCTL_GET_NTFS_FILE_RECORD = 0x00090068
)

var (
	modkernel32           = windows.NewLazySystemDLL("kernel32.dll")
	procGetDiskFreeSpaceW = modkernel32.NewProc("GetDiskFreeSpaceW")
)

// Geometry is the per drive allocation geometry from the free space
// query.
type Geometry struct {
	BytesPerSector    uint32
	SectorsPerCluster uint32
}

func (self Geometry) ClusterSize() int64 {
	return int64(self.BytesPerSector) * int64(self.SectorsPerCluster)
}

// Volume is a read only handle on a raw volume device ("\\.\C:").
// Full sharing is requested so the live filesystem is undisturbed.
type Volume struct {
	Drive  string
	handle windows.Handle
}

// OpenVolume opens the raw device of a mounted drive. Failure is
// almost always a privilege problem - raw volume handles need
// administrator rights.
func OpenVolume(drive string) (*Volume, error) {
	drive, err := NormalizeDrive(drive)
	if err != nil {
		return nil, err
	}

	path, err := windows.UTF16PtrFromString(`\\.\` + drive + ":")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	handle, err := windows.CreateFile(
		path,
		windows.GENERIC_READ,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE|
			windows.FILE_SHARE_DELETE,
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_FLAG_BACKUP_SEMANTICS,
		0)
	if err != nil {
		return nil, fmt.Errorf("%w: \\\\.\\%v: %v",
			ErrVolumeUnavailable, drive+":", err)
	}

	return &Volume{Drive: drive, handle: handle}, nil
}

// ReadAt seeks the device to an absolute byte offset and reads. The
// device only accepts sector aligned reads; callers read whole
// clusters.
func (self *Volume) ReadAt(buf []byte, offset int64) (int, error) {
	_, err := windows.Seek(self.handle, offset, 0)
	if err != nil {
		return 0, fmt.Errorf("seek volume: %w", err)
	}

	var done uint32
	err = windows.ReadFile(self.handle, buf, &done, nil)
	if err != nil {
		return int(done), fmt.Errorf("read volume: %w", err)
	}
	return int(done), nil
}

// Ioctl issues a device control with separate input and output
// buffers and returns the output length.
func (self *Volume) Ioctl(code uint32, in []byte, out []byte) (uint32, error) {
	var in_ptr, out_ptr *byte
	if len(in) > 0 {
		in_ptr = &in[0]
	}
	if len(out) > 0 {
		out_ptr = &out[0]
	}

	var returned uint32
	err := windows.DeviceIoControl(
		self.handle, code,
		in_ptr, uint32(len(in)),
		out_ptr, uint32(len(out)),
		&returned, nil)
	if err != nil {
		return returned, &IoctlError{Code: code, Err: err}
	}
	return returned, nil
}

func (self *Volume) Close() error {
	return windows.CloseHandle(self.handle)
}

// QueryGeometry reads the drive geometry from the free space query of
// the mounted root path.
func QueryGeometry(drive string) (*Geometry, error) {
	drive, err := NormalizeDrive(drive)
	if err != nil {
		return nil, err
	}

	root, err := windows.UTF16PtrFromString(drive + `:\`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	var sectors_per_cluster, bytes_per_sector uint32
	var free_clusters, total_clusters uint32

	ret, _, call_err := procGetDiskFreeSpaceW.Call(
		uintptr(unsafe.Pointer(root)),
		uintptr(unsafe.Pointer(&sectors_per_cluster)),
		uintptr(unsafe.Pointer(&bytes_per_sector)),
		uintptr(unsafe.Pointer(&free_clusters)),
		uintptr(unsafe.Pointer(&total_clusters)))
	if ret == 0 {
		return nil, fmt.Errorf("%w: GetDiskFreeSpace %v: %v",
			ErrVolumeUnavailable, drive+":", call_err)
	}

	return &Geometry{
		BytesPerSector:    bytes_per_sector,
		SectorsPerCluster: sectors_per_cluster,
	}, nil
}
