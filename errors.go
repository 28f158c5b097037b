package fat12

import "errors"

// These errors describe the stage at which loading a volume or reading a file failed.
var (
	ErrOpenImage      = errors.New("could not open the disk image")
	ErrReadBootSector = errors.New("could not read the boot sector")
	ErrReadFAT        = errors.New("could not read the FAT")
	ErrReadRootDir    = errors.New("could not read the root directory")
	ErrFileNotFound   = errors.New("file not found in the root directory")
	ErrReadFile       = errors.New("could not read the file")
)

// These errors describe why a stage failed.
var (
	ErrIO              = errors.New("i/o error")
	ErrInvalidGeometry = errors.New("invalid volume geometry")
	ErrCorruptChain    = errors.New("corrupt cluster chain")
	ErrReadOnly        = errors.New("the FAT12 filesystem is read-only")
	ErrNoSubdirectory  = errors.New("subdirectories are not supported")
	ErrInvalidName     = errors.New("invalid 8.3 file name")
)
