package fat12

import (
	"fmt"
)

const (
	// maxFATBytes is the size of a FAT12 table addressing all 4096 possible entries.
	maxFATBytes = 4096 * 3 / 2

	maxSectorSize  = 4096
	maxClusterSize = 32 * 1024
)

// readBootSector reads and decodes the header at the very beginning of the image.
// Only the header is read, so any image holding at least bootSectorSize bytes is a candidate.
func readBootSector(s sectorReader) (BootSector, error) {
	buf := make([]byte, bootSectorSize)
	if err := s.readAt(0, buf); err != nil {
		return BootSector{}, err
	}

	return decodeBootSector(buf), nil
}

func isPowerOfTwo(v uint32) bool {
	return v != 0 && v&(v-1) == 0
}

// validate checks the geometry before it gets used to size any buffer.
// The checks which protect against huge allocations and divisions by zero are always done.
// Additional plausibility checks are only done if strict is set.
func (bs BootSector) validate(strict bool) error {
	if !isPowerOfTwo(uint32(bs.BytesPerSector)) || bs.BytesPerSector > maxSectorSize {
		return fmt.Errorf("%w: bytes per sector %d", ErrInvalidGeometry, bs.BytesPerSector)
	}

	if !isPowerOfTwo(uint32(bs.SectorsPerCluster)) {
		return fmt.Errorf("%w: sectors per cluster %d", ErrInvalidGeometry, bs.SectorsPerCluster)
	}

	if bs.FatCount == 0 {
		return fmt.Errorf("%w: no FAT", ErrInvalidGeometry)
	}

	if bs.DirEntryCount == 0 {
		return fmt.Errorf("%w: no root directory entries", ErrInvalidGeometry)
	}

	// The last sector of the FAT may be partially used.
	if bs.SectorsPerFat == 0 || (uint32(bs.SectorsPerFat)-1)*uint32(bs.BytesPerSector) >= maxFATBytes {
		return fmt.Errorf("%w: sectors per FAT %d", ErrInvalidGeometry, bs.SectorsPerFat)
	}

	if !strict {
		return nil
	}

	// Check for valid jump instructions.
	if !(bs.JumpBoot[0] == 0xEB && bs.JumpBoot[2] == 0x90) && bs.JumpBoot[0] != 0xE9 {
		return fmt.Errorf("%w: no valid jump instructions at the beginning", ErrInvalidGeometry)
	}

	// Many drivers only support these.
	switch bs.BytesPerSector {
	case 512, 1024, 2048, 4096:
	default:
		return fmt.Errorf("%w: unsupported sector size %d", ErrInvalidGeometry, bs.BytesPerSector)
	}

	if bs.ClusterSize() > maxClusterSize {
		return fmt.Errorf("%w: cluster size %d", ErrInvalidGeometry, bs.ClusterSize())
	}

	// At least the boot sector itself is reserved.
	if bs.ReservedSectors == 0 {
		return fmt.Errorf("%w: invalid reserved sector count", ErrInvalidGeometry)
	}

	if bs.MediaDescriptor != 0xF0 && bs.MediaDescriptor < 0xF8 {
		return fmt.Errorf("%w: invalid media value 0x%02x", ErrInvalidGeometry, bs.MediaDescriptor)
	}

	return nil
}
