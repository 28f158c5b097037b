package fat12

import (
	"fmt"
	"strings"
)

// rootDirectory is the fixed size directory region following the FAT copies.
type rootDirectory struct {
	entries []DirEntry

	// end is the first logical block address after the root directory.
	// Cluster 2 starts there.
	end uint32
}

// rootDirSectors returns how many sectors are needed for entryCount directory records.
func rootDirSectors(entryCount uint16, bytesPerSector uint16) uint32 {
	size := uint32(entryCount) * dirEntrySize
	sectors := size / uint32(bytesPerSector)
	if size%uint32(bytesPerSector) > 0 {
		sectors++
	}
	return sectors
}

// loadRootDirectory reads all DirEntryCount slots of the root directory.
// It assumes that all FAT copies have the same size.
func loadRootDirectory(s sectorReader, bs BootSector) (rootDirectory, error) {
	lba := uint32(bs.ReservedSectors) + uint32(bs.SectorsPerFat)*uint32(bs.FatCount)
	sectors := rootDirSectors(bs.DirEntryCount, bs.BytesPerSector)

	buf := make([]byte, sectors*uint32(bs.BytesPerSector))
	if err := s.readSectors(lba, sectors, buf); err != nil {
		return rootDirectory{}, err
	}

	entries := make([]DirEntry, bs.DirEntryCount)
	for i := range entries {
		entries[i] = decodeDirEntry(buf[i*dirEntrySize:])
	}

	return rootDirectory{
		entries: entries,
		end:     lba + sectors,
	}, nil
}

// lookup returns the first slot whose name equals name byte by byte.
// Unused slots are not skipped, they just do not match a real name.
func (r rootDirectory) lookup(name [11]byte) (DirEntry, bool) {
	for _, e := range r.entries {
		if e.Name == name {
			return e, true
		}
	}
	return DirEntry{}, false
}

// visible returns all entries which are files or subdirectories.
// The first never used slot ends the directory.
func (r rootDirectory) visible() []DirEntry {
	var result []DirEntry
	for _, e := range r.entries {
		if e.Name[0] == entryFree {
			break
		}
		if e.inUse() {
			result = append(result, e)
		}
	}
	return result
}

const invalidShortNameChars = "\"*+,/:;<=>?[\\]|."

// ShortName converts a name like "readme.txt" into the padded 8.3 form "README  TXT"
// as it is stored in a directory entry.
// Spaces inside of the name are kept, so every name returned by DisplayName converts back.
// A leading space or a trailing space before the padding is invalid.
func ShortName(name string) ([11]byte, error) {
	var result [11]byte
	for i := range result {
		result[i] = ' '
	}

	base, ext := name, ""
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		base, ext = name[:i], name[i+1:]
	}

	if base == "" || len(base) > 8 || len(ext) > 3 {
		return result, fmt.Errorf("%w: %q does not fit into 8.3", ErrInvalidName, name)
	}

	if base[0] == ' ' || strings.HasSuffix(base, " ") || strings.HasSuffix(ext, " ") {
		return result, fmt.Errorf("%w: %q has a leading or trailing space", ErrInvalidName, name)
	}

	for _, part := range []string{base, ext} {
		for i := 0; i < len(part); i++ {
			if part[i] < 0x20 || part[i] > 0x7E || strings.IndexByte(invalidShortNameChars, part[i]) >= 0 {
				return result, fmt.Errorf("%w: %q contains the invalid character %q", ErrInvalidName, name, part[i])
			}
		}
	}

	copy(result[:8], strings.ToUpper(base))
	copy(result[8:], strings.ToUpper(ext))
	return result, nil
}
