// File model contains the structs which match the direct structures of the FAT12 filesystem
// and decodes them field by field from their on-disk little endian layout.

package fat12

import (
	"encoding/binary"
)

const (
	// bootSectorSize is the size of the BPB including the extended boot record.
	// Everything after it is boot code which is not needed.
	bootSectorSize = 62

	// dirEntrySize is the size of one directory record.
	dirEntrySize = 32
)

// Directory entry attributes.
const (
	AttrReadOnly  = 0x01
	AttrHidden    = 0x02
	AttrSystem    = 0x04
	AttrVolumeId  = 0x08
	AttrDirectory = 0x10
	AttrArchive   = 0x20
	AttrLongName  = AttrReadOnly | AttrHidden | AttrSystem | AttrVolumeId
)

// Special values of the first name byte.
const (
	entryFree    = 0x00
	entryDeleted = 0xE5
)

// BootSector holds the BIOS parameter block and the extended boot record of a FAT12 volume.
type BootSector struct {
	JumpBoot          [3]byte
	OEMName           [8]byte
	BytesPerSector    uint16
	SectorsPerCluster uint8
	ReservedSectors   uint16
	FatCount          uint8
	DirEntryCount     uint16
	TotalSectors      uint16
	MediaDescriptor   uint8
	SectorsPerFat     uint16
	SectorsPerTrack   uint16
	Heads             uint16
	HiddenSectors     uint32
	LargeSectorCount  uint32

	DriveNumber uint8
	Signature   uint8
	VolumeID    uint32
	VolumeLabel [11]byte
	SystemID    [8]byte
}

// decodeBootSector reads the boot sector fields from b which must hold at least bootSectorSize bytes.
func decodeBootSector(b []byte) BootSector {
	var bs BootSector
	copy(bs.JumpBoot[:], b[0:3])
	copy(bs.OEMName[:], b[3:11])
	bs.BytesPerSector = binary.LittleEndian.Uint16(b[11:13])
	bs.SectorsPerCluster = b[13]
	bs.ReservedSectors = binary.LittleEndian.Uint16(b[14:16])
	bs.FatCount = b[16]
	bs.DirEntryCount = binary.LittleEndian.Uint16(b[17:19])
	bs.TotalSectors = binary.LittleEndian.Uint16(b[19:21])
	bs.MediaDescriptor = b[21]
	bs.SectorsPerFat = binary.LittleEndian.Uint16(b[22:24])
	bs.SectorsPerTrack = binary.LittleEndian.Uint16(b[24:26])
	bs.Heads = binary.LittleEndian.Uint16(b[26:28])
	bs.HiddenSectors = binary.LittleEndian.Uint32(b[28:32])
	bs.LargeSectorCount = binary.LittleEndian.Uint32(b[32:36])

	// b[37] is reserved.
	bs.DriveNumber = b[36]
	bs.Signature = b[38]
	bs.VolumeID = binary.LittleEndian.Uint32(b[39:43])
	copy(bs.VolumeLabel[:], b[43:54])
	copy(bs.SystemID[:], b[54:62])
	return bs
}

// Sectors returns the total sector count of the volume or 0 if the boot sector does not contain it.
func (bs BootSector) Sectors() uint32 {
	if bs.TotalSectors != 0 {
		return uint32(bs.TotalSectors)
	}
	return bs.LargeSectorCount
}

// ClusterSize returns the size of one cluster in bytes.
func (bs BootSector) ClusterSize() uint32 {
	return uint32(bs.SectorsPerCluster) * uint32(bs.BytesPerSector)
}

// DirEntry is one 32 byte slot of a FAT directory.
type DirEntry struct {
	Name              [11]byte
	Attributes        uint8
	CreatedTimeTenths uint8
	CreatedTime       uint16
	CreatedDate       uint16
	AccessedDate      uint16
	FirstClusterHigh  uint16
	ModifiedTime      uint16
	ModifiedDate      uint16
	FirstClusterLow   uint16
	Size              uint32
}

// decodeDirEntry reads a directory entry from b which must hold at least dirEntrySize bytes.
func decodeDirEntry(b []byte) DirEntry {
	var e DirEntry
	copy(e.Name[:], b[0:11])
	e.Attributes = b[11]
	// b[12] is reserved for Windows NT.
	e.CreatedTimeTenths = b[13]
	e.CreatedTime = binary.LittleEndian.Uint16(b[14:16])
	e.CreatedDate = binary.LittleEndian.Uint16(b[16:18])
	e.AccessedDate = binary.LittleEndian.Uint16(b[18:20])
	e.FirstClusterHigh = binary.LittleEndian.Uint16(b[20:22])
	e.ModifiedTime = binary.LittleEndian.Uint16(b[22:24])
	e.ModifiedDate = binary.LittleEndian.Uint16(b[24:26])
	e.FirstClusterLow = binary.LittleEndian.Uint16(b[26:28])
	e.Size = binary.LittleEndian.Uint32(b[28:32])
	return e
}

// IsDir reports whether the entry describes a subdirectory.
func (e DirEntry) IsDir() bool {
	return e.Attributes&AttrDirectory == AttrDirectory
}

// inUse reports whether the slot holds a visible file or directory.
// Free and deleted slots, long file name parts and the volume label are not in use.
func (e DirEntry) inUse() bool {
	if e.Name[0] == entryFree || e.Name[0] == entryDeleted {
		return false
	}
	// Long file name parts carry the volume id bit as well.
	return e.Attributes&AttrVolumeId == 0
}
