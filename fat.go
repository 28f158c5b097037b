package fat12

import (
	"encoding/binary"
	"fmt"
)

// fatEntry is a single 12 bit value of the FAT.
// It is either the number of the next cluster of a chain or one of the special markers.
type fatEntry uint16

const (
	entryMask      fatEntry = 0x0FFF
	firstCluster   fatEntry = 0x002
	lastCluster    fatEntry = 0xFEF
	reservedFirst  fatEntry = 0xFF0
	badCluster     fatEntry = 0xFF7
	endOfChainMark fatEntry = 0xFF8
)

// IsFree reports whether the cluster is not allocated.
func (e fatEntry) IsFree() bool {
	return e == 0
}

// IsReservedTemp reports the value which is reserved and never used as cluster number.
func (e fatEntry) IsReservedTemp() bool {
	return e == 1
}

// IsNextCluster reports whether e is a valid number of a following cluster.
func (e fatEntry) IsNextCluster() bool {
	return e >= firstCluster && e <= lastCluster
}

// IsReserved reports the range which is reserved right before the bad cluster marker.
func (e fatEntry) IsReserved() bool {
	return e >= reservedFirst && e < badCluster
}

// IsBad reports whether the cluster is marked as bad.
func (e fatEntry) IsBad() bool {
	return e == badCluster
}

// IsEOF reports whether e marks the end of a cluster chain.
func (e fatEntry) IsEOF() bool {
	return e >= endOfChainMark
}

// fatTable holds the raw bytes of the first FAT copy.
// Two entries are packed into three bytes:
//
//	byte 0: bits 0-7 of the even entry
//	byte 1: bits 8-11 of the even entry in the low nibble, bits 0-3 of the odd entry in the high nibble
//	byte 2: bits 4-11 of the odd entry
type fatTable []byte

// loadFAT reads the first FAT copy which starts right after the reserved sectors.
func loadFAT(s sectorReader, bs BootSector) (fatTable, error) {
	table := make(fatTable, uint32(bs.SectorsPerFat)*uint32(bs.BytesPerSector))
	if err := s.readSectors(uint32(bs.ReservedSectors), uint32(bs.SectorsPerFat), table); err != nil {
		return nil, err
	}

	return table, nil
}

// entries returns how many entries fit into the table.
func (t fatTable) entries() uint32 {
	return uint32(len(t)) * 2 / 3
}

// entry decodes the FAT value stored for the given cluster.
func (t fatTable) entry(cluster fatEntry) (fatEntry, error) {
	i := int(cluster) * 3 / 2
	if i+1 >= len(t) {
		return 0, fmt.Errorf("%w: cluster %d is outside of the FAT", ErrCorruptChain, cluster)
	}

	v := fatEntry(binary.LittleEndian.Uint16(t[i:]))
	if cluster%2 == 0 {
		return v & entryMask, nil
	}
	return v >> 4, nil
}
