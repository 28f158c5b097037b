// Package fat12test builds small FAT12 images in memory for tests.
package fat12test

import (
	"encoding/binary"
	"fmt"
)

// File is a file in the root directory of an Image.
type File struct {
	// Name is the padded 8.3 name exactly as stored, e.g. "TEST    TXT".
	Name       string
	Attributes uint8
	Data       []byte

	// Clusters lists the clusters of the file in chain order.
	// If empty, free clusters are allocated in ascending order.
	// Every file gets at least one cluster.
	Clusters []uint16

	ModifiedDate uint16
	ModifiedTime uint16
}

// Image describes the geometry and the root directory of a FAT12 volume.
type Image struct {
	BytesPerSector    uint16
	SectorsPerCluster uint8
	ReservedSectors   uint16
	FatCount          uint8
	DirEntryCount     uint16
	SectorsPerFat     uint16
	TotalSectors      uint16
	Media             uint8
	Label             string

	Files []File
}

// Floppy returns the geometry of a 1.44 MB floppy disk.
func Floppy() Image {
	return Image{
		BytesPerSector:    512,
		SectorsPerCluster: 1,
		ReservedSectors:   1,
		FatCount:          2,
		DirEntryCount:     224,
		SectorsPerFat:     9,
		TotalSectors:      2880,
		Media:             0xF0,
		Label:             "NO NAME",
	}
}

// Small returns a tiny volume with two sectors per cluster which keeps tests fast.
func Small() Image {
	return Image{
		BytesPerSector:    512,
		SectorsPerCluster: 2,
		ReservedSectors:   1,
		FatCount:          2,
		DirEntryCount:     16,
		SectorsPerFat:     1,
		TotalSectors:      64,
		Media:             0xF8,
		Label:             "SMALL",
	}
}

// PutEntry stores value as the 12 bit FAT entry of cluster in table.
func PutEntry(table []byte, cluster uint16, value uint16) {
	i := int(cluster) * 3 / 2
	if cluster%2 == 0 {
		table[i] = byte(value)
		table[i+1] = table[i+1]&0xF0 | byte(value>>8)&0x0F
	} else {
		table[i] = table[i]&0x0F | byte(value<<4)
		table[i+1] = byte(value >> 4)
	}
}

// FATOffset returns the byte offset of the first FAT copy.
func (img Image) FATOffset() int {
	return int(img.ReservedSectors) * int(img.BytesPerSector)
}

// RootDirOffset returns the byte offset of the root directory.
func (img Image) RootDirOffset() int {
	return img.FATOffset() + int(img.FatCount)*int(img.SectorsPerFat)*int(img.BytesPerSector)
}

// DataOffset returns the byte offset of cluster 2.
func (img Image) DataOffset() int {
	rootSize := int(img.DirEntryCount) * 32
	bps := int(img.BytesPerSector)
	return img.RootDirOffset() + (rootSize+bps-1)/bps*bps
}

// ClusterOffset returns the byte offset of the given cluster.
func (img Image) ClusterOffset(cluster uint16) int {
	return img.DataOffset() + (int(cluster)-2)*img.ClusterSize()
}

// ClusterSize returns the size of a cluster in bytes.
func (img Image) ClusterSize() int {
	return int(img.SectorsPerCluster) * int(img.BytesPerSector)
}

// Build renders the image.
func (img Image) Build() ([]byte, error) {
	if img.BytesPerSector < 64 || img.SectorsPerCluster == 0 || img.SectorsPerFat == 0 || img.FatCount == 0 {
		return nil, fmt.Errorf("unusable geometry %+v", img)
	}
	if len(img.Files) > int(img.DirEntryCount) {
		return nil, fmt.Errorf("%d files do not fit into %d directory entries", len(img.Files), img.DirEntryCount)
	}

	out := make([]byte, int(img.TotalSectors)*int(img.BytesPerSector))
	if img.DataOffset() > len(out) {
		return nil, fmt.Errorf("%d sectors are too few for the metadata", img.TotalSectors)
	}

	img.writeBootSector(out)

	fatSize := int(img.SectorsPerFat) * int(img.BytesPerSector)
	table := make([]byte, fatSize)
	PutEntry(table, 0, 0xF00|uint16(img.Media))
	PutEntry(table, 1, 0xFFF)

	clusterCount := (len(out) - img.DataOffset()) / img.ClusterSize()
	if limit := fatSize*2/3 - 2; clusterCount > limit {
		clusterCount = limit
	}
	used := make(map[uint16]bool)
	nextFree := uint16(2)

	root := out[img.RootDirOffset():]
	for i, f := range img.Files {
		if len(f.Name) != 11 {
			return nil, fmt.Errorf("name %q is not a padded 8.3 name", f.Name)
		}

		clusters := f.Clusters
		if len(clusters) == 0 {
			need := (len(f.Data) + img.ClusterSize() - 1) / img.ClusterSize()
			if need == 0 {
				need = 1
			}
			for len(clusters) < need {
				for used[nextFree] {
					nextFree++
				}
				clusters = append(clusters, nextFree)
				nextFree++
			}
		}
		if len(f.Data) > len(clusters)*img.ClusterSize() {
			return nil, fmt.Errorf("%d clusters are too few for %d bytes of %q", len(clusters), len(f.Data), f.Name)
		}

		for j, c := range clusters {
			if c < 2 || int(c)-2 >= clusterCount {
				return nil, fmt.Errorf("cluster %d of %q is out of range", c, f.Name)
			}
			if used[c] {
				return nil, fmt.Errorf("cluster %d of %q is already used", c, f.Name)
			}
			used[c] = true

			next := uint16(0xFFF)
			if j+1 < len(clusters) {
				next = clusters[j+1]
			}
			PutEntry(table, c, next)

			start := j * img.ClusterSize()
			if start < len(f.Data) {
				end := start + img.ClusterSize()
				if end > len(f.Data) {
					end = len(f.Data)
				}
				copy(out[img.ClusterOffset(c):], f.Data[start:end])
			}
		}

		e := root[i*32 : (i+1)*32]
		copy(e[0:11], f.Name)
		e[11] = f.Attributes
		binary.LittleEndian.PutUint16(e[22:24], f.ModifiedTime)
		binary.LittleEndian.PutUint16(e[24:26], f.ModifiedDate)
		binary.LittleEndian.PutUint16(e[26:28], clusters[0])
		binary.LittleEndian.PutUint32(e[28:32], uint32(len(f.Data)))
	}

	for i := 0; i < int(img.FatCount); i++ {
		copy(out[img.FATOffset()+i*fatSize:], table)
	}

	return out, nil
}

func (img Image) writeBootSector(out []byte) {
	copy(out[0:3], []byte{0xEB, 0x3C, 0x90})
	copy(out[3:11], "MSWIN4.1")
	binary.LittleEndian.PutUint16(out[11:13], img.BytesPerSector)
	out[13] = img.SectorsPerCluster
	binary.LittleEndian.PutUint16(out[14:16], img.ReservedSectors)
	out[16] = img.FatCount
	binary.LittleEndian.PutUint16(out[17:19], img.DirEntryCount)
	binary.LittleEndian.PutUint16(out[19:21], img.TotalSectors)
	out[21] = img.Media
	binary.LittleEndian.PutUint16(out[22:24], img.SectorsPerFat)
	binary.LittleEndian.PutUint16(out[24:26], 18)
	binary.LittleEndian.PutUint16(out[26:28], 2)

	out[38] = 0x29
	binary.LittleEndian.PutUint32(out[39:43], 0x12345678)
	label := []byte("           ")
	copy(label, img.Label)
	copy(out[43:54], label)
	copy(out[54:62], "FAT12   ")

	if len(out) >= 512 {
		out[510] = 0x55
		out[511] = 0xAA
	}
}
