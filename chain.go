package fat12

import (
	"fmt"

	"github.com/aligator/fat12/checkpoint"
)

type chainState int

const (
	chainReading chainState = iota
	chainDone
	chainFailed
)

// chainReader walks the cluster chain of one file and copies each cluster as a whole.
// It reads a cluster before it checks whether the chain continues, so even a
// chain which ends right away produces one cluster of data.
type chainReader struct {
	sectors           sectorReader
	fat               fatTable
	sectorsPerCluster uint32

	// dataStart is the logical block address of cluster 2.
	dataStart uint32

	// limit is the number of clusters the volume can address.
	// A chain with more links must contain a loop.
	limit uint32

	state   chainState
	current fatEntry
	reads   uint32
	err     error
}

func (v *Volume) newChainReader(first fatEntry) *chainReader {
	return &chainReader{
		sectors:           v.sectors,
		fat:               v.fat,
		sectorsPerCluster: uint32(v.boot.SectorsPerCluster),
		dataStart:         v.root.end,
		limit:             v.ClusterCount(),
		state:             chainReading,
		current:           first,
	}
}

// ClusterCount returns how many data clusters exist.
// It is limited by the FAT size, the highest valid cluster number and, if known, the volume size.
func (v *Volume) ClusterCount() uint32 {
	count := uint32(lastCluster-firstCluster) + 1

	if fatEntries := v.fat.entries(); fatEntries < uint32(firstCluster) {
		return 0
	} else if fatEntries-uint32(firstCluster) < count {
		count = fatEntries - uint32(firstCluster)
	}

	if total := v.boot.Sectors(); total > v.root.end {
		if dataClusters := (total - v.root.end) / uint32(v.boot.SectorsPerCluster); dataClusters < count {
			count = dataClusters
		}
	}

	return count
}

func (c *chainReader) fail(err error) error {
	c.state = chainFailed
	c.err = err
	return err
}

// next copies the current cluster into dst, which must hold at least one cluster,
// and moves on to the following cluster of the chain.
func (c *chainReader) next(dst []byte) error {
	switch c.state {
	case chainDone:
		return fmt.Errorf("%w: read after the end of the chain", ErrCorruptChain)
	case chainFailed:
		return c.err
	}

	if c.reads >= c.limit {
		return c.fail(fmt.Errorf("%w: chain is longer than the %d clusters of the volume", ErrCorruptChain, c.limit))
	}

	if !c.current.IsNextCluster() || uint32(c.current-firstCluster) >= c.limit {
		return c.fail(fmt.Errorf("%w: cluster 0x%03x is not a data cluster", ErrCorruptChain, uint16(c.current)))
	}

	lba := c.dataStart + uint32(c.current-firstCluster)*c.sectorsPerCluster
	if err := c.sectors.readSectors(lba, c.sectorsPerCluster, dst); err != nil {
		return c.fail(checkpoint.From(err))
	}
	c.reads++

	following, err := c.fat.entry(c.current)
	if err != nil {
		return c.fail(err)
	}

	switch {
	case following.IsEOF():
		c.state = chainDone
	case following.IsNextCluster():
		c.current = following
	default:
		// Free, reserved and bad markers can not be part of a chain.
		return c.fail(fmt.Errorf("%w: cluster 0x%03x is followed by 0x%03x", ErrCorruptChain, uint16(c.current), uint16(following)))
	}

	return nil
}

// readAll reads the whole chain. The result always consists of complete clusters.
// sizeHint is used to preallocate the result and may be 0.
func (c *chainReader) readAll(clusterSize uint32, sizeHint uint64) ([]byte, error) {
	if maxSize := uint64(c.limit) * uint64(clusterSize); sizeHint > maxSize {
		sizeHint = maxSize
	}

	out := make([]byte, 0, sizeHint)
	for c.state == chainReading {
		out = append(out, make([]byte, clusterSize)...)
		if err := c.next(out[len(out)-int(clusterSize):]); err != nil {
			return nil, err
		}
	}

	return out, nil
}
