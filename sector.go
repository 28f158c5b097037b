package fat12

import (
	"io"

	"github.com/aligator/fat12/checkpoint"
)

// sectorReader fetches whole sectors from the backing image.
// It never returns partially filled buffers: anything short of the requested extent is an ErrIO.
type sectorReader struct {
	reader         io.ReadSeeker
	bytesPerSector uint32
}

// readSectors reads count sectors starting at the logical block address lba into dst.
func (s sectorReader) readSectors(lba uint32, count uint32, dst []byte) error {
	size := int64(count) * int64(s.bytesPerSector)
	if int64(len(dst)) < size {
		return checkpoint.Wrap(io.ErrShortBuffer, ErrIO)
	}

	return s.readAt(int64(lba)*int64(s.bytesPerSector), dst[:size])
}

// readAt fills dst completely with the bytes found at offset.
func (s sectorReader) readAt(offset int64, dst []byte) error {
	_, err := s.reader.Seek(offset, io.SeekStart)
	if err != nil {
		return checkpoint.Wrap(err, ErrIO)
	}

	_, err = io.ReadFull(s.reader, dst)
	if err == io.EOF {
		// Nothing at all could be read, which is still a truncated image.
		err = io.ErrUnexpectedEOF
	}
	return checkpoint.Wrap(err, ErrIO)
}
