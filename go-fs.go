package fat12

import (
	"io"

	"github.com/spf13/afero"
)

// NewIOFS opens a FAT12 volume from the given reader as io/fs.FS compatible filesystem
// using the afero.IOFS compatibility layer.
func NewIOFS(reader io.ReadSeeker, opts ...Option) (afero.IOFS, error) {
	volume, err := New(reader, opts...)
	if err != nil {
		return afero.IOFS{}, err
	}

	return afero.NewIOFS(NewFs(volume)), nil
}
