package fat12

import (
	"fmt"
	"io"
	"strings"

	"github.com/aligator/fat12/checkpoint"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Volume contains everything loaded from a FAT12 image which is needed to read files from it.
// All of it is read once by New and never modified afterwards.
type Volume struct {
	sectors sectorReader
	closer  io.Closer

	boot BootSector
	fat  fatTable
	root rootDirectory

	strict bool
	log    *zap.Logger
}

// Option configures a Volume.
type Option func(v *Volume)

// WithLogger sets the logger used to report the loading stages.
func WithLogger(log *zap.Logger) Option {
	return func(v *Volume) {
		v.log = log
	}
}

// SkipChecks disables the plausibility checks of the boot sector which are not needed to read the volume safely.
// This may allow you to read not perfectly standard images. Use with caution!
func SkipChecks() Option {
	return func(v *Volume) {
		v.strict = false
	}
}

// New loads the boot sector, the first FAT and the root directory from the given reader.
// It fails at the first stage which could not be completed.
func New(reader io.ReadSeeker, opts ...Option) (*Volume, error) {
	v := &Volume{
		sectors: sectorReader{reader: reader},
		strict:  true,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}

	if err := v.initialize(); err != nil {
		return nil, err
	}
	return v, nil
}

// NewSkipChecks loads a volume just like New but it skips some validations.
// See SkipChecks.
func NewSkipChecks(reader io.ReadSeeker, opts ...Option) (*Volume, error) {
	return New(reader, append(opts, SkipChecks())...)
}

// Open opens the image at path from the given filesystem and loads it.
// The image is closed again if loading fails, otherwise Close has to be called.
func Open(fs afero.Fs, path string, opts ...Option) (*Volume, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrOpenImage)
	}

	v, err := New(file, opts...)
	if err != nil {
		_ = file.Close()
		return nil, err
	}

	v.closer = file
	return v, nil
}

func (v *Volume) initialize() error {
	boot, err := readBootSector(v.sectors)
	if err != nil {
		return checkpoint.Wrap(err, ErrReadBootSector)
	}
	if err := boot.validate(v.strict); err != nil {
		return checkpoint.Wrap(err, ErrReadBootSector)
	}
	v.boot = boot
	v.sectors.bytesPerSector = uint32(boot.BytesPerSector)

	v.log.Debug("read boot sector",
		zap.Uint16("bytesPerSector", boot.BytesPerSector),
		zap.Uint8("sectorsPerCluster", boot.SectorsPerCluster),
		zap.Uint16("reservedSectors", boot.ReservedSectors),
		zap.Uint8("fatCount", boot.FatCount),
		zap.Uint16("dirEntryCount", boot.DirEntryCount),
		zap.Uint16("sectorsPerFat", boot.SectorsPerFat),
	)

	v.fat, err = loadFAT(v.sectors, boot)
	if err != nil {
		return checkpoint.Wrap(err, ErrReadFAT)
	}
	v.log.Debug("read FAT", zap.Int("bytes", len(v.fat)))

	v.root, err = loadRootDirectory(v.sectors, boot)
	if err != nil {
		return checkpoint.Wrap(err, ErrReadRootDir)
	}
	v.log.Debug("read root directory", zap.Uint32("dataStart", v.root.end))

	return nil
}

// Close releases the loaded tables and closes the image if it was opened by Open.
func (v *Volume) Close() error {
	v.fat = nil
	v.root = rootDirectory{}

	if v.closer == nil {
		return nil
	}
	err := v.closer.Close()
	v.closer = nil
	return checkpoint.From(err)
}

// BootSector returns the decoded boot sector.
func (v *Volume) BootSector() BootSector {
	return v.boot
}

// Label returns the volume label without padding.
func (v *Volume) Label() string {
	return strings.TrimRight(string(v.boot.VolumeLabel[:]), " ")
}

// RootDirectoryEnd returns the first logical block address after the root directory
// which is where the data clusters start.
func (v *Volume) RootDirectoryEnd() uint32 {
	return v.root.end
}

// Lookup searches the root directory for an entry with exactly the given padded 8.3 name,
// e.g. "README  TXT". No case or padding normalization is done.
func (v *Volume) Lookup(name [11]byte) (DirEntry, bool) {
	return v.root.lookup(name)
}

// Entries returns the files and directories of the root directory.
func (v *Volume) Entries() []DirEntry {
	return v.root.visible()
}

// ReadFile reads the content of the file described by the entry.
// The high 16 bits of the first cluster are ignored as FAT12 does not use them.
func (v *Volume) ReadFile(entry DirEntry) ([]byte, error) {
	first := fatEntry(entry.FirstClusterLow)

	// Empty files usually do not have any cluster allocated.
	if entry.Size == 0 && first.IsFree() {
		return []byte{}, nil
	}

	clusterSize := v.boot.ClusterSize()
	sizeHint := (uint64(entry.Size)/uint64(clusterSize) + 1) * uint64(clusterSize)

	chain := v.newChainReader(first)
	data, err := chain.readAll(clusterSize, sizeHint)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrReadFile)
	}
	v.log.Debug("read cluster chain",
		zap.Uint16("firstCluster", entry.FirstClusterLow),
		zap.Uint32("clusters", chain.reads),
	)

	if uint64(len(data)) < uint64(entry.Size) {
		return nil, checkpoint.Wrap(ErrCorruptChain, ErrReadFile)
	}
	return data[:entry.Size], nil
}

// Extract looks up the file with the given padded 8.3 name and reads it.
func (v *Volume) Extract(name [11]byte) ([]byte, error) {
	entry, ok := v.Lookup(name)
	if !ok {
		return nil, checkpoint.From(fmt.Errorf("%w: %q", ErrFileNotFound, name[:]))
	}

	return v.ReadFile(entry)
}
