package fat12

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/aligator/fat12/checkpoint"
	"github.com/spf13/afero"
)

// These errors may occur while processing a file.
var (
	ErrSeekFile = errors.New("could not seek inside of the file")
	ErrReadDir  = errors.New("could not read the directory")
)

// fatFileFs provides all methods needed from a fat filesystem for File.
// It mainly exists to be able to mock the Fs in tests.
// Generated mock using mockgen:
//
//	mockgen -source=file.go -destination=file_mock.go -package fat12
type fatFileFs interface {
	readFileAt(entry DirEntry, offset int64, readSize int64) ([]byte, error)
	readRoot() ([]DirEntry, error)
}

// File is a file or the root directory of a FAT12 volume opened through Fs.
type File struct {
	fs   fatFileFs
	path string

	isRoot bool
	entry  DirEntry
	stat   os.FileInfo
	offset int64
}

var _ afero.File = (*File)(nil)

// Close resets the File. Any later call except Close and Name returns os.ErrClosed.
func (f *File) Close() error {
	*f = File{}
	return nil
}

func (f *File) closed() bool {
	return f.stat == nil
}

func (f *File) Read(p []byte) (n int, err error) {
	if f.closed() {
		return 0, checkpoint.Wrap(os.ErrClosed, ErrReadFile)
	}

	if len(p) == 0 {
		return 0, nil
	}

	if f.stat.IsDir() {
		return 0, checkpoint.Wrap(syscall.EISDIR, ErrReadFile)
	}

	// Reading a file if the size has been already reached, makes no sense.
	if f.stat.Size() <= f.offset {
		return 0, io.EOF
	}

	data, err := f.fs.readFileAt(f.entry, f.offset, int64(len(p)))
	n = copy(p, data)
	f.offset += int64(n)

	// io.EOF is passed through by checkpoint.Wrap.
	return n, checkpoint.Wrap(err, ErrReadFile)
}

func (f *File) ReadAt(p []byte, off int64) (n int, err error) {
	if f.closed() {
		return 0, checkpoint.Wrap(os.ErrClosed, ErrReadFile)
	}

	if len(p) == 0 {
		return 0, nil
	}

	if f.stat.IsDir() {
		return 0, checkpoint.Wrap(syscall.EISDIR, ErrReadFile)
	}

	// Reading over the end makes no sense.
	if off < 0 || f.stat.Size() <= off {
		return 0, io.EOF
	}

	data, err := f.fs.readFileAt(f.entry, off, int64(len(p)))
	n = copy(p, data)
	if err != nil {
		return n, checkpoint.Wrap(err, ErrReadFile)
	}

	// ReadAt has to explain why it read less than requested.
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Seek jumps to a specific offset in the file. This affects all Read operation except ReadAt.
// May return a syscall.EINVAL error if the whence value is invalid.
// May return an afero.ErrOutOfRange error if the offset is out of range.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	if f.closed() {
		return 0, checkpoint.Wrap(os.ErrClosed, ErrSeekFile)
	}

	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		offset = f.offset + offset
	case io.SeekEnd:
		offset = f.stat.Size() + offset
	default:
		return 0, checkpoint.Wrap(ErrSeekFile, fmt.Errorf("%w, offset: %v, whence: %v", syscall.EINVAL, offset, whence))
	}

	if offset < 0 || offset > f.stat.Size() {
		return 0, checkpoint.Wrap(afero.ErrOutOfRange, fmt.Errorf("%w, offset: %v, whence: %v", ErrSeekFile, offset, whence))
	}

	f.offset = offset
	return offset, nil
}

func (f *File) Write(p []byte) (n int, err error) {
	return 0, f.readOnly("write")
}

func (f *File) WriteAt(p []byte, off int64) (n int, err error) {
	return 0, f.readOnly("write")
}

func (f *File) WriteString(s string) (ret int, err error) {
	return f.Write([]byte(s))
}

func (f *File) Truncate(size int64) error {
	return f.readOnly("truncate")
}

// Sync does nothing as nothing can be written.
func (f *File) Sync() error {
	return nil
}

func (f *File) Name() string {
	return f.path
}

func (f *File) Stat() (os.FileInfo, error) {
	if f.closed() {
		return nil, os.ErrClosed
	}
	return f.stat, nil
}

// Readdir reads the contents of the root directory.
// The offset used by Read is reused to remember how many entries were already returned.
// May return syscall.ENOTDIR if the current File is no directory
// and ErrNoSubdirectory for any directory except the root directory.
func (f *File) Readdir(count int) ([]os.FileInfo, error) {
	if f.closed() {
		return nil, checkpoint.Wrap(os.ErrClosed, ErrReadDir)
	}

	if !f.stat.IsDir() {
		return nil, checkpoint.Wrap(syscall.ENOTDIR, ErrReadDir)
	}

	if !f.isRoot {
		return nil, checkpoint.Wrap(ErrNoSubdirectory, ErrReadDir)
	}

	content, err := f.fs.readRoot()
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrReadDir)
	}

	if f.offset > int64(len(content)) {
		f.offset = int64(len(content))
	}
	content = content[f.offset:]

	if count > 0 {
		if len(content) == 0 {
			return nil, io.EOF
		}
		if count < len(content) {
			content = content[:count]
		}
	}
	f.offset += int64(len(content))

	result := make([]os.FileInfo, len(content))
	for i := range content {
		result[i] = content[i].FileInfo()
	}

	return result, nil
}

func (f *File) Readdirnames(count int) ([]string, error) {
	content, err := f.Readdir(count)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(content))
	for i, entry := range content {
		names[i] = entry.Name()
	}

	return names, nil
}

func (f *File) readOnly(op string) error {
	return readOnly(op, f.path)
}
