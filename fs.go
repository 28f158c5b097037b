package fat12

import (
	"io"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/aligator/fat12/checkpoint"
	"github.com/spf13/afero"
)

// Fs is a read-only afero.Fs of the root directory of a FAT12 volume.
// Names are given in the usual "name.ext" form and converted by ShortName.
// Subdirectories are listed but can not be opened.
type Fs struct {
	lock   sync.Mutex
	volume *Volume

	// cache keeps the last file read as File reads it in small chunks.
	cache struct {
		entry DirEntry
		data  []byte
	}
}

var _ afero.Fs = (*Fs)(nil)

// NewFs returns the afero.Fs view of the given volume.
func NewFs(volume *Volume) *Fs {
	return &Fs{volume: volume}
}

// OpenFs opens the image at path from base and returns it as afero.Fs together with the Volume,
// which has to be closed by the caller.
func OpenFs(base afero.Fs, path string, opts ...Option) (*Fs, *Volume, error) {
	volume, err := Open(base, path, opts...)
	if err != nil {
		return nil, nil, err
	}

	return NewFs(volume), volume, nil
}

func (fs *Fs) readFileAt(entry DirEntry, offset int64, readSize int64) ([]byte, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if fs.cache.data == nil || fs.cache.entry != entry {
		data, err := fs.volume.ReadFile(entry)
		if err != nil {
			return nil, err
		}
		fs.cache.entry = entry
		fs.cache.data = data
	}

	data := fs.cache.data
	if offset >= int64(len(data)) {
		return nil, io.EOF
	}

	if offset+readSize >= int64(len(data)) {
		return data[offset:], io.EOF
	}
	return data[offset : offset+readSize], nil
}

func (fs *Fs) readRoot() ([]DirEntry, error) {
	return fs.volume.Entries(), nil
}

// Open opens a file of the root directory. "", "." and "/" open the root directory itself.
func (fs *Fs) Open(name string) (afero.File, error) {
	path := strings.Trim(name, "/")
	if path == "" || path == "." {
		return &File{
			fs:     fs,
			path:   "",
			isRoot: true,
			stat:   rootFileInfo{},
		}, nil
	}

	if strings.ContainsAny(path, `/\`) {
		return nil, &os.PathError{Op: "open", Path: name, Err: checkpoint.Wrap(os.ErrNotExist, ErrNoSubdirectory)}
	}

	short, err := ShortName(path)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: name, Err: checkpoint.Wrap(os.ErrNotExist, err)}
	}

	entry, ok := fs.volume.Lookup(short)
	if !ok || !entry.inUse() {
		return nil, &os.PathError{Op: "open", Path: name, Err: checkpoint.Wrap(os.ErrNotExist, ErrFileNotFound)}
	}

	return &File{
		fs:    fs,
		path:  path,
		entry: entry,
		stat:  entry.FileInfo(),
	}, nil
}

func (fs *Fs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_APPEND|os.O_CREATE|os.O_TRUNC) != 0 {
		return nil, readOnly("open", name)
	}
	return fs.Open(name)
}

func (fs *Fs) Stat(name string) (os.FileInfo, error) {
	file, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return file.Stat()
}

func (fs *Fs) Name() string {
	return "FAT12"
}

func (fs *Fs) Create(name string) (afero.File, error) {
	return nil, readOnly("create", name)
}

func (fs *Fs) Mkdir(name string, perm os.FileMode) error {
	return readOnly("mkdir", name)
}

func (fs *Fs) MkdirAll(path string, perm os.FileMode) error {
	return readOnly("mkdir", path)
}

func (fs *Fs) Remove(name string) error {
	return readOnly("remove", name)
}

func (fs *Fs) RemoveAll(path string) error {
	return readOnly("remove", path)
}

func (fs *Fs) Rename(oldname, newname string) error {
	return readOnly("rename", oldname)
}

func (fs *Fs) Chmod(name string, mode os.FileMode) error {
	return readOnly("chmod", name)
}

func (fs *Fs) Chown(name string, uid, gid int) error {
	return readOnly("chown", name)
}

func (fs *Fs) Chtimes(name string, atime time.Time, mtime time.Time) error {
	return readOnly("chtimes", name)
}

func readOnly(op, name string) error {
	return &os.PathError{Op: op, Path: name, Err: checkpoint.Wrap(syscall.EROFS, ErrReadOnly)}
}
