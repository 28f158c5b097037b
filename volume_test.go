package fat12

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/aligator/fat12/fat12test"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestVolume_Extract(t *testing.T) {
	image := smallImage(t, testFile)
	reader := &countingReader{ReadSeeker: bytes.NewReader(image)}

	v := testingNew(t, reader)
	if reader.seeks != 3 {
		t.Errorf("loading the volume used %d reads, want 3", reader.seeks)
	}
	if got := v.RootDirectoryEnd(); got != 4 {
		t.Errorf("Volume.RootDirectoryEnd() = %v, want 4", got)
	}

	got, err := v.Extract(name11("TEST    TXT"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(testFile.Data, got); diff != "" {
		t.Errorf("Volume.Extract() mismatch (-want +got):\n%s", diff)
	}

	// One read per cluster.
	if reader.seeks != 5 {
		t.Errorf("Volume.Extract() used %d reads in total, want 5", reader.seeks)
	}
}

func TestVolume_Extract_notFound(t *testing.T) {
	v := testingNew(t, bytes.NewReader(smallImage(t, testFile)))

	for _, name := range []string{"test    txt", "TEST     TX", "TEST.TXT   ", "           ", "\xe5EST    TXT"} {
		if _, err := v.Extract(name11(name)); !errors.Is(err, ErrFileNotFound) {
			t.Errorf("Volume.Extract(%q) error = %v, want ErrFileNotFound", name, err)
		}
	}
}

func TestVolume_ReadFile(t *testing.T) {
	img := fat12test.Small()
	img.Files = []fat12test.File{testFile}
	entryOffset := img.RootDirOffset()

	tests := []struct {
		name string
		// modify changes the image in which testFile has the first root directory slot.
		modify    func(image []byte) []byte
		want      []byte
		wantSeeks int
		wantErr   error
	}{
		{
			name:      "two clusters",
			modify:    func(image []byte) []byte { return image },
			want:      testFile.Data,
			wantSeeks: 2,
		},
		{
			name: "empty file without clusters",
			modify: func(image []byte) []byte {
				binary.LittleEndian.PutUint16(image[entryOffset+26:], 0)
				binary.LittleEndian.PutUint32(image[entryOffset+28:], 0)
				return image
			},
			want:      []byte{},
			wantSeeks: 0,
		},
		{
			name: "empty file with a cluster",
			modify: func(image []byte) []byte {
				binary.LittleEndian.PutUint32(image[entryOffset+28:], 0)
				fat12test.PutEntry(image[img.FATOffset():], 2, 0xFFF)
				return image
			},
			want:      []byte{},
			wantSeeks: 1,
		},
		{
			name: "empty file still reads the whole chain",
			modify: func(image []byte) []byte {
				binary.LittleEndian.PutUint32(image[entryOffset+28:], 0)
				return image
			},
			want:      []byte{},
			wantSeeks: 2,
		},
		{
			name: "shorter than the chain",
			modify: func(image []byte) []byte {
				binary.LittleEndian.PutUint32(image[entryOffset+28:], 3)
				return image
			},
			want:      []byte("012"),
			wantSeeks: 2,
		},
		{
			name: "the high cluster bits are ignored",
			modify: func(image []byte) []byte {
				binary.LittleEndian.PutUint16(image[entryOffset+20:], 0xFFFF)
				return image
			},
			want:      testFile.Data,
			wantSeeks: 2,
		},
		{
			name: "larger than the chain",
			modify: func(image []byte) []byte {
				binary.LittleEndian.PutUint32(image[entryOffset+28:], 5000)
				return image
			},
			wantErr: ErrCorruptChain,
		},
		{
			name: "data without clusters",
			modify: func(image []byte) []byte {
				binary.LittleEndian.PutUint16(image[entryOffset+26:], 0)
				return image
			},
			wantErr: ErrCorruptChain,
		},
		{
			name: "loop",
			modify: func(image []byte) []byte {
				fat12test.PutEntry(image[img.FATOffset():], 3, 2)
				return image
			},
			wantErr: ErrCorruptChain,
		},
		{
			name: "truncated data",
			modify: func(image []byte) []byte {
				return image[:img.ClusterOffset(3)]
			},
			wantErr: ErrIO,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			image := tt.modify(buildImage(t, img))

			v := testingNew(t, bytes.NewReader(image))
			entry, ok := v.Lookup(name11("TEST    TXT"))
			if !ok {
				t.Fatal("TEST    TXT not found")
			}

			reader := &countingReader{ReadSeeker: bytes.NewReader(image)}
			v.sectors.reader = reader

			got, err := v.ReadFile(entry)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Volume.ReadFile() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrReadFile) {
					t.Errorf("Volume.ReadFile() error = %v, want ErrReadFile", err)
				}
				return
			}

			if got == nil {
				t.Errorf("Volume.ReadFile() = nil, want a non nil slice")
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Volume.ReadFile() mismatch (-want +got):\n%s", diff)
			}
			if reader.seeks != tt.wantSeeks {
				t.Errorf("Volume.ReadFile() used %d reads, want %d", reader.seeks, tt.wantSeeks)
			}
		})
	}
}

func TestNew_stages(t *testing.T) {
	img := fat12test.Small()
	img.Files = []fat12test.File{testFile}
	image := buildImage(t, img)

	invalid := buildImage(t, img)
	invalid[13] = 3 // sectors per cluster

	tests := []struct {
		name       string
		image      []byte
		wantErr    error
		wantReason error
	}{
		{name: "empty image", image: nil, wantErr: ErrReadBootSector, wantReason: ErrIO},
		{name: "truncated boot sector", image: image[:bootSectorSize-1], wantErr: ErrReadBootSector, wantReason: ErrIO},
		{name: "invalid geometry", image: invalid, wantErr: ErrReadBootSector, wantReason: ErrInvalidGeometry},
		{name: "truncated FAT", image: image[:700], wantErr: ErrReadFAT, wantReason: ErrIO},
		{name: "truncated root directory", image: image[:1800], wantErr: ErrReadRootDir, wantReason: ErrIO},
		{name: "no data at all", image: image[:img.DataOffset()]},
		{name: "complete image", image: image},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := New(bytes.NewReader(tt.image))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !errors.Is(err, tt.wantReason) {
				t.Errorf("New() error = %v, want the reason %v", err, tt.wantReason)
			}
			if (err == nil) == (v == nil) {
				t.Errorf("New() = %v, %v, want exactly one of them", v, err)
			}
		})
	}
}

func TestNew_skipChecks(t *testing.T) {
	image := smallImage(t, testFile)
	image[21] = 0x12 // media descriptor

	if _, err := New(bytes.NewReader(image)); !errors.Is(err, ErrInvalidGeometry) {
		t.Fatalf("New() error = %v, want ErrInvalidGeometry", err)
	}

	v, err := NewSkipChecks(bytes.NewReader(image))
	if err != nil {
		t.Fatalf("NewSkipChecks() error = %v", err)
	}
	got, err := v.Extract(name11("TEST    TXT"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, testFile.Data) {
		t.Errorf("Volume.Extract() returned unexpected data")
	}
}

func TestNew_logger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	testingNew(t, bytes.NewReader(smallImage(t, testFile)), WithLogger(zap.New(core)))

	var messages []string
	for _, entry := range logs.All() {
		messages = append(messages, entry.Message)
	}
	want := []string{"read boot sector", "read FAT", "read root directory"}
	if diff := cmp.Diff(want, messages); diff != "" {
		t.Errorf("unexpected log messages (-want +got):\n%s", diff)
	}
}

func TestVolume_metadata(t *testing.T) {
	v := testingNew(t, bytes.NewReader(smallImage(t,
		fat12test.File{Name: "B       BIN", Data: []byte("b")},
		fat12test.File{Name: "SUBDIR     ", Attributes: AttrDirectory},
		fat12test.File{Name: "A       TXT", Data: []byte("a")},
	)))

	if got := v.Label(); got != "SMALL" {
		t.Errorf("Volume.Label() = %q, want \"SMALL\"", got)
	}
	if got := v.BootSector().BytesPerSector; got != 512 {
		t.Errorf("Volume.BootSector().BytesPerSector = %v, want 512", got)
	}

	var names []string
	for _, e := range v.Entries() {
		names = append(names, e.DisplayName())
	}
	if diff := cmp.Diff([]string{"B.BIN", "SUBDIR", "A.TXT"}, names); diff != "" {
		t.Errorf("Volume.Entries() mismatch (-want +got):\n%s", diff)
	}
}

func TestOpen(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/images/small.img", smallImage(t, testFile), 0644); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, "/images/broken.img", []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}

	v, err := Open(fs, "/images/small.img")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	got, err := v.Extract(name11("TEST    TXT"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, testFile.Data) {
		t.Errorf("Volume.Extract() returned unexpected data")
	}

	if err := v.Close(); err != nil {
		t.Errorf("Volume.Close() error = %v", err)
	}
	if err := v.Close(); err != nil {
		t.Errorf("second Volume.Close() error = %v", err)
	}

	if _, err := Open(fs, "/images/missing.img"); !errors.Is(err, ErrOpenImage) {
		t.Errorf("Open() of a missing image error = %v, want ErrOpenImage", err)
	}
	if _, err := Open(fs, "/images/broken.img"); !errors.Is(err, ErrReadBootSector) {
		t.Errorf("Open() of a broken image error = %v, want ErrReadBootSector", err)
	}
}
