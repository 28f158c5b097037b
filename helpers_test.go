package fat12

import (
	"bytes"
	"io"
	"testing"

	"github.com/aligator/fat12/fat12test"
)

// testFile is the two cluster file used by most tests.
var testFile = fat12test.File{
	Name: "TEST    TXT",
	Data: append(bytes.Repeat([]byte("0123456789abcdef"), 64), []byte("the second cluster\x00\n")...),
}

func buildImage(t *testing.T, img fat12test.Image) []byte {
	t.Helper()
	data, err := img.Build()
	if err != nil {
		t.Fatal(err)
	}
	return data
}

// smallImage returns a small image containing the given files.
func smallImage(t *testing.T, files ...fat12test.File) []byte {
	t.Helper()
	img := fat12test.Small()
	img.Files = files
	return buildImage(t, img)
}

func testingNew(t *testing.T, reader io.ReadSeeker, opts ...Option) *Volume {
	t.Helper()
	v, err := New(reader, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func name11(s string) [11]byte {
	var n [11]byte
	copy(n[:], s)
	return n
}

// countingReader counts the seeks, which is one for each readSectors call.
type countingReader struct {
	io.ReadSeeker
	seeks int
}

func (c *countingReader) Seek(offset int64, whence int) (int64, error) {
	c.seeks++
	return c.ReadSeeker.Seek(offset, whence)
}
