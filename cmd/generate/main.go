package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aligator/fat12/fat12test"
	"github.com/spf13/afero"
)

// main for generating a floppy image to play with fat12cat and the example.
// Writes testdata/floppy.img or the path given as first argument.
func main() {
	dest := filepath.Join("testdata", "floppy.img")
	if len(os.Args) > 1 {
		dest = os.Args[1]
	}

	img := fat12test.Floppy()
	img.Label = "GOFAT12"
	img.Files = []fat12test.File{
		{
			Name:         "README  TXT",
			Data:         []byte("Hello World!\nThis file was read from a FAT12 image.\n"),
			ModifiedDate: 0x5A21, // 2025-01-01
			ModifiedTime: 0x6000, // 12:00:00
		},
		{
			// Spread over non consecutive clusters.
			Name:     "NUMBERS BIN",
			Data:     bytes.Repeat([]byte{0, 1, 2, 3, 4, 5, 6, 7}, 192),
			Clusters: []uint16{10, 4, 7},
		},
		{
			Name: "EMPTY   TXT",
		},
		{
			Name:       "SUBDIR     ",
			Attributes: 0x10,
		},
	}

	data, err := img.Build()
	if err != nil {
		panic(err)
	}

	fs := afero.NewOsFs()
	if err := fs.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		panic(err)
	}
	if err := afero.WriteFile(fs, dest, data, 0644); err != nil {
		panic(err)
	}

	fmt.Println("wrote", dest)
}
