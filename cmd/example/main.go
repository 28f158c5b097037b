package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aligator/fat12"
	"github.com/spf13/afero"
)

// main is just a example main which lists the root directory of a FAT12 image.
func main() {
	argsWithoutProg := os.Args[1:]
	if len(argsWithoutProg) <= 0 {
		fmt.Println("Please provide a filename.")
		os.Exit(1)
	}

	fat, volume, err := fat12.OpenFs(afero.NewOsFs(), argsWithoutProg[0])
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer volume.Close()

	fmt.Printf("Opened volume '%v' with %v data clusters of %v bytes\n\n",
		volume.Label(), volume.ClusterCount(), volume.BootSector().ClusterSize())

	err = afero.Walk(fat, "", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == "" {
			return nil
		}

		fmt.Printf("%-12s %10d %v\n", path, info.Size(), info.ModTime().Format("2006-01-02 15:04:05"))

		// Subdirectories can not be opened.
		if info.IsDir() {
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
