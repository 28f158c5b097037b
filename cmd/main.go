package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aligator/fat12"
	"github.com/aligator/fat12/checkpoint"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Exit codes, one for each stage which may fail.
const (
	exitOK = iota
	exitUsage
	exitOpenImage
	exitBootSector
	exitFAT
	exitRootDir
	exitNotFound
	exitReadFile
	exitWrite
)

var stageExitCodes = []struct {
	err  error
	code int
}{
	{fat12.ErrOpenImage, exitOpenImage},
	{fat12.ErrReadBootSector, exitBootSector},
	{fat12.ErrReadFAT, exitFAT},
	{fat12.ErrReadRootDir, exitRootDir},
	{fat12.ErrFileNotFound, exitNotFound},
	{fat12.ErrReadFile, exitReadFile},
}

func main() {
	os.Exit(run(os.Args[1:], afero.NewOsFs(), os.Stdout, os.Stderr))
}

// run extracts a single file from the root directory of a FAT12 image and returns the exit code.
func run(args []string, base afero.Fs, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("fat12cat", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	raw := flags.Bool("raw", false, "write the file content without escaping non-printable bytes")
	skipChecks := flags.Bool("skip-checks", false, "only validate the boot sector as far as needed to read it safely")
	verbose := flags.BoolP("verbose", "v", false, "log each loading stage")
	flags.Usage = func() {
		fmt.Fprintln(stderr, "Usage: fat12cat [flags] <disk image> <file name>")
		fmt.Fprintln(stderr, `The file name is either the padded 8.3 name as stored ("TEST    TXT") or "test.txt".`)
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return exitUsage
	}
	if flags.NArg() != 2 {
		flags.Usage()
		return exitUsage
	}
	imagePath, fileName := flags.Arg(0), flags.Arg(1)

	log := newLogger(stderr, *verbose)
	defer func() { _ = log.Sync() }()

	name, err := shortName(fileName)
	if err != nil {
		log.Error(checkpoint.Message(err))
		return exitUsage
	}

	opts := []fat12.Option{fat12.WithLogger(log)}
	if *skipChecks {
		opts = append(opts, fat12.SkipChecks())
	}

	volume, err := fat12.Open(base, imagePath, opts...)
	if err != nil {
		return fail(log, err)
	}
	defer volume.Close()

	data, err := volume.Extract(name)
	if err != nil {
		return fail(log, err)
	}
	log.Debug("extracted file", zap.String("name", fileName), zap.Int("size", len(data)))

	if *raw {
		_, err = stdout.Write(data)
	} else {
		err = fat12.WritePrintable(stdout, data)
	}
	if err != nil {
		log.Error("could not write the file content", zap.Error(err))
		return exitWrite
	}

	return exitOK
}

// shortName uses padded names of exactly 11 bytes as they are and converts everything else.
// A padded name never contains a dot, so "readme1.txt" is still converted.
func shortName(name string) ([11]byte, error) {
	var short [11]byte
	if len(name) == len(short) && !strings.Contains(name, ".") {
		copy(short[:], name)
		return short, nil
	}

	return fat12.ShortName(name)
}

func fail(log *zap.Logger, err error) int {
	log.Error(checkpoint.Message(err))
	log.Debug("error trace", zap.Error(err))

	for _, stage := range stageExitCodes {
		if errors.Is(err, stage.err) {
			return stage.code
		}
	}
	return exitReadFile
}

func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), level)

	return zap.New(core)
}
