package fat12

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func Test_sectorReader_readSectors(t *testing.T) {
	// 4 sectors of 16 bytes, each filled with its own number.
	image := make([]byte, 64)
	for i := range image {
		image[i] = byte(i / 16)
	}

	type args struct {
		lba   uint32
		count uint32
		dst   []byte
	}
	tests := []struct {
		name    string
		image   []byte
		args    args
		want    []byte
		wantErr error
	}{
		{
			name:  "single sector",
			image: image,
			args:  args{lba: 1, count: 1, dst: make([]byte, 16)},
			want:  bytes.Repeat([]byte{1}, 16),
		},
		{
			name:  "last two sectors",
			image: image,
			args:  args{lba: 2, count: 2, dst: make([]byte, 32)},
			want:  append(bytes.Repeat([]byte{2}, 16), bytes.Repeat([]byte{3}, 16)...),
		},
		{
			name:  "larger buffer is only filled partially",
			image: image,
			args:  args{lba: 0, count: 1, dst: make([]byte, 20)},
			want:  append(bytes.Repeat([]byte{0}, 16), 0, 0, 0, 0),
		},
		{
			name:    "read beyond the end of a truncated image",
			image:   image[:56],
			args:    args{lba: 3, count: 1, dst: make([]byte, 16)},
			wantErr: ErrIO,
		},
		{
			name:    "start beyond the end",
			image:   image,
			args:    args{lba: 4, count: 1, dst: make([]byte, 16)},
			wantErr: ErrIO,
		},
		{
			name:    "buffer too small",
			image:   image,
			args:    args{lba: 0, count: 2, dst: make([]byte, 16)},
			wantErr: ErrIO,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sectorReader{
				reader:         bytes.NewReader(tt.image),
				bytesPerSector: 16,
			}
			err := s.readSectors(tt.args.lba, tt.args.count, tt.args.dst)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("sectorReader.readSectors() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if diff := cmp.Diff(tt.want, tt.args.dst); diff != "" {
				t.Errorf("sectorReader.readSectors() unexpected buffer (-want +got):\n%s", diff)
			}
		})
	}
}

func Test_sectorReader_truncatedIsUnexpectedEOF(t *testing.T) {
	s := sectorReader{
		reader:         bytes.NewReader(make([]byte, 10)),
		bytesPerSector: 16,
	}
	err := s.readSectors(0, 1, make([]byte, 16))
	if !errors.Is(err, ErrIO) || !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("sectorReader.readSectors() error = %v, want ErrIO and io.ErrUnexpectedEOF", err)
	}
}
