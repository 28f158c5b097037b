package fat12

import (
	"bufio"
	"fmt"
	"io"

	"github.com/aligator/fat12/checkpoint"
)

// WritePrintable writes p to w as text followed by a newline.
// Printable ASCII characters are written as they are, every other byte as "<xx>" in lower case hex.
func WritePrintable(w io.Writer, p []byte) error {
	bw := bufio.NewWriter(w)
	for _, b := range p {
		if b >= 0x20 && b <= 0x7E {
			_ = bw.WriteByte(b)
			continue
		}
		_, _ = fmt.Fprintf(bw, "<%02x>", b)
	}
	_ = bw.WriteByte('\n')

	// bufio keeps the first error and returns it again on Flush.
	return checkpoint.From(bw.Flush())
}
