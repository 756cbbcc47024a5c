package disassembler

import (
	"fmt"
	"strings"
)

const bytesPerLine = 16

// formatData lists bytes as comment lines, 16 bytes per line, so the listing
// still assembles.
func formatData(data []byte, baseAddr int) string {
	if len(data) == 0 {
		return ""
	}

	var sb strings.Builder
	for i := 0; i < len(data); i += bytesPerLine {
		end := min(i+bytesPerLine, len(data))
		fmt.Fprintf(&sb, "; %04X: db %s\n", baseAddr+i, hexBytes(data[i:end]))
	}
	return sb.String()
}

func hexBytes(b []byte) string {
	parts := make([]string, len(b))
	for i, c := range b {
		parts[i] = fmt.Sprintf("$%02x", c)
	}
	return strings.Join(parts, ",")
}
