package pdfdoc

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// decodeText converts a PDF string object into a Go string.
// Literal and hex strings are accepted, both in PDFDocEncoding or UTF-16BE with BOM.
func decodeText(obj types.Object) (string, error) {
	switch v := obj.(type) {
	case types.StringLiteral:
		return types.StringLiteralToString(v)
	case types.HexLiteral:
		return types.HexLiteralToString(v)
	default:
		return "", fmt.Errorf("expected a string, got %T", obj)
	}
}

// encodeText converts s into a PDF text string object.
// Printable ASCII is written as an escaped literal, anything else as UTF-16BE hex.
func encodeText(s string) (types.Object, error) {
	if isPrintableASCII(s) {
		escaped, err := types.Escape(s)
		if err != nil {
			return nil, fmt.Errorf("failed to escape %q: %w", s, err)
		}
		return types.StringLiteral(*escaped), nil
	}
	return types.NewHexLiteral([]byte(types.EncodeUTF16String(s))), nil
}

// isPrintableASCII reports whether every byte of s is in 0x20..0x7e.
func isPrintableASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			return false
		}
	}
	return true
}
