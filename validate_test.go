package wpblock

import (
	"bytes"
	"testing"
)

func TestValidateInputRejectsInvalidUTF8(t *testing.T) {
	data := []byte{0xff, 0xfe, 0xfd}
	if err := ValidateInput(data); err != ErrInvalidUTF8 {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}
}

func TestValidateInputRejectsBinary(t *testing.T) {
	data := append([]byte("hello"), 0x00)
	if err := ValidateInput(data); err != ErrBinaryInput {
		t.Fatalf("expected ErrBinaryInput, got %v", err)
	}
}

func TestValidateInputControlRatio(t *testing.T) {
	noisy := append(bytes.Repeat([]byte("a"), 62), 0x01, 0x02)
	if err := ValidateInput(noisy); err != ErrBinaryInput {
		t.Fatalf("expected ErrBinaryInput for control-heavy input, got %v", err)
	}
	text := append(bytes.Repeat([]byte("a\t\r\n"), 25), 0x1b)
	if err := ValidateInput(text); err != nil {
		t.Fatalf("expected text to pass, got %v", err)
	}
	if err := ValidateInput([]byte{0x01}); err != nil {
		t.Fatalf("short samples skip the ratio check, got %v", err)
	}
}

func TestParseBytes(t *testing.T) {
	if _, err := ParseBytes([]byte{0x00}); err != ErrBinaryInput {
		t.Fatalf("expected ErrBinaryInput, got %v", err)
	}
	tree, err := ParseBytes([]byte(spacerDoc))
	if err != nil || tree.Size() != 1 {
		t.Fatalf("unexpected parse result: %v", err)
	}
}
