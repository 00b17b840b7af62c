package reporting

import (
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"
)

// EncodeArchive writes a snapshot as msgpack
func EncodeArchive(w io.Writer, s Snapshot) error {
	if err := msgpack.NewEncoder(w).Encode(&s); err != nil {
		return fmt.Errorf("encode archive: %w", err)
	}
	return nil
}

// DecodeArchive reads a msgpack snapshot
func DecodeArchive(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := msgpack.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("decode archive: %w", err)
	}
	return s, nil
}

// ReadArchive loads a snapshot written by Writer.WriteAll
func ReadArchive(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("open archive %s: %w", path, err)
	}
	defer f.Close()
	return DecodeArchive(f)
}
