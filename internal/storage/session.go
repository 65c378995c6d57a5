package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lotas/fenster/internal/types"
	"github.com/pierrec/lz4/v4"
)

// Session snapshot file: 8-byte magic + 4-byte LE uint32 uncompressed size
// + one lz4 block of JSON. Same framing Firefox uses for its session files.
var sessionMagic = []byte("fenLz40\x00")

const sessionFile = "session.jsonlz4"

// CompressSession encodes a snapshot into the compressed file format.
func CompressSession(snap *types.SessionSnapshot) ([]byte, error) {
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}

	buf := make([]byte, lz4.CompressBlockBound(len(raw)))
	n, err := lz4.CompressBlock(raw, buf, nil)
	if err != nil {
		return nil, fmt.Errorf("compress session: %w", err)
	}
	block := buf[:n]
	if n == 0 {
		// lz4 reports incompressible input as a zero-length block. A tiny
		// session hits this; store it as a literal-only block instead.
		block = literalBlock(raw)
	}

	out := make([]byte, 0, len(sessionMagic)+4+len(block))
	out = append(out, sessionMagic...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(raw)))
	out = append(out, block...)
	return out, nil
}

// literalBlock encodes src as one lz4 sequence of literals with no match,
// which is a valid final sequence in the block format.
func literalBlock(src []byte) []byte {
	n := len(src)
	out := make([]byte, 0, n+n/255+2)
	if n < 15 {
		out = append(out, byte(n)<<4)
	} else {
		out = append(out, 0xF0)
		for rem := n - 15; ; rem -= 255 {
			if rem < 255 {
				out = append(out, byte(rem))
				break
			}
			out = append(out, 255)
		}
	}
	return append(out, src...)
}

// DecompressSession decodes a snapshot from the compressed file format.
func DecompressSession(data []byte) (*types.SessionSnapshot, error) {
	const headerSize = 12 // 8 magic + 4 size

	if len(data) < headerSize {
		return nil, fmt.Errorf("session file: data too short (%d bytes)", len(data))
	}
	for i := 0; i < len(sessionMagic); i++ {
		if data[i] != sessionMagic[i] {
			return nil, fmt.Errorf("session file: invalid header magic")
		}
	}

	uncompressedSize := binary.LittleEndian.Uint32(data[8:12])
	dst := make([]byte, uncompressedSize)
	n, err := lz4.UncompressBlock(data[headerSize:], dst)
	if err != nil {
		return nil, fmt.Errorf("session file: decompress failed: %w", err)
	}

	var snap types.SessionSnapshot
	if err := json.Unmarshal(dst[:n], &snap); err != nil {
		return nil, fmt.Errorf("session file: parse: %w", err)
	}
	return &snap, nil
}

// SaveSession writes the snapshot to dir atomically (write temp, rename).
func SaveSession(dir string, snap *types.SessionSnapshot) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	snap.SavedAt = time.Now()
	data, err := CompressSession(snap)
	if err != nil {
		return err
	}
	path := filepath.Join(dir, sessionFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename session file: %w", err)
	}
	return nil
}

// LoadSession reads the snapshot from dir. Returns nil, nil if no snapshot
// has been saved yet.
func LoadSession(dir string) (*types.SessionSnapshot, error) {
	data, err := os.ReadFile(filepath.Join(dir, sessionFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	return DecompressSession(data)
}
