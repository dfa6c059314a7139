// Package naming generates collision-resistant storage filenames.
package naming

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// Generator builds names of the form {collection}_{epochMillis}_{32 hex}{ext}.
type Generator struct {
	Now     func() time.Time
	Entropy io.Reader
}

// New returns a Generator backed by the wall clock and crypto/rand.
func New() *Generator {
	return &Generator{
		Now:     time.Now,
		Entropy: rand.Reader,
	}
}

// Name returns a unique filename for a photo uploaded to collection.
// The extension is taken from originalName and lowercased; a missing
// extension passes through as empty.
func (g *Generator) Name(collection, originalName string) (string, error) {
	b := make([]byte, 16) // 128 bits
	_, err := io.ReadFull(g.Entropy, b)
	if err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%s_%d_%s%s", collection, g.Now().UnixMilli(), hex.EncodeToString(b), ext), nil
}
