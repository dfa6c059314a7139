package exifmeta

import (
	"bytes"
	"encoding/binary"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}

// pngExif returns the TIFF payload of the eXIf chunk, or nil when data is
// not a PNG or carries none. Chunk CRCs are not checked.
func pngExif(data []byte) []byte {
	if !bytes.HasPrefix(data, pngSignature) {
		return nil
	}
	rest := data[len(pngSignature):]
	for len(rest) >= 12 {
		n := binary.BigEndian.Uint32(rest[:4])
		typ := string(rest[4:8])
		if uint64(n) > uint64(len(rest)-12) {
			return nil
		}
		body := rest[8 : 8+n]
		switch typ {
		case "eXIf":
			return body
		case "IEND":
			return nil
		}
		rest = rest[12+n:]
	}
	return nil
}
