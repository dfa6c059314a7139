// Package exiftest builds small images carrying hand-assembled EXIF blocks
// for tests that need geotagged input.
package exiftest

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
)

// Entry is one TIFF directory entry.
type Entry struct {
	Tag   uint16
	Type  uint16
	Count uint32
	Value []byte
}

const (
	TypeASCII    = 2
	TypeLong     = 4
	TypeRational = 5
)

// Coordinates written by GPS: 34°7'30"N, 108°54'0"W.
const (
	Latitude  = 34.125
	Longitude = -108.9
)

func Rationals(vals ...[2]uint32) []byte {
	var out []byte
	for _, v := range vals {
		out = binary.LittleEndian.AppendUint32(out, v[0])
		out = binary.LittleEndian.AppendUint32(out, v[1])
	}
	return out
}

// GPS returns GPS directory entries for Latitude and Longitude.
func GPS(withLat, withLng bool) []Entry {
	var entries []Entry
	if withLat {
		entries = append(entries,
			Entry{Tag: 0x1, Type: TypeASCII, Count: 2, Value: []byte("N\x00")},
			Entry{Tag: 0x2, Type: TypeRational, Count: 3, Value: Rationals([2]uint32{34, 1}, [2]uint32{7, 1}, [2]uint32{30, 1})},
		)
	}
	if withLng {
		entries = append(entries,
			Entry{Tag: 0x3, Type: TypeASCII, Count: 2, Value: []byte("W\x00")},
			Entry{Tag: 0x4, Type: TypeRational, Count: 3, Value: Rationals([2]uint32{108, 1}, [2]uint32{54, 1}, [2]uint32{0, 1})},
		)
	}
	return entries
}

// Camera returns an EXIF sub-directory holding only a focal length of num/den mm.
func Camera(num, den uint32) []Entry {
	return []Entry{
		{Tag: 0x920A, Type: TypeRational, Count: 1, Value: Rationals([2]uint32{num, den})},
	}
}

func ifdSize(entries []Entry) uint32 {
	if len(entries) == 0 {
		return 0
	}
	n := uint32(2 + 12*len(entries) + 4)
	for _, e := range entries {
		if len(e.Value) > 4 {
			n += uint32(len(e.Value))
		}
	}
	return n
}

func appendIFD(out []byte, entries []Entry) []byte {
	if len(entries) == 0 {
		return out
	}
	le := binary.LittleEndian
	dataOff := uint32(len(out)) + uint32(2+12*len(entries)+4)
	var data []byte
	out = le.AppendUint16(out, uint16(len(entries)))
	for _, e := range entries {
		out = le.AppendUint16(out, e.Tag)
		out = le.AppendUint16(out, e.Type)
		out = le.AppendUint32(out, e.Count)
		if len(e.Value) <= 4 {
			v := make([]byte, 4)
			copy(v, e.Value)
			out = append(out, v...)
			continue
		}
		out = le.AppendUint32(out, dataOff+uint32(len(data)))
		data = append(data, e.Value...)
	}
	out = le.AppendUint32(out, 0)
	return append(out, data...)
}

// TIFF assembles a little-endian TIFF block whose IFD0 points at the given
// camera and GPS directories. A nil directory is left out.
func TIFF(camera, gps []Entry) []byte {
	var ifd0 []Entry
	if camera != nil {
		ifd0 = append(ifd0, Entry{Tag: 0x8769, Type: TypeLong, Count: 1})
	}
	if gps != nil {
		ifd0 = append(ifd0, Entry{Tag: 0x8825, Type: TypeLong, Count: 1})
	}
	cameraOff := 8 + ifdSize(ifd0)
	gpsOff := cameraOff + ifdSize(camera)
	for i := range ifd0 {
		off := cameraOff
		if ifd0[i].Tag == 0x8825 {
			off = gpsOff
		}
		ifd0[i].Value = binary.LittleEndian.AppendUint32(nil, off)
	}

	out := []byte{'I', 'I', 42, 0, 8, 0, 0, 0}
	out = appendIFD(out, ifd0)
	out = appendIFD(out, camera)
	return appendIFD(out, gps)
}

// JPEG wraps tiff in an APP1 segment between SOI and EOI.
func JPEG(tiff []byte) []byte {
	payload := append([]byte("Exif\x00\x00"), tiff...)
	out := []byte{0xFF, 0xD8, 0xFF, 0xE1}
	out = binary.BigEndian.AppendUint16(out, uint16(len(payload)+2))
	out = append(out, payload...)
	return append(out, 0xFF, 0xD9)
}

// PNG encodes a small image and inserts tiff as an eXIf chunk after IHDR.
func PNG(tiff []byte) []byte {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{G: 200, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	encoded := buf.Bytes()

	// Signature (8) + IHDR chunk (4 length + 4 type + 13 data + 4 crc).
	split := 8 + 25
	out := append([]byte(nil), encoded[:split]...)
	out = AppendChunk(out, "eXIf", tiff)
	return append(out, encoded[split:]...)
}

// AppendChunk appends a PNG chunk with a valid CRC.
func AppendChunk(out []byte, typ string, data []byte) []byte {
	out = binary.BigEndian.AppendUint32(out, uint32(len(data)))
	start := len(out)
	out = append(out, typ...)
	out = append(out, data...)
	return binary.BigEndian.AppendUint32(out, crc32.ChecksumIEEE(out[start:]))
}
