package exifmeta

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"math/rand"
	"testing"

	"github.com/templui/campus-collector/internal/exifmeta/exiftest"
)

func exifJPEG(camera, gps []exiftest.Entry) []byte {
	return exiftest.JPEG(exiftest.TIFF(camera, gps))
}

func gpsEntries(withLat, withLng bool) []exiftest.Entry {
	return exiftest.GPS(withLat, withLng)
}

func cameraEntries(focal [2]uint32) []exiftest.Entry {
	return exiftest.Camera(focal[0], focal[1])
}

func plainJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		img.Set(x, x, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	err := jpeg.Encode(&buf, img, nil)
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestExtractGPSAndFocalLength(t *testing.T) {
	data := exifJPEG(cameraEntries([2]uint32{425, 100}), gpsEntries(true, true))

	meta := Extract(data)
	if meta.Location == nil {
		t.Fatal("expect location")
	}
	if math.Abs(meta.Location.Latitude-34.125) > 1e-9 {
		t.Errorf("expect latitude 34.125, got %f", meta.Location.Latitude)
	}
	if math.Abs(meta.Location.Longitude+108.9) > 1e-9 {
		t.Errorf("expect longitude -108.9, got %f", meta.Location.Longitude)
	}
	if meta.FocalLength == nil || *meta.FocalLength != 4.25 {
		t.Errorf("expect focal length 4.25, got %v", meta.FocalLength)
	}
}

func TestExtractSingleCoordinateIsAbsent(t *testing.T) {
	tests := []struct {
		name    string
		withLat bool
		withLng bool
	}{
		{"latitude only", true, false},
		{"longitude only", false, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			meta := Extract(exifJPEG(cameraEntries([2]uint32{50, 1}), gpsEntries(test.withLat, test.withLng)))
			if meta.Location != nil {
				t.Errorf("expect no location, got %+v", *meta.Location)
			}
			if meta.FocalLength == nil || *meta.FocalLength != 50 {
				t.Errorf("expect focal length 50, got %v", meta.FocalLength)
			}
		})
	}
}

func TestExtractFocalLengthOnly(t *testing.T) {
	meta := Extract(exifJPEG(cameraEntries([2]uint32{35, 1}), nil))
	if meta.Location != nil {
		t.Errorf("expect no location, got %+v", *meta.Location)
	}
	if meta.FocalLength == nil || *meta.FocalLength != 35 {
		t.Errorf("expect focal length 35, got %v", meta.FocalLength)
	}
}

func TestExtractZeroDenominatorFocalLength(t *testing.T) {
	meta := Extract(exifJPEG(cameraEntries([2]uint32{35, 0}), gpsEntries(true, true)))
	if meta.FocalLength != nil {
		t.Errorf("expect no focal length, got %f", *meta.FocalLength)
	}
	if meta.Location == nil {
		t.Error("expect location")
	}
}

func TestExtractIsTotal(t *testing.T) {
	valid := exifJPEG(cameraEntries([2]uint32{24, 1}), gpsEntries(true, true))
	random := make([]byte, 4096)
	rand.New(rand.NewSource(1)).Read(random)

	inputs := map[string][]byte{
		"nil":               nil,
		"empty":             {},
		"jpeg without exif": plainJPEG(t),
		"truncated exif":    valid[:len(valid)/2],
		"corrupted exif":    corrupt(valid),
		"soi only":          {0xFF, 0xD8},
		"random bytes":      random,
		"text":              []byte("definitely not an image"),
		"png signature":     {0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'},
	}
	for name, data := range inputs {
		t.Run(name, func(t *testing.T) {
			meta := Extract(data)
			if loc := meta.Location; loc != nil {
				if !finite(loc.Latitude) || !finite(loc.Longitude) {
					t.Errorf("expect finite pair, got %+v", *loc)
				}
			}
		})
	}
}

func TestExtractNoExifIsAbsent(t *testing.T) {
	meta := Extract(plainJPEG(t))
	if meta.Location != nil || meta.FocalLength != nil {
		t.Errorf("expect all absent, got %+v", meta)
	}
}

func corrupt(data []byte) []byte {
	out := append([]byte(nil), data...)
	// Point the IFD0 offset far outside the buffer.
	tiffStart := 4 + 2 + 6
	binary.LittleEndian.PutUint32(out[tiffStart+4:], 0xFFFFFF00)
	return out
}

func TestExtractPNG(t *testing.T) {
	data := exiftest.PNG(exiftest.TIFF(exiftest.Camera(35, 1), exiftest.GPS(true, true)))

	meta := Extract(data)
	if meta.Location == nil {
		t.Fatal("expect location")
	}
	if math.Abs(meta.Location.Latitude-exiftest.Latitude) > 1e-9 || math.Abs(meta.Location.Longitude-exiftest.Longitude) > 1e-9 {
		t.Errorf("expect %f,%f, got %+v", exiftest.Latitude, exiftest.Longitude, *meta.Location)
	}
	if meta.FocalLength == nil || *meta.FocalLength != 35 {
		t.Errorf("expect focal length 35, got %v", meta.FocalLength)
	}
}

func plainPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4)))
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestExtractPNGWithoutExif(t *testing.T) {
	tests := map[string][]byte{
		"no exif chunk":      plainPNG(t),
		"empty exif chunk":   exiftest.PNG(nil),
		"signature and iend": exiftest.AppendChunk(append([]byte(nil), pngSignature...), "IEND", nil),
		"oversized chunk":    append(append([]byte(nil), pngSignature...), 0xFF, 0xFF, 0xFF, 0xF0, 'e', 'X', 'I', 'f', 0, 0, 0, 0),
		"truncated exif":     exiftest.PNG(exiftest.TIFF(nil, exiftest.GPS(true, true)))[:60],
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			meta := Extract(data)
			if meta.Location != nil || meta.FocalLength != nil {
				t.Errorf("expect all absent, got %+v", meta)
			}
		})
	}
}
