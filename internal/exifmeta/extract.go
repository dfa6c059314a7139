// Package exifmeta recovers the optional location and focal length a camera
// embeds in a photo. It never fails: anything it cannot read is reported as absent.
package exifmeta

import (
	"bytes"
	"log/slog"
	"math"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/templui/campus-collector/internal/model"
)

// Embedded is what could be recovered from the image bytes.
type Embedded struct {
	Location    *model.GeoPoint // nil unless both coordinates were read
	FocalLength *float64        // millimeters, nil when absent
}

// Extract reads GPS and camera tags from raw JPEG or PNG bytes.
// Malformed, truncated, empty or non-image input yields the zero value.
func Extract(data []byte) (meta Embedded) {
	if len(data) == 0 {
		return Embedded{}
	}

	// goexif can panic on hostile offsets
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("exif decoder panicked", "panic", r)
			meta = Embedded{}
		}
	}()

	// PNG keeps a bare TIFF block in its eXIf chunk, which goexif reads directly
	if tiff := pngExif(data); len(tiff) > 0 {
		data = tiff
	}

	x, err := exif.Decode(bytes.NewReader(data))
	if x == nil {
		slog.Debug("no exif data", "error", err)
		return Embedded{}
	}
	// A parser error after the main directory still leaves usable tags.

	return Embedded{
		Location:    location(x),
		FocalLength: focalLength(x),
	}
}

func location(x *exif.Exif) *model.GeoPoint {
	lat, lng, err := x.LatLong()
	if err != nil {
		return nil
	}
	if !finite(lat) || !finite(lng) || math.Abs(lat) > 90 || math.Abs(lng) > 180 {
		return nil
	}
	return &model.GeoPoint{Latitude: lat, Longitude: lng}
}

func focalLength(x *exif.Exif) *float64 {
	tag, err := x.Get(exif.FocalLength)
	if err != nil {
		return nil
	}
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		return nil
	}
	f := float64(num) / float64(den)
	if !finite(f) || f <= 0 {
		return nil
	}
	return &f
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
