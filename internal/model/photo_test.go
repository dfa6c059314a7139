package model

import (
	"slices"
	"testing"
)

func TestOffVocabulary(t *testing.T) {
	tests := []struct {
		name     string
		metadata PhotoMetadata
		expected []string
	}{
		{"all absent", PhotoMetadata{}, nil},
		{"all known", PhotoMetadata{Time: "dusk", Season: "winter", Weather: "snowy", Location: "gate", Style: "aerial"}, nil},
		{"unknown values", PhotoMetadata{Time: "midnight", Season: "spring", Style: "Landscape"}, []string{"photo_time=midnight", "photo_style=Landscape"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var p Photo
			p.SetMetadata(test.metadata)
			got := p.OffVocabulary()
			if !slices.Equal(got, test.expected) {
				t.Errorf("expect %v, got %v", test.expected, got)
			}
		})
	}
}

func TestSetLocation(t *testing.T) {
	var p Photo
	p.SetLocation(&GeoPoint{Latitude: 51.45, Longitude: -2.6})
	if loc := p.Location(); loc == nil || loc.Latitude != 51.45 || loc.Longitude != -2.6 {
		t.Errorf("expect stored pair, got %v", loc)
	}

	p.SetLocation(nil)
	if p.Latitude.Valid || p.Longitude.Valid || p.Location() != nil {
		t.Errorf("expect cleared pair, got %+v %+v", p.Latitude, p.Longitude)
	}
}
