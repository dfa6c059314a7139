package model

import (
	"database/sql"
	"time"
)

type Photo struct {
	ID            int64           `db:"id"`
	University    string          `db:"university"` // Collection identifier
	Filename      string          `db:"filename"`   // Generated, unique
	OriginalName  string          `db:"original_name"`
	Description   sql.NullString  `db:"description"`
	FileSize      int64           `db:"file_size"`
	MimeType      string          `db:"mime_type"` // Declared, not sniffed
	PhotoTime     sql.NullString  `db:"photo_time"`
	PhotoSeason   sql.NullString  `db:"photo_season"`
	PhotoWeather  sql.NullString  `db:"photo_weather"`
	PhotoLocation sql.NullString  `db:"photo_location"`
	PhotoStyle    sql.NullString  `db:"photo_style"`
	Latitude      sql.NullFloat64 `db:"latitude"`
	Longitude     sql.NullFloat64 `db:"longitude"`
	FocalLength   sql.NullFloat64 `db:"focal_length"` // Millimeters
	UploadedAt    time.Time       `db:"uploaded_at"`
}

// GeoPoint is a latitude/longitude pair. A photo either has a full pair or none.
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

// SetLocation stores both coordinates, or clears both when p is nil.
func (p *Photo) SetLocation(g *GeoPoint) {
	if g == nil {
		p.Latitude = sql.NullFloat64{}
		p.Longitude = sql.NullFloat64{}
		return
	}
	p.Latitude = sql.NullFloat64{Float64: g.Latitude, Valid: true}
	p.Longitude = sql.NullFloat64{Float64: g.Longitude, Valid: true}
}

// Location returns the stored pair, or nil unless both coordinates are set.
func (p *Photo) Location() *GeoPoint {
	if !p.Latitude.Valid || !p.Longitude.Valid {
		return nil
	}
	return &GeoPoint{Latitude: p.Latitude.Float64, Longitude: p.Longitude.Float64}
}

// PhotoMetadata holds the five optional enumerated fields of a photo.
type PhotoMetadata struct {
	Time     string
	Season   string
	Weather  string
	Location string
	Style    string
}

// SetMetadata copies the enumerated fields, treating empty strings as absent.
func (p *Photo) SetMetadata(m PhotoMetadata) {
	p.PhotoTime = NullString(m.Time)
	p.PhotoSeason = NullString(m.Season)
	p.PhotoWeather = NullString(m.Weather)
	p.PhotoLocation = NullString(m.Location)
	p.PhotoStyle = NullString(m.Style)
}

func NullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func NullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

// OffVocabulary returns "field=value" for every stored enumerated field whose
// value is not in its vocabulary. Values are stored as submitted, so a
// catalog can hold such rows.
func (p *Photo) OffVocabulary() []string {
	fields := []struct {
		vocab Vocabulary
		value sql.NullString
	}{
		{PhotoTimes, p.PhotoTime},
		{PhotoSeasons, p.PhotoSeason},
		{PhotoWeathers, p.PhotoWeather},
		{PhotoLocations, p.PhotoLocation},
		{PhotoStyles, p.PhotoStyle},
	}
	var out []string
	for _, f := range fields {
		if f.value.Valid && !f.vocab.Contains(f.value.String) {
			out = append(out, f.vocab.Field+"="+f.value.String)
		}
	}
	return out
}
