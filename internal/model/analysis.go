package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Language is one of the two supported working languages.
type Language string

const (
	LanguageChinese Language = "zh"
	LanguageEnglish Language = "en"
)

// Analysis is the inferred metadata for one image. It is never persisted.
// Values are passed through as the model returned them.
type Analysis struct {
	PhotoTime     string     `json:"photo_time"`
	PhotoSeason   string     `json:"photo_season"`
	PhotoWeather  string     `json:"photo_weather"`
	PhotoLocation string     `json:"photo_location"`
	PhotoStyle    string     `json:"photo_style"`
	Confidence    Confidence `json:"confidence"` // Intended 0-100, not enforced
	Reasoning     string     `json:"reasoning"`
}

// Confidence is an integer score. Models sometimes answer 80.0 or "80",
// both are accepted and rounded. Values beyond int32 are rejected.
type Confidence int

func (c *Confidence) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*c = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		err := json.Unmarshal(b, &s)
		if err != nil {
			return err
		}
		b = []byte(s)
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("invalid confidence %q", b)
	}
	f = math.Round(f)
	if f > math.MaxInt32 || f < math.MinInt32 {
		return fmt.Errorf("confidence %q out of range", b)
	}
	*c = Confidence(f)
	return nil
}
