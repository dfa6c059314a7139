package model

import "slices"

// Collections
const (
	CollectionXidian  = "xidian"
	CollectionXSYU    = "xsyu"
	CollectionXAUT    = "xaut"
	CollectionBristol = "bristol"
)

var Collections = []string{
	CollectionXidian,
	CollectionXSYU,
	CollectionXAUT,
	CollectionBristol,
}

func IsCollection(id string) bool {
	return slices.Contains(Collections, id)
}

// Vocabulary is the closed set of values for one enumerated photo field.
type Vocabulary struct {
	Field  string // Form and JSON key, e.g. "photo_time"
	Values []string
}

func (v Vocabulary) Contains(value string) bool {
	return slices.Contains(v.Values, value)
}

var (
	PhotoTimes = Vocabulary{
		Field:  "photo_time",
		Values: []string{"dawn", "morning", "noon", "afternoon", "dusk", "night"},
	}
	PhotoSeasons = Vocabulary{
		Field:  "photo_season",
		Values: []string{"spring", "summer", "autumn", "winter"},
	}
	PhotoWeathers = Vocabulary{
		Field:  "photo_weather",
		Values: []string{"sunny", "cloudy", "overcast", "rainy", "snowy"},
	}
	PhotoLocations = Vocabulary{
		Field: "photo_location",
		Values: []string{
			"teaching_building",
			"library",
			"gymnasium",
			"playground",
			"canteen",
			"dormitory",
			"gate",
			"square",
			"laboratory",
			"other",
		},
	}
	PhotoStyles = Vocabulary{
		Field:  "photo_style",
		Values: []string{"landscape", "architecture", "night", "aerial"},
	}
)

// Vocabularies lists the enumerated fields in display order.
var Vocabularies = []Vocabulary{
	PhotoTimes,
	PhotoSeasons,
	PhotoWeathers,
	PhotoLocations,
	PhotoStyles,
}
