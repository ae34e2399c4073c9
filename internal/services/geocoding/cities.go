package geocoding

import "github.com/sridhs21/PCVF/internal/models"

type cityEntry struct {
	name   string
	coords models.Coordinates
}

// commonCities is the offline fallback table of major US cities used
// when the geocoding API is unreachable or returns nothing. Order
// matters: partial matches scan the table top to bottom.
var commonCities = []cityEntry{
	{"new york", models.Coordinates{Latitude: 40.7128, Longitude: -74.0060}},
	{"los angeles", models.Coordinates{Latitude: 34.0522, Longitude: -118.2437}},
	{"chicago", models.Coordinates{Latitude: 41.8781, Longitude: -87.6298}},
	{"houston", models.Coordinates{Latitude: 29.7604, Longitude: -95.3698}},
	{"phoenix", models.Coordinates{Latitude: 33.4484, Longitude: -112.0740}},
	{"philadelphia", models.Coordinates{Latitude: 39.9526, Longitude: -75.1652}},
	{"san antonio", models.Coordinates{Latitude: 29.4241, Longitude: -98.4936}},
	{"san diego", models.Coordinates{Latitude: 32.7157, Longitude: -117.1611}},
	{"dallas", models.Coordinates{Latitude: 32.7767, Longitude: -96.7970}},
	{"san jose", models.Coordinates{Latitude: 37.3382, Longitude: -121.8863}},
	{"austin", models.Coordinates{Latitude: 30.2672, Longitude: -97.7431}},
	{"jacksonville", models.Coordinates{Latitude: 30.3322, Longitude: -81.6557}},
	{"san francisco", models.Coordinates{Latitude: 37.7749, Longitude: -122.4194}},
	{"columbus", models.Coordinates{Latitude: 39.9612, Longitude: -82.9988}},
	{"fort worth", models.Coordinates{Latitude: 32.7555, Longitude: -97.3308}},
	{"indianapolis", models.Coordinates{Latitude: 39.7684, Longitude: -86.1581}},
	{"charlotte", models.Coordinates{Latitude: 35.2271, Longitude: -80.8431}},
	{"seattle", models.Coordinates{Latitude: 47.6062, Longitude: -122.3321}},
	{"denver", models.Coordinates{Latitude: 39.7392, Longitude: -104.9903}},
	{"washington", models.Coordinates{Latitude: 38.9072, Longitude: -77.0369}},
	{"boston", models.Coordinates{Latitude: 42.3601, Longitude: -71.0589}},
	{"nashville", models.Coordinates{Latitude: 36.1627, Longitude: -86.7816}},
	{"baltimore", models.Coordinates{Latitude: 39.2904, Longitude: -76.6122}},
	{"oklahoma city", models.Coordinates{Latitude: 35.4676, Longitude: -97.5164}},
	{"portland", models.Coordinates{Latitude: 45.5051, Longitude: -122.6750}},
	{"las vegas", models.Coordinates{Latitude: 36.1699, Longitude: -115.1398}},
	{"detroit", models.Coordinates{Latitude: 42.3314, Longitude: -83.0458}},
	{"memphis", models.Coordinates{Latitude: 35.1495, Longitude: -90.0490}},
	{"louisville", models.Coordinates{Latitude: 38.2527, Longitude: -85.7585}},
	{"milwaukee", models.Coordinates{Latitude: 43.0389, Longitude: -87.9065}},
}

// lookupCity resolves a lowercase location against the static table:
// exact match first, then substring match either way, then each
// comma-separated part.
func lookupCity(location string) (models.Coordinates, bool) {
	for _, entry := range commonCities {
		if entry.name == location {
			return entry.coords, true
		}
	}

	for _, entry := range commonCities {
		if containsEither(location, entry.name) {
			return entry.coords, true
		}
	}

	for _, part := range splitTrim(location, ",") {
		for _, entry := range commonCities {
			if entry.name == part {
				return entry.coords, true
			}
		}
	}

	return models.Coordinates{}, false
}
