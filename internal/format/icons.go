package format

const iconBaseURL = "https://basmilius.github.io/weather-icons/production/fill/all/"

var owmIcons = map[string]string{
	"01d": "clear-day",
	"01n": "clear-night",
	"02d": "partly-cloudy-day",
	"02n": "partly-cloudy-night",
	"03d": "cloudy",
	"03n": "cloudy",
	"04d": "overcast-day",
	"04n": "overcast-night",
	"09d": "partly-cloudy-day-drizzle",
	"09n": "partly-cloudy-night-drizzle",
	"10d": "partly-cloudy-day-rain",
	"10n": "partly-cloudy-night-rain",
	"11d": "thunderstorms-day-rain",
	"11n": "thunderstorms-night-rain",
	"13d": "partly-cloudy-day-snow",
	"13n": "partly-cloudy-night-snow",
	"50d": "mist",
	"50n": "mist",
}

// IconName maps an OpenWeatherMap icon code to an animated icon name.
func IconName(code string) string {
	if name, ok := owmIcons[code]; ok {
		return name
	}
	return "not-available"
}

// IconURL returns the SVG URL for an OpenWeatherMap icon code.
func IconURL(code string) string {
	return iconBaseURL + IconName(code) + ".svg"
}

// MetricIconURL returns the SVG URL for a named UI icon such as "humidity".
func MetricIconURL(name string) string {
	return iconBaseURL + name + ".svg"
}
