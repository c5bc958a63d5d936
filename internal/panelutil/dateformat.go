package panelutil

import "strings"

// strftimeToMoment maps Python strftime directives to moment.js tokens.
var strftimeToMoment = strings.NewReplacer(
	"%a", "ddd",
	"%A", "dddd",
	"%w", "d",
	"%d", "DD",
	"%b", "MMM",
	"%B", "MMMM",
	"%m", "MM",
	"%y", "YY",
	"%Y", "YYYY",
	"%H", "HH",
	"%I", "hh",
	"%p", "A",
	"%M", "mm",
	"%S", "ss",
	"%f", "SSS",
	"%z", "ZZ",
	"%Z", "z",
	"%j", "DDDD",
	"%U", "ww",
	"%W", "ww",
	"%c", "ddd MMM DD HH:mm:ss YYYY",
	"%x", "MM/DD/YYYY",
	"%X", "HH:mm:ss",
	"%%", "%",
)

// ConvertFormat translates a strftime format (as rendered by the backend's
// DATE_INPUT_FORMATS) into the equivalent moment.js format for the pickers.
// Directives are matched left to right, so "%%d" yields a literal "%d".
// Unknown directives are kept as is.
func ConvertFormat(format string) string {
	return strftimeToMoment.Replace(format)
}
