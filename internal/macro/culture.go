package macro

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

// weekday names for each supported UI culture, indexed by time.Weekday.
var weekdayNames = map[language.Tag][7]string{
	language.English: {"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
	language.German:  {"Sonntag", "Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag"},
	language.French:  {"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi"},
	language.Spanish: {"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"},
	language.Chinese: {"星期日", "星期一", "星期二", "星期三", "星期四", "星期五", "星期六"},
}

// order matters; the first entry is the fallback for unmatched cultures.
var supportedCultures = []language.Tag{
	language.English,
	language.German,
	language.French,
	language.Spanish,
	language.Chinese,
}

var cultureMatcher = language.NewMatcher(supportedCultures)

// Culture formats clock values the way the active UI culture writes them.
type Culture struct {
	tag      language.Tag
	weekdays [7]string
}

// NewCulture returns the Culture that best matches the given language tag.
// Unsupported languages fall back to English.
func NewCulture(tag language.Tag) Culture {
	_, idx, _ := cultureMatcher.Match(tag)
	base := supportedCultures[idx]

	return Culture{
		tag:      base,
		weekdays: weekdayNames[base],
	}
}

// ParseCulture parses a BCP 47 tag such as "de-DE" and returns the closest
// supported Culture.
func ParseCulture(s string) (Culture, error) {
	tag, err := language.Parse(s)
	if err != nil {
		return Culture{}, fmt.Errorf("parse culture %q: %w", s, err)
	}
	return NewCulture(tag), nil
}

// Tag returns the language of the culture.
func (c Culture) Tag() language.Tag {
	return c.tag
}

// ShortTime formats t as "HH:mm".
func (c Culture) ShortTime(t time.Time) string {
	return t.Format("15:04")
}

// LongDate formats t as "<weekday>, d.M.yyyy".
func (c Culture) LongDate(t time.Time) string {
	weekdays := c.weekdays
	if weekdays[0] == "" {
		weekdays = weekdayNames[language.English]
	}
	return fmt.Sprintf("%s, %d.%d.%04d", weekdays[t.Weekday()], t.Day(), int(t.Month()), t.Year())
}
