package schema

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Literal tokens treated as an empty cell in a string column. A
// required string field rejects them; an optional one casts them to
// nil.
var nullStrings = map[string]struct{}{
	"null": {}, "none": {}, "nil": {}, "nan": {}, "-": {}, "": {},
}

var trueLiterals = map[string]struct{}{
	"true": {}, "yes": {}, "y": {}, "t": {}, "1": {}, "x": {},
}

var falseLiterals = map[string]struct{}{
	"false": {}, "no": {}, "n": {}, "f": {}, "0": {},
}

// IsBlank reports whether a raw cell value is nil or a string with no
// non-whitespace content.
func IsBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

type castFunc func(f *Field, v any) (any, error)

// One cast function per declared type; the closed table replaces the
// dynamic type dispatch of earlier generations of the engine.
var castTable = map[FieldType]castFunc{
	TypeString:   castString,
	TypeInteger:  castInteger,
	TypeNumber:   castNumber,
	TypeBoolean:  castBoolean,
	TypeDate:     castDate,
	TypeDateTime: castDateTime,
	TypeAny:      castAnyType,
}

// Cast coerces a raw cell value (string, number, bool, time or nil)
// into the field's declared type. Blank input yields nil unless the
// field is required, in which case it yields a RequiredConstraintError.
// A value that cannot be coerced yields a CastError.
func (f *Field) Cast(v any) (any, error) {
	if IsBlank(v) {
		if f.Required() {
			return nil, &RequiredConstraintError{Field: f.Name}
		}
		return nil, nil
	}
	out, err := castTable[f.Type](f, v)
	if err != nil {
		return nil, err
	}
	if out == nil {
		// String null tokens cast to blank.
		if f.Required() {
			return nil, &RequiredConstraintError{Field: f.Name}
		}
		return nil, nil
	}
	if err := f.checkConstraints(out); err != nil {
		return nil, err
	}
	return out, nil
}

// ValidationError returns an error message if the value does not cast,
// or the empty string when it is valid.
func (f *Field) ValidationError(v any) string {
	_, err := f.Cast(v)
	if err == nil {
		return ""
	}
	var castErr *CastError
	if f.Type == TypeInteger && asCastError(err, &castErr) {
		return fmt.Sprintf("The field %q must be a whole number.", f.Name)
	}
	if enum := f.Constraints.Enum(); enum != nil {
		if strings.Contains(err.Error(), "enum") {
			values := make([]string, len(enum))
			for i, e := range enum {
				values[i] = fmt.Sprint(e)
			}
			return fmt.Sprintf("The value must be one of the following: %v", values)
		}
	}
	return err.Error()
}

func asCastError(err error, target **CastError) bool {
	ce, ok := err.(*CastError)
	if ok {
		*target = ce
	}
	return ok
}

func castString(f *Field, v any) (any, error) {
	switch s := v.(type) {
	case string:
		if _, null := nullStrings[strings.ToLower(strings.TrimSpace(s))]; null {
			return nil, nil
		}
		return s, nil
	case fmt.Stringer:
		return s.String(), nil
	default:
		return fmt.Sprint(v), nil
	}
}

// castAnyType passes the value through untouched; inference normalizes
// 'any' columns to 'string' before a dataset is created.
func castAnyType(_ *Field, v any) (any, error) {
	return v, nil
}

func castInteger(f *Field, v any) (any, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		if n != math.Trunc(n) {
			return nil, castErrorf(f.Name, "The value %v is not a whole number.", v)
		}
		return int64(n), nil
	case string:
		s := strings.TrimSpace(n)
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, castErrorf(f.Name, "The value %q is not a whole number.", n)
		}
		return i, nil
	default:
		return nil, castErrorf(f.Name, "The value %v cannot be cast to an integer.", v)
	}
}

func castNumber(f *Field, v any) (any, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	case string:
		s := strings.TrimSpace(n)
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, castErrorf(f.Name, "The value %q is not a number.", n)
		}
		return x, nil
	default:
		return nil, castErrorf(f.Name, "The value %v cannot be cast to a number.", v)
	}
}

func castBoolean(f *Field, v any) (any, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case int:
		if b == 1 {
			return true, nil
		}
		if b == 0 {
			return false, nil
		}
	case int64:
		if b == 1 {
			return true, nil
		}
		if b == 0 {
			return false, nil
		}
	case string:
		s := strings.ToLower(strings.TrimSpace(b))
		if _, ok := trueLiterals[s]; ok {
			return true, nil
		}
		if _, ok := falseLiterals[s]; ok {
			return false, nil
		}
	}
	return nil, castErrorf(f.Name, "The value %v is not a boolean.", v)
}

func castDate(f *Field, v any) (any, error) {
	t, err := f.castTemporal(v)
	if err != nil {
		return nil, err
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

func castDateTime(f *Field, v any) (any, error) {
	return f.castTemporal(v)
}

func (f *Field) castTemporal(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		s := strings.TrimSpace(t)
		format := f.Format
		if format == "" {
			format = "default"
		}
		switch {
		case format == "default":
			return f.parseDefault(s)
		case format == "any":
			return f.parseDayFirst(s)
		case strings.HasPrefix(format, "fmt:"):
			layout := strptimeToLayout(strings.TrimPrefix(format, "fmt:"))
			parsed, err := time.Parse(layout, s)
			if err != nil {
				return time.Time{}, castErrorf(f.Name,
					"The value %q does not match the format %q.", s, strings.TrimPrefix(format, "fmt:"))
			}
			return parsed, nil
		default:
			return time.Time{}, castErrorf(f.Name, "Unknown date format %q.", format)
		}
	default:
		return time.Time{}, castErrorf(f.Name, "The value %v is not a date.", v)
	}
}

var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

var defaultLayouts = map[FieldType][]string{
	TypeDate: {"2006-01-02"},
	TypeDateTime: {
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	},
}

func (f *Field) parseDefault(s string) (time.Time, error) {
	for _, layout := range defaultLayouts[f.Type] {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, castErrorf(f.Name,
		"The value %q is not an ISO (yyyy-mm-dd) date.", s)
}

// Day-first layouts tried before the flexible fallback. The list pins
// the dd/mm/yyyy reading of ambiguous dates like 01/12/2016.
var dayFirstLayouts = []string{
	"2/1/2006",
	"2/1/06",
	"2-1-2006",
	"2.1.2006",
	"2-Jan-2006",
	"2-January-2006",
	"2 Jan 2006",
	"2 January 2006",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
}

// parseDayFirst parses a date with a day-before-month bias: 01/12/2016
// is the 1st of December. Strings starting with yyyy-mm-dd are read as
// ISO regardless, so the bias cannot swap ISO month and day.
func (f *Field) parseDayFirst(s string) (time.Time, error) {
	if isoDateRe.MatchString(s) {
		return f.parseDefault(s)
	}
	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	t, err := dateparse.ParseAny(s, dateparse.PreferMonthFirst(false))
	if err != nil {
		return time.Time{}, castErrorf(f.Name, "The value %q is not a valid date.", s)
	}
	return t, nil
}

// strptime directives to Go reference-time layout.
var strptimeMap = []struct{ from, to string }{
	{"%Y", "2006"},
	{"%y", "06"},
	{"%m", "01"},
	{"%d", "02"},
	{"%H", "15"},
	{"%I", "03"},
	{"%M", "04"},
	{"%S", "05"},
	{"%b", "Jan"},
	{"%B", "January"},
	{"%a", "Mon"},
	{"%A", "Monday"},
	{"%p", "PM"},
	{"%z", "-0700"},
	{"%Z", "MST"},
	{"%%", "%"},
}

func strptimeToLayout(pattern string) string {
	layout := pattern
	for _, m := range strptimeMap {
		layout = strings.ReplaceAll(layout, m.from, m.to)
	}
	return layout
}

func (f *Field) checkConstraints(v any) error {
	if min, ok := f.Constraints.Minimum(); ok {
		below, err := f.compare(v, min)
		if err == nil && below < 0 {
			return castErrorf(f.Name, "The value %v is below the minimum %v.", v, min)
		}
	}
	if max, ok := f.Constraints.Maximum(); ok {
		above, err := f.compare(v, max)
		if err == nil && above > 0 {
			return castErrorf(f.Name, "The value %v is above the maximum %v.", v, max)
		}
	}
	if enum := f.Constraints.Enum(); enum != nil {
		repr := fmt.Sprint(v)
		for _, e := range enum {
			if fmt.Sprint(e) == repr {
				return nil
			}
		}
		values := make([]string, len(enum))
		for i, e := range enum {
			values[i] = fmt.Sprint(e)
		}
		return castErrorf(f.Name,
			"The value %v does not match the enum array %v.", v, values)
	}
	return nil
}

// compare orders a casted value against a constraint bound. Numbers
// compare numerically, dates chronologically; the bound is cast with
// the field's own rules first.
func (f *Field) compare(v, bound any) (int, error) {
	switch val := v.(type) {
	case int64:
		b, err := toFloat(bound)
		if err != nil {
			return 0, err
		}
		return compareFloats(float64(val), b), nil
	case float64:
		b, err := toFloat(bound)
		if err != nil {
			return 0, err
		}
		return compareFloats(val, b), nil
	case time.Time:
		var bt time.Time
		switch b := bound.(type) {
		case time.Time:
			bt = b
		case string:
			parsed, err := f.castTemporal(b)
			if err != nil {
				return 0, err
			}
			bt = parsed
		default:
			return 0, fmt.Errorf("cannot compare date with %v", bound)
		}
		if val.Before(bt) {
			return -1, nil
		}
		if val.After(bt) {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("cannot compare %v", v)
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	}
	return 0, fmt.Errorf("not a number: %v", v)
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
