package zodiac

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Diagnosis is the final lookup result. All four fields are opaque
// strings taken verbatim from the master data.
type Diagnosis struct {
	HeadZodiac   string `json:"dragon_head_zodiac"`
	TailZodiac   string `json:"dragon_tail_zodiac"`
	SoulTheme    string `json:"soul_theme"`
	ReverseTheme string `json:"reverse_theme"`
}

// Tables holds the two parsed master files: the calendar-range list and
// the zodiac→theme mapping. Both are immutable once constructed.
type Tables struct {
	Ranges  gjson.Result
	Mapping gjson.Result
}

// ErrOutOfRange reports a date covered by no range record, either a
// genuinely out-of-bounds birthdate or a master-data coverage gap.
var ErrOutOfRange = errors.New("birthdate is outside the supported range or not covered by master data")

// MappingError reports zodiacs resolved from the range table that the
// theme mapping cannot answer for. A master-data defect, not user error.
type MappingError struct {
	Zodiacs []string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("zodiac theme mapping has no usable entry for %s", strings.Join(e.Zodiacs, ", "))
}

// The master files come from several generations of exports that
// disagree on key names. Each logical field is resolved by probing its
// candidates in priority order.
var (
	startKeys = []string{"start_date", "start", "from"}
	endKeys   = []string{"end_date", "end", "to"}
	headKeys  = []string{"head_sign", "dragon_head_zodiac", "zodiac", "head"}
	tailKeys  = []string{"tail_sign", "dragon_tail_zodiac", "reverse_zodiac", "tail"}
)

func firstKey(rec gjson.Result, candidates []string) (gjson.Result, bool) {
	for _, k := range candidates {
		if v := rec.Get(k); v.Exists() {
			return v, true
		}
	}
	return gjson.Result{}, false
}

// Record is one range-table row with its synonym keys resolved and its
// bounds reduced to integer YYYYMMDD keys.
type Record struct {
	Start int
	End   int
	Head  string
	Tail  string // empty when the row carries no tail zodiac
}

var nonDigitRe = regexp.MustCompile(`\D`)

// DateKey reduces a date string to its integer YYYYMMDD ordering key.
// Slashed dates are accepted alongside dashed ones.
func DateKey(s string) (int, bool) {
	digits := nonDigitRe.ReplaceAllString(strings.ReplaceAll(s, "/", "-"), "")
	if len(digits) != 8 {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Records resolves every range row in source order. Rows missing a
// required field or carrying an unparseable bound are treated as data
// gaps and skipped; the count of skipped rows is returned alongside.
func (t Tables) Records() ([]Record, int) {
	var out []Record
	skipped := 0
	t.Ranges.ForEach(func(_, row gjson.Result) bool {
		start, okS := firstKey(row, startKeys)
		end, okE := firstKey(row, endKeys)
		head, okH := firstKey(row, headKeys)
		if !okS || !okE || !okH {
			skipped++
			return true
		}
		startKey, okS := DateKey(start.String())
		endKey, okE := DateKey(end.String())
		if !okS || !okE {
			skipped++
			return true
		}
		rec := Record{Start: startKey, End: endKey, Head: head.String()}
		if tail, ok := firstKey(row, tailKeys); ok {
			rec.Tail = tail.String()
		}
		out = append(out, rec)
		return true
	})
	return out, skipped
}

// Resolve finds the first range record containing date (inclusive on
// both ends, source order) and joins it against the theme mapping.
func Resolve(date string, t Tables) (Diagnosis, error) {
	key, ok := DateKey(date)
	if !ok {
		return Diagnosis{}, fmt.Errorf("not a canonical date: %q", date)
	}

	records, _ := t.Records()
	for _, rec := range records {
		if rec.Start <= key && key <= rec.End {
			return assemble(t, rec)
		}
	}
	return Diagnosis{}, ErrOutOfRange
}

// assemble joins the matched record against the theme mapping. The
// mapping ships in two shapes: rich entries (an object per zodiac that
// carries the tail and both themes) and flat entries (zodiac → theme
// code string, with the tail taken from the range record). The shape is
// probed per lookup so mixed files keep working.
func assemble(t Tables, rec Record) (Diagnosis, error) {
	entry := t.Mapping.Get(rec.Head)
	if !entry.Exists() {
		return Diagnosis{}, &MappingError{Zodiacs: []string{rec.Head}}
	}

	if entry.IsObject() {
		tail := entry.Get("dragon_tail_zodiac")
		soul := entry.Get("soul_theme")
		reverse := entry.Get("reverse_theme")
		if !tail.Exists() || !soul.Exists() || !reverse.Exists() {
			return Diagnosis{}, &MappingError{Zodiacs: []string{rec.Head}}
		}
		return Diagnosis{
			HeadZodiac:   rec.Head,
			TailZodiac:   tail.String(),
			SoulTheme:    soul.String(),
			ReverseTheme: reverse.String(),
		}, nil
	}

	if entry.Type == gjson.String {
		if rec.Tail == "" {
			// Flat mapping with no tail on the range row: neither
			// side can supply the reverse theme.
			return Diagnosis{}, &MappingError{Zodiacs: []string{rec.Head}}
		}
		reverse := t.Mapping.Get(rec.Tail)
		if !reverse.Exists() || reverse.Type != gjson.String {
			return Diagnosis{}, &MappingError{Zodiacs: []string{rec.Tail}}
		}
		return Diagnosis{
			HeadZodiac:   rec.Head,
			TailZodiac:   rec.Tail,
			SoulTheme:    entry.String(),
			ReverseTheme: reverse.String(),
		}, nil
	}

	return Diagnosis{}, &MappingError{Zodiacs: []string{rec.Head}}
}
