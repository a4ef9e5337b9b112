package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/kokorolabs/soulscope/pkg/masterdata"
	"github.com/kokorolabs/soulscope/pkg/zodiac"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Lint the master data files for gaps, overlaps and missing mappings",
	RunE: func(cmd *cobra.Command, args []string) error {
		tables, err := masterdata.Load(dataConfig(cmd))
		if err != nil {
			return err
		}

		records, skipped := tables.Records()
		problems := 0

		if skipped > 0 {
			fmt.Printf("WARN: %d range record(s) skipped (missing or unparseable required fields)\n", skipped)
			problems += skipped
		}
		if len(records) == 0 {
			return fmt.Errorf("range table contains no usable records")
		}

		for _, warning := range rangeProblems(records) {
			fmt.Printf("WARN: %s\n", warning)
			problems++
		}

		for _, missing := range missingMappings(tables, records) {
			fmt.Printf("WARN: theme mapping has no usable entry for %s\n", missing)
			problems++
		}

		fmt.Printf("%d record(s) checked\n", len(records))
		if problems > 0 {
			return fmt.Errorf("%d problem(s) found", problems)
		}
		fmt.Println("OK")
		return nil
	},
}

// rangeProblems reports start-after-end rows, overlapping ranges and
// coverage gaps. The scan runs over a copy sorted by start so the
// master file is free to list its records in any order; source order
// only matters for first-match resolution, not coverage.
func rangeProblems(records []zodiac.Record) []string {
	sorted := make([]zodiac.Record, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var out []string
	for i, rec := range sorted {
		if rec.Start > rec.End {
			out = append(out, fmt.Sprintf("range for %s has start %d after end %d", rec.Head, rec.Start, rec.End))
		}
		if i == 0 {
			continue
		}
		prev := sorted[i-1]
		if rec.Start <= prev.End {
			out = append(out, fmt.Sprintf("range for %s overlaps range for %s; first match in source order wins", rec.Head, prev.Head))
		} else if next, ok := nextDay(prev.End); ok && rec.Start > next {
			out = append(out, fmt.Sprintf("coverage gap between %d (%s) and %d (%s)", prev.End, prev.Head, rec.Start, rec.Head))
		}
	}
	return out
}

// nextDay returns the YYYYMMDD key of the calendar day after key. Keys
// that are not valid calendar dates cannot be advanced; gap detection
// is skipped for those.
func nextDay(key int) (int, bool) {
	t, err := time.Parse("20060102", strconv.Itoa(key))
	if err != nil {
		return 0, false
	}
	next, err := strconv.Atoi(t.AddDate(0, 0, 1).Format("20060102"))
	if err != nil {
		return 0, false
	}
	return next, true
}

// missingMappings collects every zodiac referenced by the range table
// that the theme mapping cannot answer for, deduplicated, in first-seen
// order.
func missingMappings(tables zodiac.Tables, records []zodiac.Record) []string {
	var out []string
	seen := make(map[string]bool)

	report := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}

	for _, rec := range records {
		entry := tables.Mapping.Get(rec.Head)
		switch {
		case !entry.Exists():
			report(rec.Head)
		case entry.IsObject():
			if !entry.Get("dragon_tail_zodiac").Exists() ||
				!entry.Get("soul_theme").Exists() ||
				!entry.Get("reverse_theme").Exists() {
				report(rec.Head)
			}
		case entry.Type == gjson.String:
			if rec.Tail == "" {
				report(rec.Head)
			} else if tail := tables.Mapping.Get(rec.Tail); !tail.Exists() || tail.Type != gjson.String {
				report(rec.Tail)
			}
		default:
			report(rec.Head)
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(checkCmd)
	addDataFlags(checkCmd)
}
