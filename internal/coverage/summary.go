package coverage

import (
	"math"
	"strconv"
	"strings"
)

// FileCoverage is the line coverage of one source file.
type FileCoverage struct {
	File       string  `json:"file"`
	LinesHit   int     `json:"lines_hit"`
	LinesTotal int     `json:"lines_total"`
	Percent    float64 `json:"percent"`
}

// Total sums the per-file counts. Percent is 0 when there are no lines.
func Total(files []FileCoverage) FileCoverage {
	t := FileCoverage{File: "TOTAL"}
	for _, f := range files {
		t.LinesHit += f.LinesHit
		t.LinesTotal += f.LinesTotal
	}
	if t.LinesTotal > 0 {
		t.Percent = math.Round(float64(t.LinesHit)*1000/float64(t.LinesTotal)) / 10
	}
	return t
}

// ParseLcovList parses the table printed by "lcov --list":
//
//	                |Lines       |Functions  |Branches
//	Filename        |Rate     Num|Rate    Num|Rate     Num
//	==================================================
//	[/repo/output/src/]
//	math.c          |50.0%      6|50.0%     2|    -      0
//	==================================================
//	          Total:|50.0%      6|50.0%     2|    -      0
//
// Header, separator, directory and Total rows are skipped. Hit lines are
// derived from the rate and rounded.
func ParseLcovList(text string) []FileCoverage {
	var files []FileCoverage
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		name, rest, ok := strings.Cut(line, "|")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" || name == "Filename" || strings.HasSuffix(name, "Total:") {
			continue
		}

		lines, _, _ := strings.Cut(rest, "|")
		fields := strings.Fields(lines)
		if len(fields) != 2 || !strings.HasSuffix(fields[0], "%") {
			continue
		}
		percent, err := strconv.ParseFloat(strings.TrimSuffix(fields[0], "%"), 64)
		if err != nil {
			continue
		}
		total, err := strconv.Atoi(fields[1])
		if err != nil || total < 0 {
			continue
		}
		files = append(files, FileCoverage{
			File:       name,
			LinesHit:   int(math.Round(percent * float64(total) / 100)),
			LinesTotal: total,
			Percent:    percent,
		})
	}
	return files
}

// ParseGcovrSummary parses gcovr's plain text report:
//
//	File                Lines    Exec  Cover   Missing
//	---------------------------------------------------
//	src/math.c              6       3    50%   7-9
//	---------------------------------------------------
//	TOTAL                   6       3    50%
//
// Long filenames are printed alone on a line and their numbers follow on
// the next one. The TOTAL row is skipped.
func ParseGcovrSummary(text string) []FileCoverage {
	var files []FileCoverage
	var pending string
	for _, raw := range strings.Split(text, "\n") {
		fields := strings.Fields(raw)
		switch {
		case len(fields) == 0:
			continue
		case strings.HasPrefix(fields[0], "---") || strings.HasPrefix(fields[0], "==="):
			pending = ""
			continue
		case fields[0] == "File" || fields[0] == "TOTAL" || fields[0] == "GCC" || fields[0] == "Directory:":
			pending = ""
			continue
		}

		name := pending
		nums := fields
		if name == "" {
			if len(fields) == 1 {
				pending = fields[0]
				continue
			}
			name, nums = fields[0], fields[1:]
		}
		pending = ""

		fc, ok := parseGcovrCounts(name, nums)
		if ok {
			files = append(files, fc)
		}
	}
	return files
}

func parseGcovrCounts(name string, fields []string) (FileCoverage, bool) {
	if len(fields) < 3 || !strings.HasSuffix(fields[2], "%") {
		return FileCoverage{}, false
	}
	total, err := strconv.Atoi(fields[0])
	if err != nil || total < 0 {
		return FileCoverage{}, false
	}
	hit, err := strconv.Atoi(fields[1])
	if err != nil || hit < 0 || hit > total {
		return FileCoverage{}, false
	}
	percent, err := strconv.ParseFloat(strings.TrimSuffix(fields[2], "%"), 64)
	if err != nil {
		return FileCoverage{}, false
	}
	return FileCoverage{File: name, LinesHit: hit, LinesTotal: total, Percent: percent}, true
}
