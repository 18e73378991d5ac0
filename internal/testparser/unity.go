package testparser

import (
	"regexp"
	"strconv"
	"strings"
)

// Unity result markers as printed by UnityConcludeTest.
const (
	unityPassMarker = ":PASS"
	unityFailMarker = ":FAIL"
)

// unityFailLine matches "file.c:LINE:test_name:FAIL" with an optional ": message".
var unityFailLine = regexp.MustCompile(`^(.*?):(\d+):([^:\s]+):FAIL(?::\s*(.*))?$`)

// UnityParser parses the stdout of a test executable linked against the
// Unity C test framework.
type UnityParser struct{}

// Name returns the parser name.
func (p *UnityParser) Name() string {
	return "unity"
}

// Parse extracts test counts from Unity output.
// Unity prints one line per test followed by a summary block:
//
//	test_math.c:12:test_add:PASS
//	test_math.c:20:test_sub:FAIL: Expected 3 Was 4
//
//	-----------------------
//	2 Tests 1 Failures 0 Ignored
//	FAIL
//
// Each line is classified once: PASS marker first, then FAIL marker, then
// the summary line. A summary line replaces the running tallies, and the
// last one wins. Malformed summary lines are skipped.
func (p *UnityParser) Parse(output string) TestCounts {
	counts := TestCounts{}

	for _, raw := range strings.Split(output, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case strings.Contains(line, unityPassMarker):
			counts.Total++
			counts.Passed++
			counts.Parsed = true
		case strings.Contains(line, unityFailMarker):
			counts.Total++
			counts.Failed++
			counts.Parsed = true
			if ft, ok := parseUnityFailure(line); ok {
				counts.FailedTests = append(counts.FailedTests, ft)
			}
		default:
			total, failed, ok := parseUnitySummary(line)
			if !ok {
				continue
			}
			counts.Total = total
			counts.Failed = failed
			counts.Passed = total - failed
			counts.Parsed = true
		}
	}

	return counts
}

// parseUnitySummary parses "N Tests M Failures K Ignored".
// The ignored count must be numeric but is not returned.
func parseUnitySummary(line string) (total, failed int, ok bool) {
	fields := strings.Fields(line)
	if len(fields) < 6 {
		return 0, 0, false
	}
	if fields[1] != "Tests" || fields[3] != "Failures" || fields[5] != "Ignored" {
		return 0, 0, false
	}

	total, err := strconv.Atoi(fields[0])
	if err != nil || total < 0 {
		return 0, 0, false
	}
	failed, err = strconv.Atoi(fields[2])
	if err != nil || failed < 0 || failed > total {
		return 0, 0, false
	}
	if ignored, err := strconv.Atoi(fields[4]); err != nil || ignored < 0 {
		return 0, 0, false
	}

	return total, failed, true
}

// parseUnityFailure extracts the test name and message from a FAIL line.
func parseUnityFailure(line string) (FailedTest, bool) {
	match := unityFailLine.FindStringSubmatch(line)
	if match == nil {
		return FailedTest{}, false
	}

	reason := strings.TrimSpace(match[4])
	const maxLen = 80
	if len(reason) > maxLen {
		reason = reason[:maxLen-3] + "..."
	}

	return FailedTest{
		Name:   match[3],
		Reason: reason,
	}, true
}
