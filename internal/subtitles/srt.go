package subtitles

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// FormatSRT renders entries as SRT text: for each entry an index line, a
// timing line, the chunk text, and a blank separator line. An empty entry
// list renders as an empty string. The output is byte-stable for a given
// entry list.
func FormatSRT(entries []Entry) string {
	if len(entries) == 0 {
		return ""
	}
	lines := make([]string, 0, len(entries)*4)
	for _, entry := range entries {
		lines = append(lines,
			strconv.Itoa(entry.Index),
			FormatTimestamp(entry.StartTime)+" --> "+FormatTimestamp(entry.EndTime),
			entry.Text,
			"",
		)
	}
	return strings.Join(lines, "\n")
}

// WriteSRT writes entries to path in SRT format.
func WriteSRT(entries []Entry, path string) error {
	if err := os.WriteFile(path, []byte(FormatSRT(entries)), 0o644); err != nil {
		return fmt.Errorf("write srt: %w", err)
	}
	return nil
}

// FormatTimestamp formats seconds as the SRT time format HH:MM:SS,mmm with
// zero-padded fields and three millisecond digits.
func FormatTimestamp(seconds float64) string {
	h := int(seconds / 3600)
	m := int(math.Mod(seconds, 3600) / 60)
	s := int(math.Mod(seconds, 60))
	ms := int(math.Mod(seconds, 1) * 1000)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// ParseTimestamp parses an SRT timestamp back to seconds. A period is
// accepted in place of the standard comma.
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}

// CountCues returns the number of cue blocks in an SRT file.
func CountCues(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read srt: %w", err)
	}
	content := strings.TrimSpace(string(data))
	if content == "" {
		return 0, nil
	}
	count := 0
	for _, block := range strings.Split(content, "\n\n") {
		if strings.TrimSpace(block) != "" {
			count++
		}
	}
	return count, nil
}

// Bounds returns the earliest start and latest end timestamp in an SRT file.
func Bounds(path string) (first, last float64, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("read srt: %w", err)
	}
	first = math.Inf(1)
	found := false
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.Contains(line, "-->") {
			continue
		}
		parts := strings.Split(line, "-->")
		if len(parts) != 2 {
			continue
		}
		if start, perr := ParseTimestamp(parts[0]); perr == nil {
			if start < first {
				first = start
			}
			found = true
		}
		if end, perr := ParseTimestamp(parts[1]); perr == nil {
			if end > last {
				last = end
			}
		}
	}
	if !found {
		return 0, last, nil
	}
	return first, last, nil
}

// Validate checks a produced SRT file for format issues and, when
// audioSeconds is known, for drift against the total audio duration.
// Returns a list of issues; an empty slice means the file passed.
func Validate(path string, audioSeconds float64) []string {
	var issues []string

	cues, err := CountCues(path)
	if err != nil {
		issues = append(issues, fmt.Sprintf("read_error: %v", err))
		return issues
	}
	if cues == 0 {
		issues = append(issues, "empty_subtitle_file")
		return issues
	}

	first, last, err := Bounds(path)
	if err != nil {
		issues = append(issues, fmt.Sprintf("timestamp_parse_error: %v", err))
	} else if first == 0 && last == 0 {
		issues = append(issues, "no_valid_timestamps")
	}

	if audioSeconds > 0 && last > audioSeconds+1.0 {
		issues = append(issues, fmt.Sprintf("duration_mismatch: subtitles end %.1fs past audio", last-audioSeconds))
	}

	return issues
}
