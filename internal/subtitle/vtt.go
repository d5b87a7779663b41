// Package subtitle converts SubRip (.srt) subtitle files to WebVTT for
// browser playback. The conversion is line-based and streaming: cue text
// passes through untouched, only timing lines are rewritten.
package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// timingRe matches an SRT timing line: "00:01:02,345 --> 00:01:05,678"
// with optional cue settings after the end time.
var timingRe = regexp.MustCompile(`^(\d{2}:\d{2}:\d{2}),(\d{3})\s*-->\s*(\d{2}:\d{2}:\d{2}),(\d{3})(.*)$`)

// ConvertToVTT reads SRT from r and writes WebVTT to w. SRT uses a
// comma as the millisecond separator where VTT requires a dot; that and
// the WEBVTT header are the whole format difference for plain cues.
func ConvertToVTT(r io.Reader, w io.Writer) error {
	if _, err := io.WriteString(w, "WEBVTT\n\n"); err != nil {
		return err
	}

	scanner := bufio.NewScanner(r)
	// Subtitle lines are short; 1MB guards against malformed input.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
		}

		if m := timingRe.FindStringSubmatch(line); m != nil {
			line = fmt.Sprintf("%s.%s --> %s.%s%s", m[1], m[2], m[3], m[4], m[5])
		}

		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}

	return scanner.Err()
}
