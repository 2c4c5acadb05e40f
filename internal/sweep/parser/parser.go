package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/pipeline-sweep/internal/apperr"
)

const (
	FieldStageTime = "stage_time_us"
	FieldTotalTime = "total_time_us"

	unknownError = "unknown error"
)

// Markers are matched within a single line; surrounding log text is ignored.
var (
	errorMarker = regexp.MustCompile(`(?m)\[ERROR\][ \t]*([^\r\n]*)`)
	stageMarker = regexp.MustCompile(`\[TIMING\][^\r\n]*?in[ \t]+(\d+)[ \t]*us`)
	totalMarker = regexp.MustCompile(`\[TIMING\][ \t]+Total\(us\):[ \t]*(\d+)`)
)

type Timing struct {
	StageTimeUS int64
	TotalTimeUS int64
}

// Parse extracts the timing pair from pipeline stdout. An error marker
// anywhere in the output wins over timing markers.
func Parse(stdout string) (Timing, error) {
	if m := errorMarker.FindStringSubmatch(stdout); m != nil {
		msg := strings.TrimSpace(m[1])
		if msg == "" {
			msg = unknownError
		}
		return Timing{}, &apperr.PipelineReportedError{Message: msg}
	}

	var (
		t       Timing
		missing []string
	)

	stage, ok, err := firstInt(stageMarker, stdout)
	if err != nil {
		return Timing{}, fmt.Errorf("parse %s: %w", FieldStageTime, err)
	}
	if ok {
		t.StageTimeUS = stage
	} else {
		missing = append(missing, FieldStageTime)
	}

	total, ok, err := firstInt(totalMarker, stdout)
	if err != nil {
		return Timing{}, fmt.Errorf("parse %s: %w", FieldTotalTime, err)
	}
	if ok {
		t.TotalTimeUS = total
	} else {
		missing = append(missing, FieldTotalTime)
	}

	if len(missing) > 0 {
		return Timing{}, &apperr.IncompleteTimingData{Missing: missing}
	}
	return t, nil
}

func firstInt(re *regexp.Regexp, s string) (int64, bool, error) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, false, nil
	}
	v, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}
