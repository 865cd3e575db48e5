// Package stats contains scoreboard summaries and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/verte-zerg/asake/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates a list of score records.
type Summary struct {
	Count    int
	Average  float64
	Best     int
	BestName string
	Last     int
}

// Summarize computes count, average, best and last score.
func Summarize(records []model.ScoreRecord) Summary {
	if len(records) == 0 {
		return Summary{}
	}
	s := Summary{Count: len(records), Best: -1, Last: records[len(records)-1].Score}
	total := 0
	for _, r := range records {
		total += r.Score
		if r.Score > s.Best {
			s.Best = r.Score
			s.BestName = r.Name
		}
	}
	s.Average = float64(total) / float64(len(records))
	return s
}

// Scores extracts the score column as floats.
func Scores(records []model.ScoreRecord) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = float64(r.Score)
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		out[i] = sum / float64(min(i+1, window))
	}
	return out
}

// Sparkline renders percentages (0-100) as a single line of ASCII levels.
// Values are placed on the fixed 0-100 scale so lines from different runs compare.
func Sparkline(values []float64) string {
	var b strings.Builder
	top := len(sparkChars) - 1
	for _, v := range values {
		v = math.Max(0, math.Min(100, v))
		idx := int(math.Round(v / 100 * float64(top)))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints the summary block for records.
func RenderSummary(w io.Writer, records []model.ScoreRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No scores yet.")
		return err
	}
	s := Summarize(records)
	lines := []string{
		"Summary",
		fmt.Sprintf("Entries: %d", s.Count),
		fmt.Sprintf("Average: %.1f%%", s.Average),
		fmt.Sprintf("Best: %d%% (%s)", s.Best, s.BestName),
		fmt.Sprintf("Last: %d%%", s.Last),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderTrend prints a sparkline of the most recent scores that fit in width,
// followed by its moving average.
func RenderTrend(w io.Writer, records []model.ScoreRecord, width, window int) error {
	if len(records) == 0 {
		return nil
	}
	const label = "Trend   "
	values := Scores(records)
	avg := MovingAverage(values, window)
	if span := width - len(label); span > 0 && len(values) > span {
		values = values[len(values)-span:]
		avg = avg[len(avg)-span:]
	}
	if _, err := fmt.Fprintf(w, "%s%s\n", label, Sparkline(values)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%-8s%s\n\n", "Avg("+strconv.Itoa(window)+")", Sparkline(avg)); err != nil {
		return err
	}
	return nil
}

// RenderTable prints the scoreboard with row indexes usable by `scores edit`.
func RenderTable(w io.Writer, records []model.ScoreRecord) error {
	if len(records) == 0 {
		return nil
	}
	headers := []string{"#", "Name", "Score", "Date"}
	rows := make([][]string, 0, len(records))
	for i, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(i),
			r.Name,
			fmt.Sprintf("%d%%", r.Score),
			r.Date,
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{0: true, 2: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
