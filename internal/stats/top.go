package stats

import (
	"sort"

	"github.com/verte-zerg/asake/internal/model"
)

// TopScorers returns each name's best record, highest score first, capped at n.
func TopScorers(records []model.ScoreRecord, n int) []model.ScoreRecord {
	if n <= 0 || len(records) == 0 {
		return nil
	}
	best := make(map[string]model.ScoreRecord, len(records))
	for _, r := range records {
		if cur, ok := best[r.Name]; !ok || r.Score > cur.Score {
			best[r.Name] = r
		}
	}
	out := make([]model.ScoreRecord, 0, len(best))
	for _, r := range best {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score == out[j].Score {
			return out[i].Name < out[j].Name
		}
		return out[i].Score > out[j].Score
	})
	if n < len(out) {
		out = out[:n]
	}
	return out
}
