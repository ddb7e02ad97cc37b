package common

import (
	"fmt"
	"strings"
	"time"

	"yrhacks/hackbot/internal/constants"
	"yrhacks/hackbot/internal/models/dtos"
)

func GetResponseTime(init time.Time) string {
	timeDiff := time.Since(init).Milliseconds()
	return fmt.Sprintf("%dms", timeDiff)
}

// FilterChoices keeps choices whose name starts with query, ignoring case,
// capped at the Discord autocomplete limit.
func FilterChoices(choices []dtos.Choice, query string) []dtos.Choice {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]dtos.Choice, 0, min(len(choices), constants.MaxAutocompleteHits))
	for _, c := range choices {
		if len(out) == constants.MaxAutocompleteHits {
			break
		}
		if strings.HasPrefix(strings.ToLower(c.Name), query) {
			out = append(out, c)
		}
	}
	return out
}
