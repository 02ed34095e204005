package ticketwatch

import (
	"railwatch/lib/scrapers/railway"
	"strings"

	"github.com/antzucaro/matchr"
)

// closestSeatClass finds the scraped seat class label most similar to
// `class`, found is true if an exact (case insensitive) match exists.
func closestSeatClass(trips []railway.TrainInfo, class string) (closest string, similarity float64, found bool) {
	target := strings.ToUpper(class)
	for _, trip := range trips {
		for _, seat := range trip.Classes {
			candidate := strings.ToUpper(seat.Class)
			if candidate == target {
				return seat.Class, 1, true
			}
			sim := matchr.JaroWinkler(target, candidate, false)
			if sim > similarity {
				similarity = sim
				closest = seat.Class
			}
		}
	}
	return closest, similarity, false
}
