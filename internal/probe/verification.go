package probe

import (
	"fmt"
	"math"
)

// compareUpdates checks order, identity and values of a rating response, and
// that every entry keeps new_rating == old_rating + rating_change.
func compareUpdates(want, got []RatingUpdate) error {
	if len(want) != len(got) {
		return fmt.Errorf("expected %d updates, got %d", len(want), len(got))
	}
	for i := range want {
		w, g := want[i], got[i]
		if w.EmployeeID != g.EmployeeID {
			return fmt.Errorf("update %d: expected employee %s, got %s", i, w.EmployeeID, g.EmployeeID)
		}
		if !near(w.OldRating, g.OldRating) || !near(w.RatingChange, g.RatingChange) || !near(w.NewRating, g.NewRating) {
			return fmt.Errorf("update %d (%s): expected %+v, got %+v", i, w.EmployeeID, w, g)
		}
		// Both operands carry two decimals, so half a cent bounds the sum error.
		if math.Abs(g.OldRating+g.RatingChange-g.NewRating) > 0.005 {
			return fmt.Errorf("update %d (%s): %.2f + %.2f != %.2f", i, g.EmployeeID, g.OldRating, g.RatingChange, g.NewRating)
		}
	}
	return nil
}

func near(a, b float64) bool {
	return math.Abs(a-b) <= scoreEpsilon
}
