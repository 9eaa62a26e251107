package pipeline

import "strings"

// Normalize trims leading and trailing whitespace on every text field of the
// cleaned set, in place. Applying it twice yields the same result as once.
func Normalize(orders []Order) {
	for i := range orders {
		o := &orders[i]
		o.State = strings.TrimSpace(o.State)
		o.City = strings.TrimSpace(o.City)
		o.Restaurant = strings.TrimSpace(o.Restaurant)
		o.Location = strings.TrimSpace(o.Location)
		o.Category = strings.TrimSpace(o.Category)
		o.Dish = strings.TrimSpace(o.Dish)
	}
}
