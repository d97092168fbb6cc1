package aggregate

// Tier is a heatmap intensity level.
type Tier int

// Tiers from empty to busiest.
const (
	TierNone Tier = iota
	Tier1
	Tier2
	Tier3
	Tier4
	Tier5
)

// TierFor buckets count relative to the busiest day max.
// A max below 1 is treated as 1.
func TierFor(count, max int) Tier {
	if count <= 0 {
		return TierNone
	}
	if max < 1 {
		max = 1
	}
	r := float64(count) / float64(max)
	switch {
	case r <= 0.2:
		return Tier1
	case r <= 0.4:
		return Tier2
	case r <= 0.6:
		return Tier3
	case r <= 0.8:
		return Tier4
	default:
		return Tier5
	}
}
