package calview

// HealthTier buckets a 0-100 health index into the label and color key
// the clients show next to the score.
func HealthTier(index int) string {
	switch {
	case index >= 80:
		return "Excellent"
	case index >= 60:
		return "Good"
	case index >= 40:
		return "Fair"
	default:
		return "Needs Work"
	}
}

// LateNightTier buckets the late-night order percentage into a concern
// label.
func LateNightTier(pct float64) string {
	switch {
	case pct >= 40:
		return "high concern"
	case pct >= 20:
		return "moderate"
	default:
		return "minimal"
	}
}

// IsLateNight reports whether an order hour (0-23) counts as late
// night: 22:00 through 04:59.
func IsLateNight(hour int) bool {
	return hour >= 22 || hour < 5
}
