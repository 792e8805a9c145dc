package ports

// AuthMetrics records signup and login outcomes. Results are short labels
// such as "created", "conflict", "success", "failed", "throttled" or "error".
type AuthMetrics interface {
	SignupOutcome(result string)
	LoginOutcome(result string)
}
