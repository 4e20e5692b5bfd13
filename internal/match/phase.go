package match

// Phase is the match-level state.
type Phase string

const (
	PhaseNotStarted      Phase = "not_started"
	PhaseRoundInProgress Phase = "round_in_progress"
	PhaseRoundConcluded  Phase = "round_concluded"
	PhaseMatchConcluded  Phase = "match_concluded"
)

func (that Phase) IsValid() bool {
	switch that {
	case PhaseNotStarted, PhaseRoundInProgress, PhaseRoundConcluded, PhaseMatchConcluded:
		return true
	default:
		return false
	}
}

// IsStarted reports whether players have been bound.
func (that Phase) IsStarted() bool {
	return that.IsValid() && that != PhaseNotStarted
}
