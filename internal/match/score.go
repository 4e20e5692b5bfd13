package match

import "github.com/rocketscienceinc/tictactoe-match/internal/entity"

// Score counts round wins per mark.
type Score struct {
	X int `json:"x"`
	O int `json:"o"`
}

func (that Score) Of(mark entity.Mark) int {
	switch mark {
	case entity.PlayerX:
		return that.X
	case entity.PlayerO:
		return that.O
	default:
		return 0
	}
}

// Add returns the score with one more round won by mark.
func (that Score) Add(mark entity.Mark) Score {
	switch mark {
	case entity.PlayerX:
		that.X++
	case entity.PlayerO:
		that.O++
	}

	return that
}
