package entity

// Player is a named participant bound to a mark for the whole match.
type Player struct {
	Name string `json:"name"`
	Mark Mark   `json:"mark"`
}

// Players binds the first named player to X and the second to O.
type Players struct {
	X Player `json:"x"`
	O Player `json:"o"`
}

func NewPlayers(first, second string) Players {
	return Players{
		X: Player{Name: first, Mark: PlayerX},
		O: Player{Name: second, Mark: PlayerO},
	}
}

// ByMark returns the player holding mark, or the zero Player.
func (that Players) ByMark(mark Mark) Player {
	switch mark {
	case PlayerX:
		return that.X
	case PlayerO:
		return that.O
	default:
		return Player{}
	}
}

func (that Players) IsZero() bool {
	return that.X.Name == "" && that.O.Name == ""
}
