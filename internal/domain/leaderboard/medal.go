package leaderboard

// Medal is a display decoration derived from a rank position.
type Medal string

// Decorations for notable positions.
const (
	MedalNone   Medal = ""
	MedalGold   Medal = "gold"
	MedalSilver Medal = "silver"
	MedalBronze Medal = "bronze"
	MedalLast   Medal = "last"
)

// Podium returns the decoration for rank out of total. Podium places win over
// last place on boards with three or fewer players.
func Podium(rank, total int) Medal {
	switch {
	case rank < 1 || rank > total:
		return MedalNone
	case rank == 1:
		return MedalGold
	case rank == 2:
		return MedalSilver
	case rank == 3:
		return MedalBronze
	case rank == total:
		return MedalLast
	default:
		return MedalNone
	}
}
