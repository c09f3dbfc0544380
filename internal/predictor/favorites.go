package predictor

// FavoriteLookup isolates the static roster tables the public-favorite
// adjuster consults behind a small interface (spec design note: these
// lists should be swappable, e.g. for an ELO-percentile-derived
// implementation, without touching callers).
type FavoriteLookup interface {
	IsPublicFavorite(team string) bool
}

// staticFavorites is the default FavoriteLookup, seeded with the same
// roster the legacy predictor hardcoded.
type staticFavorites struct {
	favorites map[string]bool
}

// NewStaticFavorites returns the default, map-backed FavoriteLookup.
func NewStaticFavorites() FavoriteLookup {
	roster := []string{
		"Manchester City", "Arsenal", "Liverpool", "Juventus",
		"Inter", "Napoli", "AC Milan", "Atalanta",
	}
	favorites := make(map[string]bool, len(roster))
	for _, team := range roster {
		favorites[team] = true
	}
	return &staticFavorites{favorites: favorites}
}

func (s *staticFavorites) IsPublicFavorite(team string) bool {
	return s.favorites[team]
}
