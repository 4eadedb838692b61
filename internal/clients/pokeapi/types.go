package pokeapi

// Wire types for the subset of the PokeAPI pokemon endpoint this system
// consumes.

type apiPokemon struct {
	Name    string      `json:"name"`
	Stats   []apiStat   `json:"stats"`
	Types   []apiType   `json:"types"`
	Sprites apiSprites  `json:"sprites"`
	Moves   []apiMoveID `json:"moves"`
}

type apiStat struct {
	BaseStat int32 `json:"base_stat"`
	Stat     struct {
		Name string `json:"name"`
	} `json:"stat"`
}

type apiType struct {
	Slot int `json:"slot"`
	Type struct {
		Name string `json:"name"`
	} `json:"type"`
}

type apiSprites struct {
	FrontDefault string `json:"front_default"`
	FrontShiny   string `json:"front_shiny"`
}

type apiMoveID struct {
	Move struct {
		Name string `json:"name"`
	} `json:"move"`
}
