package main

type PlayerType int

const (
	PlayerHuman PlayerType = iota
	PlayerAI
)

// GameSettings decides who plays each colour. Black always moves first.
type GameSettings struct {
	BlackType PlayerType
	WhiteType PlayerType
}

func DefaultGameSettings() GameSettings {
	return GameSettings{
		BlackType: PlayerHuman,
		WhiteType: PlayerAI,
	}
}

// EngineFirst returns the human-versus-engine setup with the given opener.
func EngineFirst(engineFirst bool) GameSettings {
	if engineFirst {
		return GameSettings{BlackType: PlayerAI, WhiteType: PlayerHuman}
	}
	return DefaultGameSettings()
}

func (s GameSettings) typeFor(p PlayerColor) PlayerType {
	if p == PlayerBlack {
		return s.BlackType
	}
	return s.WhiteType
}

type GameSettingsDTO struct {
	Mode        string `json:"mode"`
	HumanPlayer int    `json:"human_player"`
}

func settingsFromDTO(dto GameSettingsDTO, base GameSettings) GameSettings {
	settings := base
	switch dto.Mode {
	case "ai_vs_ai":
		settings.BlackType, settings.WhiteType = PlayerAI, PlayerAI
	case "human_vs_human":
		settings.BlackType, settings.WhiteType = PlayerHuman, PlayerHuman
	case "ai_vs_human":
		settings = EngineFirst(dto.HumanPlayer == 2)
	}
	return settings
}

func settingsToDTO(settings GameSettings) GameSettingsDTO {
	switch {
	case settings.BlackType == PlayerAI && settings.WhiteType == PlayerAI:
		return GameSettingsDTO{Mode: "ai_vs_ai"}
	case settings.BlackType == PlayerHuman && settings.WhiteType == PlayerHuman:
		return GameSettingsDTO{Mode: "human_vs_human", HumanPlayer: 1}
	case settings.BlackType == PlayerHuman:
		return GameSettingsDTO{Mode: "ai_vs_human", HumanPlayer: 1}
	default:
		return GameSettingsDTO{Mode: "ai_vs_human", HumanPlayer: 2}
	}
}
