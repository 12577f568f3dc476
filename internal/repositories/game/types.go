package game

import "github.com/pkalinn/revolver/internal/models"

type SaveGameInput struct {
	Record *models.GameRecord
}

type GetGameInput struct {
	GameID string
}

type GetGameOutput struct {
	Record *models.GameRecord
}

type GetGameByPlayerInput struct {
	PlayerName string
}

type DeleteGameInput struct {
	GameID string
}

type UnbindPlayerInput struct {
	PlayerName string
}

type GetActiveGamesInput struct {
}

type GetActiveGamesOutput struct {
	Records []*models.GameRecord
}
