package domain

// StartGame 处理 SetToStartingPositions。名单校验在读存储之前由调用方完成，
// 这里拿到的 roster 已经非空。已存在的游戏是幂等空操作，不发事件。
func StartGame(state *GameState, cmd SetToStartingPositions, roster []Nation) Effects {
	if state != nil {
		return Effects{}
	}
	return Effects{
		State:  NewGameState(cmd.GameID, roster),
		Events: []Event{PositionedAtStart{GameID: cmd.GameID}},
	}
}
