package domain

const (
	// freeMoveLimit 1~3 格免费。
	freeMoveLimit = 3
	// maxMoveDistance 4~6 格付费，7 格拒绝。
	maxMoveDistance = 6
)

// decision 是决策链中一步的输入。
type decision struct {
	state *GameState
	cmd   Move
}

// step 返回 (结果, true) 表示短路结束；(nil, false) 交给下一步。
type step func(d decision) (Outcome, bool)

// chain 顺序固定：未初始化 -> 未知国家 -> 首次移动 -> 距离分类。
var chain = []step{
	notInitialized,
	unknownNation,
	firstMove,
	byDistance,
}

// Decide 对 (状态, 移动命令) 求出唯一的终态。state 为 nil 表示游戏不存在。
func Decide(state *GameState, cmd Move) Outcome {
	d := decision{state: state, cmd: cmd}
	for _, s := range chain {
		if o, done := s(d); done {
			return o
		}
	}
	// byDistance 覆盖了 [0,7] 全部取值，走不到这里。
	panic("rondel: decision chain fell through")
}

func reject(cmd Move, reason RejectReason) (Outcome, bool) {
	return Rejected{Command: cmd, Reason: reason}, true
}

func notInitialized(d decision) (Outcome, bool) {
	if d.state == nil {
		return reject(d.cmd, RejectNotInitialized)
	}
	return nil, false
}

func unknownNation(d decision) (Outcome, bool) {
	if _, ok := d.state.Position(d.cmd.Nation); !ok {
		return reject(d.cmd, RejectUnknownNation)
	}
	return nil, false
}

// firstMove 首次移动可以去任意格子，免费，无视距离。
func firstMove(d decision) (Outcome, bool) {
	pos, _ := d.state.Position(d.cmd.Nation)
	if _, placed := pos.Space(); !placed {
		return Free{Nation: d.cmd.Nation, Space: d.cmd.Space}, true
	}
	return nil, false
}

func byDistance(d decision) (Outcome, bool) {
	pos, _ := d.state.Position(d.cmd.Nation)
	current, _ := pos.Space()
	distance := Distance(current, d.cmd.Space)
	pending, superseding := d.state.Pending(d.cmd.Nation)

	switch {
	case distance == 0:
		return reject(d.cmd, RejectStayPut)
	case distance <= freeMoveLimit && superseding:
		return FreeWithSupersedingUnpaidMovement{Nation: d.cmd.Nation, Space: d.cmd.Space, Superseded: pending}, true
	case distance <= freeMoveLimit:
		return Free{Nation: d.cmd.Nation, Space: d.cmd.Space}, true
	case distance <= maxMoveDistance && superseding:
		return PaidWithSupersedingUnpaidMovement{Nation: d.cmd.Nation, Space: d.cmd.Space, Distance: distance, Superseded: pending}, true
	case distance <= maxMoveDistance:
		return Paid{Nation: d.cmd.Nation, Space: d.cmd.Space, Distance: distance}, true
	default:
		return reject(d.cmd, RejectExceedsMaxDistance)
	}
}
