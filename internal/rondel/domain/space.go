package domain

import "strings"

// Space 是轮盘上的格子，按顺时针顺序编号。
type Space int

const (
	Investor Space = iota
	Import
	ProductionOne
	ManeuverOne
	Taxation
	Factory
	ProductionTwo
	ManeuverTwo
)

// InvalidSpace 表示存储里解码失败的格子，只会出现在损坏的数据里。
const InvalidSpace Space = -1

const spaceCount = 8

var spaceNames = [spaceCount]string{
	"Investor",
	"Import",
	"ProductionOne",
	"ManeuverOne",
	"Taxation",
	"Factory",
	"ProductionTwo",
	"ManeuverTwo",
}

func (s Space) Valid() bool {
	return s >= Investor && s <= ManeuverTwo
}

func (s Space) String() string {
	if !s.Valid() {
		return "Invalid"
	}
	return spaceNames[s]
}

// Spaces 按顺时针顺序返回全部格子。
func Spaces() []Space {
	out := make([]Space, 0, spaceCount)
	for s := Investor; s <= ManeuverTwo; s++ {
		out = append(out, s)
	}
	return out
}

// ParseSpace 把边界上的字符串转换为格子（大小写不敏感）。
func ParseSpace(raw string) (Space, error) {
	name := strings.TrimSpace(raw)
	for i, n := range spaceNames {
		if strings.EqualFold(n, name) {
			return Space(i), nil
		}
	}
	return InvalidSpace, ErrInvalidSpace.WithData("space", raw)
}

// Distance 顺时针距离，范围 [0,7]；没有逆时针走法。
func Distance(from, to Space) int {
	return ((int(to)-int(from))%spaceCount + spaceCount) % spaceCount
}

// Action 是格子触发的行动。
type Action int

const (
	ActionInvestor Action = iota
	ActionImport
	ActionProduction
	ActionManeuver
	ActionTaxation
	ActionFactory
)

var actionNames = [...]string{"Investor", "Import", "Production", "Maneuver", "Taxation", "Factory"}

func (a Action) String() string {
	if a < ActionInvestor || int(a) >= len(actionNames) {
		return "Invalid"
	}
	return actionNames[a]
}

// ToAction 两个生产格、两个机动格分别共享同一个行动。
func ToAction(s Space) Action {
	switch s {
	case Investor:
		return ActionInvestor
	case Import:
		return ActionImport
	case ProductionOne, ProductionTwo:
		return ActionProduction
	case ManeuverOne, ManeuverTwo:
		return ActionManeuver
	case Taxation:
		return ActionTaxation
	case Factory:
		return ActionFactory
	default:
		panic("rondel: action for invalid space " + s.String())
	}
}
