package domain

import "fmt"

// Amount 非负金额，单位 million。
type Amount struct {
	value int
}

func NewAmount(v int) (Amount, error) {
	if v < 0 {
		return Amount{}, ErrNegativeAmount.WithData("amount", v)
	}
	return Amount{value: v}, nil
}

func (a Amount) Value() int {
	return a.value
}

func (a Amount) String() string {
	return fmt.Sprintf("%dM", a.value)
}

// movementCharge 付费移动的费用：(距离-3)*2，即 4/5/6 格分别 2/4/6。
// 费用只在这里计算，下游不得重算。
func movementCharge(distance int) Amount {
	a, err := NewAmount((distance - freeMoveLimit) * 2)
	if err != nil {
		panic(fmt.Sprintf("rondel: charge for free distance %d", distance))
	}
	return a
}
