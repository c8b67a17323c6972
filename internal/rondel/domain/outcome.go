package domain

// Outcome 决策链的终态，五选一。
type Outcome interface {
	Kind() OutcomeKind
	outcome()
}

type OutcomeKind int

const (
	KindRejected OutcomeKind = iota
	KindFree
	KindFreeWithSupersedingUnpaidMovement
	KindPaid
	KindPaidWithSupersedingUnpaidMovement
)

var outcomeKindNames = [...]string{
	"rejected",
	"free",
	"free_superseding",
	"paid",
	"paid_superseding",
}

func (k OutcomeKind) String() string {
	if k < KindRejected || int(k) >= len(outcomeKindNames) {
		return "unknown"
	}
	return outcomeKindNames[k]
}

// RejectReason 规则拒绝原因，用于日志与指标。
type RejectReason string

const (
	RejectNotInitialized     RejectReason = "GAME_NOT_INITIALIZED"
	RejectUnknownNation      RejectReason = "UNKNOWN_NATION"
	RejectStayPut            RejectReason = "STAY_PUT"
	RejectExceedsMaxDistance RejectReason = "EXCEEDS_MAX_DISTANCE"
)

func (r RejectReason) ReasonCode() string { return string(r) }

type Rejected struct {
	Command Move
	Reason  RejectReason
}

type Free struct {
	Nation Nation
	Space  Space
}

type FreeWithSupersedingUnpaidMovement struct {
	Nation     Nation
	Space      Space
	Superseded PendingMovement
}

type Paid struct {
	Nation   Nation
	Space    Space
	Distance int
}

type PaidWithSupersedingUnpaidMovement struct {
	Nation     Nation
	Space      Space
	Distance   int
	Superseded PendingMovement
}

func (Rejected) Kind() OutcomeKind { return KindRejected }
func (Free) Kind() OutcomeKind     { return KindFree }
func (FreeWithSupersedingUnpaidMovement) Kind() OutcomeKind {
	return KindFreeWithSupersedingUnpaidMovement
}
func (Paid) Kind() OutcomeKind { return KindPaid }
func (PaidWithSupersedingUnpaidMovement) Kind() OutcomeKind {
	return KindPaidWithSupersedingUnpaidMovement
}

func (Rejected) outcome()                          {}
func (Free) outcome()                              {}
func (FreeWithSupersedingUnpaidMovement) outcome() {}
func (Paid) outcome()                              {}
func (PaidWithSupersedingUnpaidMovement) outcome() {}
