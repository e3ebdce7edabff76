package blackjack

import "errors"

var (
	ErrRunEnded  = errors.New("run already ended")
	ErrShoeEmpty = errors.New("shoe exhausted")
	ErrNoEnemy   = errors.New("no enemy in play")
	ErrNoTrinket = errors.New("no trinket in slot")
	ErrNoEvent   = errors.New("no event active")
)

type InvalidStateError string

func (e InvalidStateError) Error() string { return "invalid state: " + string(e) }

func ErrInvalidState(msg string) error { return InvalidStateError(msg) }

// RejectReason classifies why an input command was refused. Commands
// never panic and never corrupt state; they hand the reason back to
// the host.
type RejectReason byte

const (
	RejectInvalidState      RejectReason = 0
	RejectInvalidTarget     RejectReason = 1
	RejectInsufficientChips RejectReason = 2
	RejectNotCurrentPlayer  RejectReason = 3
	RejectIllegalAction     RejectReason = 4
	RejectLocked            RejectReason = 5
	RejectCannotAfford      RejectReason = 6
)

var rejectReasonDictionary = map[RejectReason]string{
	RejectInvalidState:      "invalid_state",
	RejectInvalidTarget:     "invalid_target",
	RejectInsufficientChips: "insufficient_chips",
	RejectNotCurrentPlayer:  "not_current_player",
	RejectIllegalAction:     "illegal_action",
	RejectLocked:            "locked",
	RejectCannotAfford:      "cannot_afford",
}

func (r RejectReason) String() string {
	if name, ok := rejectReasonDictionary[r]; ok {
		return name
	}
	return "unknown"
}

// RejectedError is the typed refusal returned by every input command.
type RejectedError struct {
	Reason RejectReason
	Msg    string
}

func (e *RejectedError) Error() string {
	if e.Msg == "" {
		return "rejected: " + e.Reason.String()
	}
	return "rejected: " + e.Reason.String() + ": " + e.Msg
}

func reject(reason RejectReason, msg string) error {
	return &RejectedError{Reason: reason, Msg: msg}
}

// RejectedReason extracts the reason from a command error, with ok
// false for nil or foreign errors.
func RejectedReason(err error) (RejectReason, bool) {
	var re *RejectedError
	if errors.As(err, &re) {
		return re.Reason, true
	}
	return 0, false
}
