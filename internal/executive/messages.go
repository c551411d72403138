package executive

import (
	"fmt"
	"regexp"
)

// MessageKind classifies the single communication Number 10 sends per turn.
type MessageKind string

const (
	MsgReshuffle        MessageKind = "reshuffle"
	MsgSupportWithdrawn MessageKind = "support_withdrawn"
	MsgSupportRestored  MessageKind = "support_restored"
	MsgDemand           MessageKind = "demand"
	MsgThreat           MessageKind = "threat"
	MsgWarning          MessageKind = "warning"
	MsgConcern          MessageKind = "concern"
	MsgPraise           MessageKind = "praise"
	MsgCheckIn          MessageKind = "checkin"
)

// Message is the one communication selected for a turn.
type Message struct {
	Kind MessageKind `json:"kind"`
	Body string      `json:"body"`
	Turn int         `json:"turn"`
}

// MessageFacts is what the selector reads, beyond the relationship state.
type MessageFacts struct {
	Turn          int
	SupportChange int // -1 withdrawn this turn, +1 restored, 0 unchanged
	NewDemand     *Demand
	Compliant     bool
	Approval      float64
	Mood          float64
	Headroom      float64
}

// How often the PM checks in when nothing else qualifies, in turns.
const checkInInterval = 6

// Trust bands gating the templated messages.
const (
	threatTrust  = 30.0
	concernTrust = 45.0
	praiseTrust  = 70.0
)

// SelectMessage picks at most one message from the prioritized catalogue.
// Scheduled check-ins are suppressed whenever any event-triggered message
// qualifies. Escalation: the first sub-30-trust turn gets a warning; later
// qualifying turns get threats.
func (rel *Relationship) SelectMessage(f MessageFacts) *Message {
	vars := map[string]string{
		"trust":    fmt.Sprintf("%.0f", rel.Trust),
		"patience": fmt.Sprintf("%.0f", rel.Patience),
		"approval": fmt.Sprintf("%.0f", f.Approval),
		"mood":     fmt.Sprintf("%.0f", f.Mood),
		"headroom": fmt.Sprintf("%.1f", f.Headroom),
	}
	if rel.Reshuffle != nil {
		vars["reason"] = rel.Reshuffle.Reason
	}
	if f.NewDemand != nil {
		vars["target"] = fmt.Sprintf("%.1f", f.NewDemand.Target)
		vars["deadline"] = fmt.Sprintf("%d", f.NewDemand.DeadlineTurn)
		vars["demand"] = string(f.NewDemand.Kind)
	}

	emit := func(kind MessageKind, tpl string) *Message {
		return &Message{Kind: kind, Body: fill(tpl, vars), Turn: f.Turn}
	}

	switch {
	case rel.Reshuffle != nil && rel.Reshuffle.Turn == f.Turn:
		return emit(MsgReshuffle, "The Prime Minister has asked for your resignation. {reason}")

	case f.SupportChange < 0:
		return emit(MsgSupportWithdrawn, "Number 10 will no longer defend your budget in public. Patience stands at {patience}.")

	case f.SupportChange > 0:
		return emit(MsgSupportRestored, "Number 10 is back behind you. Don't waste it.")

	case f.NewDemand != nil:
		return emit(MsgDemand, "The Prime Minister demands {demand} to {target} by turn {deadline}. This is not a request.")

	case rel.Trust < threatTrust && rel.WarningsIssued >= 1:
		rel.WarningsIssued++
		return emit(MsgThreat, "You were warned. Trust is at {trust} and colleagues are circling your job.")

	case rel.Trust < threatTrust:
		rel.WarningsIssued++
		return emit(MsgWarning, "The Prime Minister is losing confidence in you. Trust is at {trust}; turn it around.")

	case rel.Trust < concernTrust:
		return emit(MsgConcern, "Number 10 is uneasy about the numbers. Approval {approval}, party mood {mood}.")

	case rel.Trust > praiseTrust && f.Compliant:
		return emit(MsgPraise, "The Prime Minister is pleased: the framework holds with {headroom}bn of headroom.")

	case f.Turn > 0 && f.Turn%checkInInterval == 0:
		return emit(MsgCheckIn, "Routine catch-up with Number 10. Trust {trust}, patience {patience}.")
	}
	return nil
}

var tokenRe = regexp.MustCompile(`\{(\w+)\}`)

// fill substitutes {token} placeholders from vars. Unknown tokens degrade to
// a placeholder rather than failing, so a template referencing a field the
// engine did not supply still renders.
func fill(tpl string, vars map[string]string) string {
	return tokenRe.ReplaceAllStringFunc(tpl, func(m string) string {
		key := m[1 : len(m)-1]
		if v, ok := vars[key]; ok {
			return v
		}
		return "?"
	})
}
