package engine

import (
	"fmt"
	"time"
)

type PaymentStatus string

const (
	StatusPending    PaymentStatus = "Pending"
	StatusProcessing PaymentStatus = "Processing"
	StatusPaid       PaymentStatus = "Paid"
	StatusFailed     PaymentStatus = "Failed"
)

func ParseStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case StatusPending, StatusProcessing, StatusPaid, StatusFailed:
		return PaymentStatus(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// IsLocked depends on the status alone.
func IsLocked(s PaymentStatus) bool {
	return s == StatusProcessing || s == StatusPaid
}

// AuthContext is supplied by the caller on every lifecycle-sensitive call.
// Override bypasses the lock rule and is always recorded in the override log.
type AuthContext struct {
	ActorID  string
	Override bool
	Reason   string
}

var transitions = map[PaymentStatus][]PaymentStatus{
	StatusPending:    {StatusProcessing, StatusPaid, StatusFailed},
	StatusProcessing: {StatusPaid, StatusFailed},
	StatusFailed:     {StatusPending},
}

// reversals are only reachable under admin override.
var reversals = map[PaymentStatus][]PaymentStatus{
	StatusPaid:       {StatusPending, StatusFailed},
	StatusProcessing: {StatusPending},
}

func contains(list []PaymentStatus, s PaymentStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

type TransitionRequest struct {
	To PaymentStatus
	// Confirmed must be set when the transition locks a previously editable record.
	Confirmed     bool
	PaymentMethod string
}

// Transition moves a record through the payment lifecycle and returns the
// updated copy.
func Transition(rec Record, req TransitionRequest, auth AuthContext, now time.Time) (Record, error) {
	from := rec.Status
	if from == "" {
		from = StatusPending
	}
	if _, err := ParseStatus(string(req.To)); err != nil {
		return Record{}, err
	}

	overridden := false
	switch {
	case contains(transitions[from], req.To):
	case contains(reversals[from], req.To):
		if !auth.Override {
			return Record{}, fmt.Errorf("%w: %s -> %s requires admin override", ErrRecordLocked, from, req.To)
		}
		overridden = true
	default:
		return Record{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, req.To)
	}

	if !IsLocked(from) && IsLocked(req.To) && !req.Confirmed {
		return Record{}, fmt.Errorf("%w: %s -> %s", ErrConfirmationRequired, from, req.To)
	}

	out := rec.clone()
	out.Status = req.To
	if req.PaymentMethod != "" {
		out.PaymentMethod = req.PaymentMethod
	}
	switch {
	case req.To == StatusPaid:
		paidAt := now.UTC()
		out.PaymentDate = &paidAt
	case from == StatusPaid:
		out.PaymentDate = nil
	}

	if overridden {
		out = out.appendOverride(OverrideEntry{
			At:      now.UTC(),
			ActorID: auth.ActorID,
			Action:  fmt.Sprintf("status %s -> %s", from, req.To),
			Fields:  []string{FieldPaymentStatus},
			Reason:  auth.Reason,
		})
	}

	return out, nil
}
