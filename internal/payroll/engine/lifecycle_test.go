package engine_test

import (
	"testing"

	"go-payroll/internal/payroll/engine"

	"github.com/stretchr/testify/assert"
)

func TestIsLocked(t *testing.T) {
	assert.False(t, engine.IsLocked(engine.StatusPending))
	assert.False(t, engine.IsLocked(engine.StatusFailed))
	assert.True(t, engine.IsLocked(engine.StatusProcessing))
	assert.True(t, engine.IsLocked(engine.StatusPaid))
}

func TestCanEdit(t *testing.T) {
	pending := engine.Record{Status: engine.StatusPending}
	paid := engine.Record{Status: engine.StatusPaid}
	clerk := engine.AuthContext{ActorID: "clerk"}
	admin := engine.AuthContext{ActorID: "admin", Override: true}

	assert.True(t, engine.CanEdit(pending, []string{engine.FieldBonus, engine.FieldRemarks}, clerk))
	assert.False(t, engine.CanEdit(paid, []string{engine.FieldRemarks}, clerk))
	assert.True(t, engine.CanEdit(paid, []string{engine.FieldRemarks}, admin))

	for _, derived := range []string{engine.FieldGrossSalary, engine.FieldTotalDeductions, engine.FieldNetSalary, engine.FieldProration, engine.FieldPaymentStatus} {
		assert.False(t, engine.CanEdit(pending, []string{derived}, admin), derived)
	}
	assert.False(t, engine.CanEdit(pending, []string{"salary_grade"}, clerk))
}

func TestTransition(t *testing.T) {
	clerk := engine.AuthContext{ActorID: "clerk"}
	admin := engine.AuthContext{ActorID: "admin", Override: true, Reason: "payment bounced"}

	cases := []struct {
		name    string
		from    engine.PaymentStatus
		req     engine.TransitionRequest
		auth    engine.AuthContext
		wantErr error
	}{
		{"pending to processing confirmed", engine.StatusPending, engine.TransitionRequest{To: engine.StatusProcessing, Confirmed: true}, clerk, nil},
		{"pending to processing unconfirmed", engine.StatusPending, engine.TransitionRequest{To: engine.StatusProcessing}, clerk, engine.ErrConfirmationRequired},
		{"pending to paid unconfirmed", engine.StatusPending, engine.TransitionRequest{To: engine.StatusPaid}, clerk, engine.ErrConfirmationRequired},
		{"pending to failed", engine.StatusPending, engine.TransitionRequest{To: engine.StatusFailed}, clerk, nil},
		{"processing to paid", engine.StatusProcessing, engine.TransitionRequest{To: engine.StatusPaid}, clerk, nil},
		{"processing to failed", engine.StatusProcessing, engine.TransitionRequest{To: engine.StatusFailed}, clerk, nil},
		{"failed retry", engine.StatusFailed, engine.TransitionRequest{To: engine.StatusPending}, clerk, nil},
		{"failed to paid", engine.StatusFailed, engine.TransitionRequest{To: engine.StatusPaid, Confirmed: true}, clerk, engine.ErrInvalidTransition},
		{"paid reversal without override", engine.StatusPaid, engine.TransitionRequest{To: engine.StatusFailed}, clerk, engine.ErrRecordLocked},
		{"paid reversal with override", engine.StatusPaid, engine.TransitionRequest{To: engine.StatusFailed}, admin, nil},
		{"paid to processing", engine.StatusPaid, engine.TransitionRequest{To: engine.StatusProcessing}, admin, engine.ErrInvalidTransition},
		{"same state", engine.StatusPending, engine.TransitionRequest{To: engine.StatusPending}, clerk, engine.ErrInvalidTransition},
		{"unknown target", engine.StatusPending, engine.TransitionRequest{To: "Archived"}, clerk, engine.ErrInvalidStatus},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := engine.Record{Status: tc.from}

			out, err := engine.Transition(rec, tc.req, tc.auth, fixedNow)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.req.To, out.Status)
			assert.Equal(t, tc.from, rec.Status)
		})
	}
}

func TestTransition_PaidSetsPaymentDate(t *testing.T) {
	rec := engine.Record{Status: engine.StatusProcessing}

	out, err := engine.Transition(rec, engine.TransitionRequest{To: engine.StatusPaid, PaymentMethod: "bank_transfer"}, engine.AuthContext{}, fixedNow)

	assert.NoError(t, err)
	if assert.NotNil(t, out.PaymentDate) {
		assert.Equal(t, fixedNow, *out.PaymentDate)
	}
	assert.Equal(t, "bank_transfer", out.PaymentMethod)
	assert.Empty(t, out.OverrideLog)
}

func TestTransition_OverrideReversalIsLogged(t *testing.T) {
	paidAt := fixedNow.AddDate(0, 0, -1)
	rec := engine.Record{Status: engine.StatusPaid, PaymentDate: &paidAt}

	out, err := engine.Transition(rec, engine.TransitionRequest{To: engine.StatusPending}, engine.AuthContext{ActorID: "admin", Override: true}, fixedNow)

	assert.NoError(t, err)
	assert.Nil(t, out.PaymentDate)
	if assert.Len(t, out.OverrideLog, 1) {
		assert.Equal(t, "status Paid -> Pending", out.OverrideLog[0].Action)
		assert.Equal(t, []string{engine.FieldPaymentStatus}, out.OverrideLog[0].Fields)
	}
	assert.NotNil(t, rec.PaymentDate)
}
