package payroll

import (
	"fmt"
	"sort"
)

// Adjustment field names accepted by Store.Update. These are the
// per-month figures; identity, base salary, hours and insurance change
// through their own operations, not through adjustments.
const (
	FieldAbsenceDays      = "absence_days"
	FieldLateMinutes      = "late_minutes"
	FieldExtraDays        = "extra_days"
	FieldExtraHours       = "extra_hours"
	FieldPenaltyDeduction = "penalty_deduction"
	FieldAdvance          = "advance"
	FieldWithdrawals      = "withdrawals"
)

var adjustmentSetters = map[string]func(*Employee, float64){
	FieldAbsenceDays:      func(e *Employee, v float64) { e.AbsenceDays = v },
	FieldLateMinutes:      func(e *Employee, v float64) { e.LateMinutes = v },
	FieldExtraDays:        func(e *Employee, v float64) { e.ExtraDays = v },
	FieldExtraHours:       func(e *Employee, v float64) { e.ExtraHours = v },
	FieldPenaltyDeduction: func(e *Employee, v float64) { e.PenaltyDeduction = v },
	FieldAdvance:          func(e *Employee, v float64) { e.Advance = v },
	FieldWithdrawals:      func(e *Employee, v float64) { e.Withdrawals = v },
}

// AdjustmentFields lists the accepted field names in stable order, for
// error messages and input prompts.
func AdjustmentFields() []string {
	names := make([]string, 0, len(adjustmentSetters))
	for name := range adjustmentSetters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// applyAdjustments validates every field name before touching the
// record, so an unknown name leaves the employee unchanged.
func applyAdjustments(e *Employee, changes map[string]float64) error {
	for name := range changes {
		if _, ok := adjustmentSetters[name]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
	}
	for name, value := range changes {
		adjustmentSetters[name](e, value)
	}
	return nil
}
