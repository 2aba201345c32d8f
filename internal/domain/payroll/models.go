package payroll

import "encoding/json"

// Employee is one payroll record. Monetary amounts are monthly figures
// in the plant's operating currency; adjustment fields describe the
// month being paid and are reset by the operator between cycles.
type Employee struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	BaseSalary         float64 `json:"base_salary"`
	HoursPerDay        int     `json:"hours_per_day"`
	InsuranceDeduction float64 `json:"insurance_deduction"`
	AbsenceDays        float64 `json:"absence_days"`
	LateMinutes        float64 `json:"late_minutes"`
	ExtraDays          float64 `json:"extra_days"`
	ExtraHours         float64 `json:"extra_hours"`
	PenaltyDeduction   float64 `json:"penalty_deduction"`
	Advance            float64 `json:"advance"`
	Withdrawals        float64 `json:"withdrawals"`
}

// NewEmployee builds a record with zeroed adjustments. hoursPerDay must
// be positive so wage derivations never divide by zero.
func NewEmployee(id, name string, baseSalary float64, hoursPerDay int, insurance float64) (*Employee, error) {
	if hoursPerDay <= 0 {
		return nil, ErrZeroHours
	}
	return &Employee{
		ID:                 id,
		Name:               name,
		BaseSalary:         baseSalary,
		HoursPerDay:        hoursPerDay,
		InsuranceDeduction: insurance,
	}, nil
}

// UnmarshalJSON fills in DefaultHoursPerDay when a record omits
// hours_per_day. Older snapshots predate the field.
func (e *Employee) UnmarshalJSON(data []byte) error {
	type plain Employee
	aux := struct {
		HoursPerDay *int `json:"hours_per_day"`
		*plain
	}{plain: (*plain)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.HoursPerDay == nil {
		e.HoursPerDay = DefaultHoursPerDay
	} else {
		e.HoursPerDay = *aux.HoursPerDay
	}
	return nil
}
