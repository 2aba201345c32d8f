package payroll

import "fmt"

// Summary aggregates the whole employee set for the month.
type Summary struct {
	EmployeeCount int     `json:"employee_count"`
	TotalPayroll  float64 `json:"total_payroll"`
	AverageNet    float64 `json:"average_net"`
}

// RegisterRow is one line of the payroll register: what each employee
// earns and loses this month, settled under one late policy.
type RegisterRow struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	BaseSalary float64 `json:"base_salary"`
	Additions  float64 `json:"additions"`
	Deductions float64 `json:"deductions"`
	NetSalary  float64 `json:"net_salary"`
}

// Summary totals net salaries across the store. An empty store is an
// error; there is no meaningful average of nothing.
func (s *Store) Summary(policy LatePolicy) (Summary, error) {
	if s.Count() == 0 {
		return Summary{}, ErrEmptySet
	}
	var total float64
	for e := range s.All() {
		net, err := e.NetSalary(policy)
		if err != nil {
			return Summary{}, fmt.Errorf("employee %q: %w", e.ID, err)
		}
		total += net
	}
	return Summary{
		EmployeeCount: s.Count(),
		TotalPayroll:  total,
		AverageNet:    total / float64(s.Count()),
	}, nil
}

// Register builds the per-employee payroll register in store order.
func (s *Store) Register(policy LatePolicy) ([]RegisterRow, error) {
	if s.Count() == 0 {
		return nil, ErrEmptySet
	}
	rows := make([]RegisterRow, 0, s.Count())
	for e := range s.All() {
		late, err := e.LateDeduction(policy)
		if err != nil {
			return nil, fmt.Errorf("employee %q: %w", e.ID, err)
		}
		extraHours, err := e.ExtraHoursPay()
		if err != nil {
			return nil, fmt.Errorf("employee %q: %w", e.ID, err)
		}
		net, err := e.NetSalary(policy)
		if err != nil {
			return nil, fmt.Errorf("employee %q: %w", e.ID, err)
		}
		rows = append(rows, RegisterRow{
			ID:         e.ID,
			Name:       e.Name,
			BaseSalary: e.BaseSalary,
			Additions:  e.ExtraDaysPay() + extraHours,
			Deductions: e.AbsenceDeduction() + late + e.InsuranceDeduction + e.PenaltyDeduction + e.Advance + e.Withdrawals,
			NetSalary:  net,
		})
	}
	return rows, nil
}
