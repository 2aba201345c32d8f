package payroll

import "math"

// Wage derivations. Every figure divides out of the monthly base salary
// using the 30-day month convention. Intermediate values are never
// rounded; only NetSalary rounds, once, at the end.

func (e *Employee) DailyWage() float64 {
	return e.BaseSalary / DaysPerMonth
}

func (e *Employee) HourlyWage() (float64, error) {
	if e.HoursPerDay <= 0 {
		return 0, ErrZeroHours
	}
	return e.DailyWage() / float64(e.HoursPerDay), nil
}

func (e *Employee) MinuteWage() (float64, error) {
	hourly, err := e.HourlyWage()
	if err != nil {
		return 0, err
	}
	return hourly / MinutesPerHour, nil
}

func (e *Employee) AbsenceDeduction() float64 {
	return e.AbsenceDays * e.DailyWage()
}

// LateDeduction prices recorded late minutes under the given policy.
func (e *Employee) LateDeduction(policy LatePolicy) (float64, error) {
	minute, err := e.MinuteWage()
	if err != nil {
		return 0, err
	}
	return e.LateMinutes * minute * policy.multiplier(), nil
}

func (e *Employee) ExtraDaysPay() float64 {
	return e.ExtraDays * e.DailyWage()
}

func (e *Employee) ExtraHoursPay() (float64, error) {
	hourly, err := e.HourlyWage()
	if err != nil {
		return 0, err
	}
	return e.ExtraHours * hourly, nil
}

// NetSalary settles the month: base plus extra pay, minus absence,
// lateness, insurance, penalty, advance and withdrawals. The result is
// rounded to two decimals and may be negative when deductions exceed
// earnings.
func (e *Employee) NetSalary(policy LatePolicy) (float64, error) {
	late, err := e.LateDeduction(policy)
	if err != nil {
		return 0, err
	}
	extraHours, err := e.ExtraHoursPay()
	if err != nil {
		return 0, err
	}
	net := e.BaseSalary +
		e.ExtraDaysPay() +
		extraHours -
		e.AbsenceDeduction() -
		late -
		e.InsuranceDeduction -
		e.PenaltyDeduction -
		e.Advance -
		e.Withdrawals
	return round2(net), nil
}

// round2 rounds half away from zero to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
