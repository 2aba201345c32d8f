package payroll

import (
	"errors"
	"testing"
)

func TestSummaryEmptyStore(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Summary(PenalizedLateness); !errors.Is(err, ErrEmptySet) {
		t.Fatalf("expected ErrEmptySet, got %v", err)
	}
}

func TestSummaryTotalsNetSalaries(t *testing.T) {
	s := newTestStore(t)
	if err := s.Add(sampleEmployee()); err != nil {
		t.Fatalf("add: %v", err)
	}
	mustAdd(t, s, "E002", "Sara Ali", 2400)

	got, err := s.Summary(PenalizedLateness)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if got.EmployeeCount != 2 {
		t.Fatalf("expected 2 employees, got %d", got.EmployeeCount)
	}
	// 2781.25 for the sample employee plus a clean 2400.
	if got.TotalPayroll != 5181.25 {
		t.Fatalf("expected total 5181.25, got %v", got.TotalPayroll)
	}
	if !approx(got.AverageNet, 5181.25/2) {
		t.Fatalf("expected average %v, got %v", 5181.25/2, got.AverageNet)
	}
}

func TestSummarySurfacesBadRecord(t *testing.T) {
	s := newTestStore(t)
	e := sampleEmployee()
	e.HoursPerDay = 0
	if err := s.Add(e); err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := s.Summary(PenalizedLateness); !errors.Is(err, ErrZeroHours) {
		t.Fatalf("expected ErrZeroHours, got %v", err)
	}
}

func TestRegisterRows(t *testing.T) {
	s := newTestStore(t)
	if err := s.Add(sampleEmployee()); err != nil {
		t.Fatalf("add: %v", err)
	}
	mustAdd(t, s, "E002", "Sara Ali", 2400)

	rows, err := s.Register(PenalizedLateness)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	first := rows[0]
	if first.ID != "E001" || first.Name != "Ahmed Hassan" {
		t.Fatalf("expected sample employee first, got %+v", first)
	}
	// Extra day 100 plus four extra hours at 12.5.
	if !approx(first.Additions, 150) {
		t.Fatalf("expected additions 150, got %v", first.Additions)
	}
	// Absence 200, late 18.75, insurance 100, penalty 50.
	if !approx(first.Deductions, 368.75) {
		t.Fatalf("expected deductions 368.75, got %v", first.Deductions)
	}
	if first.NetSalary != 2781.25 {
		t.Fatalf("expected net 2781.25, got %v", first.NetSalary)
	}

	second := rows[1]
	if second.Additions != 0 || second.Deductions != 0 || second.NetSalary != 2400 {
		t.Fatalf("expected clean row for E002, got %+v", second)
	}
}

func TestRegisterEmptyStore(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Register(PenalizedLateness); !errors.Is(err, ErrEmptySet) {
		t.Fatalf("expected ErrEmptySet, got %v", err)
	}
}
