package payslip

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"factorypay/internal/domain/payroll"
)

// Line is one priced item on a payslip. The label carries the unit
// count the amount was derived from, mirroring the printed card.
type Line struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// Payslip is a settled month for one employee: every addition and
// deduction priced out, with the net under one late policy.
type Payslip struct {
	EmployeeID  string             `json:"employee_id"`
	Name        string             `json:"name"`
	HoursPerDay int                `json:"hours_per_day"`
	BaseSalary  float64            `json:"base_salary"`
	DailyWage   float64            `json:"daily_wage"`
	HourlyWage  float64            `json:"hourly_wage"`
	Additions   []Line             `json:"additions"`
	Deductions  []Line             `json:"deductions"`
	NetSalary   float64            `json:"net_salary"`
	LatePolicy  payroll.LatePolicy `json:"late_policy"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// Build prices a payslip from the employee's current record. Advance
// and withdrawal lines appear only when nonzero; the four standard
// deduction lines are always printed, zeros included.
func Build(e *payroll.Employee, policy payroll.LatePolicy) (Payslip, error) {
	hourly, err := e.HourlyWage()
	if err != nil {
		return Payslip{}, fmt.Errorf("employee %q: %w", e.ID, err)
	}
	late, err := e.LateDeduction(policy)
	if err != nil {
		return Payslip{}, fmt.Errorf("employee %q: %w", e.ID, err)
	}
	extraHours, err := e.ExtraHoursPay()
	if err != nil {
		return Payslip{}, fmt.Errorf("employee %q: %w", e.ID, err)
	}
	net, err := e.NetSalary(policy)
	if err != nil {
		return Payslip{}, fmt.Errorf("employee %q: %w", e.ID, err)
	}

	additions := []Line{
		{Label: fmt.Sprintf("Extra days (%g)", e.ExtraDays), Amount: e.ExtraDaysPay()},
		{Label: fmt.Sprintf("Extra hours (%g)", e.ExtraHours), Amount: extraHours},
	}
	deductions := []Line{
		{Label: fmt.Sprintf("Absence (%g days)", e.AbsenceDays), Amount: e.AbsenceDeduction()},
		{Label: fmt.Sprintf("Lateness (%g min)", e.LateMinutes), Amount: late},
		{Label: "Insurance", Amount: e.InsuranceDeduction},
		{Label: "Penalty", Amount: e.PenaltyDeduction},
	}
	if e.Advance != 0 {
		deductions = append(deductions, Line{Label: "Advance", Amount: e.Advance})
	}
	if e.Withdrawals != 0 {
		deductions = append(deductions, Line{Label: "Withdrawals", Amount: e.Withdrawals})
	}

	return Payslip{
		EmployeeID:  e.ID,
		Name:        e.Name,
		HoursPerDay: e.HoursPerDay,
		BaseSalary:  e.BaseSalary,
		DailyWage:   e.DailyWage(),
		HourlyWage:  hourly,
		Additions:   additions,
		Deductions:  deductions,
		NetSalary:   net,
		LatePolicy:  policy,
		GeneratedAt: time.Now(),
	}, nil
}

// RenderText formats the payslip as the printable card shown on the
// operator console.
func RenderText(slip Payslip) string {
	var b strings.Builder
	rule := strings.Repeat("=", 70)
	thin := strings.Repeat("-", 70)

	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "PAYSLIP - %s\n", slip.Name)
	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "Employee ID: %s\n", slip.EmployeeID)
	fmt.Fprintf(&b, "Working hours: %d hours/day\n", slip.HoursPerDay)
	fmt.Fprintf(&b, "%s\n", thin)
	fmt.Fprintf(&b, "Base salary: %.2f\n", slip.BaseSalary)
	b.WriteString("\nAdditions:\n")
	for _, line := range slip.Additions {
		fmt.Fprintf(&b, "  + %s: %.2f\n", line.Label, line.Amount)
	}
	b.WriteString("\nDeductions:\n")
	for _, line := range slip.Deductions {
		fmt.Fprintf(&b, "  - %s: %.2f\n", line.Label, line.Amount)
	}
	fmt.Fprintf(&b, "%s\n", thin)
	fmt.Fprintf(&b, "Net salary: %.2f\n", slip.NetSalary)
	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "Printed at: %s\n", slip.GeneratedAt.Format("2006-01-02 15:04:05"))
	return b.String()
}

// RenderPDF writes the payslip as an A4 PDF at path, creating parent
// directories as needed.
func RenderPDF(slip Payslip, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create payslip dir %s: %w", dir, err)
		}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s (%s)", slip.Name, slip.EmployeeID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Working hours: %d hours/day", slip.HoursPerDay))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Generated: %s", slip.GeneratedAt.Format("2006-01-02 15:04:05")))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Base salary: %.2f", slip.BaseSalary))
	pdf.Ln(9)
	for _, line := range slip.Additions {
		pdf.Cell(0, 8, fmt.Sprintf("+ %s: %.2f", line.Label, line.Amount))
		pdf.Ln(7)
	}
	for _, line := range slip.Deductions {
		pdf.Cell(0, 8, fmt.Sprintf("- %s: %.2f", line.Label, line.Amount))
		pdf.Ln(7)
	}
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, fmt.Sprintf("Net salary: %.2f", slip.NetSalary))

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write payslip %s: %w", path, err)
	}
	return nil
}
