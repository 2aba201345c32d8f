package payslip

import (
	"fmt"
	"strings"
	"time"

	"factorypay/internal/domain/payroll"
)

// RenderRegister lays the payroll register out as the fixed-width text
// table carried by exported report files.
func RenderRegister(rows []payroll.RegisterRow, summary payroll.Summary, policy payroll.LatePolicy) string {
	var b strings.Builder
	rule := strings.Repeat("=", 78)

	b.WriteString(rule + "\n")
	b.WriteString("PAYROLL REGISTER\n")
	fmt.Fprintf(&b, "Policy: %s lateness\n", policy)
	fmt.Fprintf(&b, "Generated: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "%-10s %-24s %12s %12s %12s %12s\n", "ID", "Name", "Base", "Additions", "Deductions", "Net")
	b.WriteString(strings.Repeat("-", 78) + "\n")
	for _, row := range rows {
		fmt.Fprintf(&b, "%-10s %-24s %12.2f %12.2f %12.2f %12.2f\n",
			row.ID, clipName(row.Name, 24), row.BaseSalary, row.Additions, row.Deductions, row.NetSalary)
	}
	b.WriteString(strings.Repeat("-", 78) + "\n")
	fmt.Fprintf(&b, "Employees: %d\n", summary.EmployeeCount)
	fmt.Fprintf(&b, "Total payroll: %.2f\n", summary.TotalPayroll)
	fmt.Fprintf(&b, "Average net: %.2f\n", summary.AverageNet)
	b.WriteString(rule + "\n")
	return b.String()
}

func clipName(name string, width int) string {
	runes := []rune(name)
	if len(runes) <= width {
		return name
	}
	return string(runes[:width])
}
