package main

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"factorypay/internal/domain/payroll"
	"factorypay/internal/domain/payslip"
	"factorypay/internal/platform/config"
)

// payrollctl is the interactive console for operators who run payroll
// at a terminal instead of through the HTTP API. Both front ends share
// the same snapshot file, so changes made here show up in the server
// after a reload.
type console struct {
	store     *payroll.Store
	policy    payroll.LatePolicy
	autosave  bool
	reportDir string
	in        *bufio.Scanner
	eof       bool
}

func main() {
	// .env is optional; the real environment always wins.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}
	policy, err := payroll.ParseLatePolicy(cfg.LatePolicy)
	if err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	store := payroll.NewStore(cfg.SnapshotPath, cfg.BackupDir)
	if err := store.Load(); err != nil {
		fmt.Printf("snapshot could not be read (%v); starting with an empty employee set\n", err)
	} else if store.Count() > 0 {
		fmt.Printf("loaded %d employees from %s\n", store.Count(), store.Path())
	}

	c := &console{
		store:     store,
		policy:    policy,
		autosave:  cfg.Autosave,
		reportDir: cfg.ReportDir,
		in:        bufio.NewScanner(os.Stdin),
	}
	c.run()
}

func (c *console) run() {
	for {
		fmt.Println()
		fmt.Println(strings.Repeat("=", 60))
		fmt.Println("FACTORY PAYROLL")
		fmt.Println(strings.Repeat("=", 60))
		fmt.Println("1. Add employee")
		fmt.Println("2. List employees")
		fmt.Println("3. Update employee (absence/late/extra/deductions)")
		fmt.Println("4. Remove employee")
		fmt.Println("5. Print payslip")
		fmt.Println("6. Payroll report")
		fmt.Println("7. Save snapshot")
		fmt.Println("8. Back up snapshot")
		fmt.Println("9. Quit")
		fmt.Println(strings.Repeat("=", 60))

		choice := c.prompt("Choose (1-9): ")
		if c.eof {
			return
		}

		switch choice {
		case "1":
			c.addEmployee()
		case "2":
			c.listEmployees()
		case "3":
			c.updateEmployee()
		case "4":
			c.removeEmployee()
		case "5":
			c.printPayslip()
		case "6":
			c.payrollReport()
		case "7":
			c.saveSnapshot()
		case "8":
			c.backupSnapshot()
		case "9", "q", "quit", "exit":
			return
		default:
			fmt.Println("invalid choice")
		}
	}
}

func (c *console) prompt(label string) string {
	if c.eof {
		return ""
	}
	fmt.Print(label)
	if !c.in.Scan() {
		c.eof = true
		return ""
	}
	return strings.TrimSpace(c.in.Text())
}

func (c *console) promptFloat(label string) (float64, bool) {
	raw := c.prompt(label)
	if c.eof {
		return 0, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < 0 {
		fmt.Println("enter a non-negative number")
		return 0, false
	}
	return value, true
}

func (c *console) promptHours(label string) (int, bool) {
	raw := c.prompt(label)
	if c.eof {
		return 0, false
	}
	if raw == "" {
		return payroll.DefaultHoursPerDay, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		fmt.Println("enter a whole number of hours greater than zero")
		return 0, false
	}
	return value, true
}

func (c *console) addEmployee() {
	id := c.prompt("Employee id: ")
	if id == "" {
		fmt.Println("id is required")
		return
	}
	if _, ok := c.store.Find(id); ok {
		fmt.Println("employee already exists")
		return
	}
	name := c.prompt("Name: ")
	if name == "" {
		fmt.Println("name is required")
		return
	}
	base, ok := c.promptFloat("Base salary: ")
	if !ok {
		return
	}
	hours, ok := c.promptHours(fmt.Sprintf("Working hours per day [%d]: ", payroll.DefaultHoursPerDay))
	if !ok {
		return
	}
	insurance, ok := c.promptFloat("Insurance deduction: ")
	if !ok {
		return
	}

	employee, err := payroll.NewEmployee(id, name, base, hours, insurance)
	if err != nil {
		fmt.Println(err)
		return
	}
	if err := c.store.Add(employee); err != nil {
		fmt.Println(err)
		return
	}
	c.persist()
	fmt.Printf("added %s\n", name)
}

func (c *console) listEmployees() {
	if c.store.Count() == 0 {
		fmt.Println("no employees on record")
		return
	}

	rule := strings.Repeat("=", 80)
	fmt.Println()
	fmt.Println(rule)
	fmt.Printf("%-10s %-25s %15s %8s %15s\n", "ID", "Name", "Base", "Hours", "Insurance")
	fmt.Println(rule)
	for e := range c.store.All() {
		fmt.Printf("%-10s %-25s %15.2f %8d %15.2f\n", e.ID, e.Name, e.BaseSalary, e.HoursPerDay, e.InsuranceDeduction)
	}
	fmt.Println(rule)
}

func (c *console) updateEmployee() {
	id := c.prompt("Employee id: ")
	employee, ok := c.store.Find(id)
	if !ok {
		fmt.Println("employee not found")
		return
	}

	fmt.Printf("\nUpdating %s\n", employee.Name)
	fields := payroll.AdjustmentFields()
	for i, field := range fields {
		fmt.Printf("%d. %s\n", i+1, field)
	}

	choice, err := strconv.Atoi(c.prompt(fmt.Sprintf("Choose field (1-%d): ", len(fields))))
	if err != nil || choice < 1 || choice > len(fields) {
		fmt.Println("invalid choice")
		return
	}
	field := fields[choice-1]

	value, ok := c.promptFloat(fmt.Sprintf("New value for %s: ", field))
	if !ok {
		return
	}

	if err := c.store.Update(id, map[string]float64{field: value}); err != nil {
		fmt.Println(err)
		return
	}
	c.persist()
	fmt.Println("updated")
}

func (c *console) removeEmployee() {
	id := c.prompt("Employee id: ")
	employee, ok := c.store.Find(id)
	if !ok {
		fmt.Println("employee not found")
		return
	}

	if !strings.EqualFold(c.prompt(fmt.Sprintf("Remove %s (%s)? (y/N): ", employee.Name, employee.ID)), "y") {
		fmt.Println("kept")
		return
	}
	if err := c.store.Delete(id); err != nil {
		fmt.Println(err)
		return
	}
	c.persist()
	fmt.Printf("removed %s\n", employee.Name)
}

func (c *console) printPayslip() {
	id := c.prompt("Employee id: ")
	employee, ok := c.store.Find(id)
	if !ok {
		fmt.Println("employee not found")
		return
	}

	slip, err := payslip.Build(employee, c.policy)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println()
	fmt.Print(payslip.RenderText(slip))

	if strings.EqualFold(c.prompt("Write PDF as well? (y/N): "), "y") {
		name := fmt.Sprintf("payslip_%s_%s.pdf", employee.ID, time.Now().Format("20060102_150405"))
		path := filepath.Join(c.reportDir, "payslips", name)
		if err := payslip.RenderPDF(slip, path); err != nil {
			fmt.Printf("pdf failed: %v\n", err)
			return
		}
		fmt.Printf("wrote %s\n", path)
	}
}

func (c *console) payrollReport() {
	rows, err := c.store.Register(c.policy)
	if err != nil {
		fmt.Println(err)
		return
	}
	summary, err := c.store.Summary(c.policy)
	if err != nil {
		fmt.Println(err)
		return
	}

	report := payslip.RenderRegister(rows, summary, c.policy)
	fmt.Println()
	fmt.Print(report)

	if strings.EqualFold(c.prompt("Export to file? (y/N): "), "y") {
		name := fmt.Sprintf("report_%s.txt", time.Now().Format("20060102_150405"))
		path := filepath.Join(c.reportDir, name)
		if err := os.MkdirAll(c.reportDir, 0o755); err != nil {
			fmt.Printf("export failed: %v\n", err)
			return
		}
		if err := os.WriteFile(path, []byte(report), 0o644); err != nil {
			fmt.Printf("export failed: %v\n", err)
			return
		}
		fmt.Printf("wrote %s\n", path)
	}
}

func (c *console) saveSnapshot() {
	if err := c.store.Save(); err != nil {
		fmt.Printf("save failed: %v\n", err)
		return
	}
	fmt.Printf("saved %d employees to %s\n", c.store.Count(), c.store.Path())
}

func (c *console) backupSnapshot() {
	path, err := c.store.Backup()
	if err != nil {
		if errors.Is(err, payroll.ErrNoSnapshot) {
			fmt.Println("no snapshot file to back up; save first")
			return
		}
		fmt.Printf("backup failed: %v\n", err)
		return
	}
	fmt.Printf("backed up to %s\n", path)
}

// persist mirrors the autosave settings of the HTTP server, writing
// the snapshot after each mutation unless autosave is off.
func (c *console) persist() {
	if !c.autosave {
		return
	}
	if err := c.store.Save(); err != nil {
		fmt.Printf("saving snapshot failed: %v\n", err)
	}
}
