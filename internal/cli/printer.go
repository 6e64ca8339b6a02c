// Package cli implements the mcpctl commands. All terminal formatting is
// centralized in Printer to abstract the underlying library (pterm).
package cli

import (
	"github.com/pterm/pterm"
)

// Printer provides formatted terminal output methods.
// Use the default instance via package-level functions.
type Printer struct {
	// Quiet suppresses non-essential output
	Quiet bool
}

// DefaultPrinter is the default printer instance used by package-level functions.
var DefaultPrinter = &Printer{}

// Section prints a prominent section header.
func (p *Printer) Section(title string) {
	if p.Quiet {
		return
	}
	pterm.Println()
	pterm.DefaultSection.Println(title)
}

// Info prints an informational message.
func (p *Printer) Info(msg string) {
	if p.Quiet {
		return
	}
	pterm.Info.Println(msg)
}

// Success prints a success message.
func (p *Printer) Success(msg string) {
	pterm.Success.Println(msg)
}

// Warn prints a warning message.
func (p *Printer) Warn(msg string) {
	pterm.Warning.Println(msg)
}

// Error prints an error message.
func (p *Printer) Error(msg string) {
	pterm.Error.Println(msg)
}

// Table prints a formatted table. First row is treated as header.
func (p *Printer) Table(data [][]string) {
	if len(data) == 0 {
		return
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		pterm.Error.Println("failed to render table:", err)
	}
}

// TableBoxed prints a formatted table with box borders.
func (p *Printer) TableBoxed(data [][]string) {
	if len(data) == 0 {
		return
	}
	if err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Render(); err != nil {
		pterm.Error.Println("failed to render table:", err)
	}
}

// Header prints a full-width header banner.
func (p *Printer) Header(title string) {
	pterm.DefaultHeader.WithFullWidth().WithBackgroundStyle(pterm.NewStyle(pterm.BgCyan)).Println(title)
}

// Green returns green-colored text.
func (p *Printer) Green(msg string) string {
	return pterm.Green(msg)
}

// Yellow returns yellow-colored text.
func (p *Printer) Yellow(msg string) string {
	return pterm.Yellow(msg)
}

// Red returns red-colored text.
func (p *Printer) Red(msg string) string {
	return pterm.Red(msg)
}

// Println prints a blank or plain line.
func (p *Printer) Println(args ...any) {
	if p.Quiet {
		return
	}
	pterm.Println(args...)
}

// Package-level convenience wrappers over DefaultPrinter.

func Section(title string)     { DefaultPrinter.Section(title) }
func Info(msg string)          { DefaultPrinter.Info(msg) }
func Success(msg string)       { DefaultPrinter.Success(msg) }
func Warn(msg string)          { DefaultPrinter.Warn(msg) }
func Error(msg string)         { DefaultPrinter.Error(msg) }
func Table(data [][]string)    { DefaultPrinter.Table(data) }
func TableBoxed(d [][]string)  { DefaultPrinter.TableBoxed(d) }
func Header(title string)      { DefaultPrinter.Header(title) }
func Green(msg string) string  { return DefaultPrinter.Green(msg) }
func Yellow(msg string) string { return DefaultPrinter.Yellow(msg) }
func Red(msg string) string    { return DefaultPrinter.Red(msg) }
