package parser

import "fmt"

// Severity classifies a Diagnostic.
type Severity uint8

const (
	SevError Severity = iota
	SevWarning
)

// Diagnostic is one structured parse diagnostic (spec.md §4.6: "errors are
// reported via a structured diagnostic interface").
type Diagnostic struct {
	Severity  Severity
	Line, Col int
	Message   string
}

func (d Diagnostic) String() string {
	sev := "error"
	if d.Severity == SevWarning {
		sev = "warning"
	}
	return fmt.Sprintf("%d:%d: %s: %s", d.Line, d.Col, sev, d.Message)
}

// DiagSink receives diagnostics as they are produced. The default sink
// used by Parser simply accumulates them; a host may install its own to
// stream diagnostics live (e.g. the pokec CLI printing as it goes).
type DiagSink interface {
	Report(Diagnostic)
}

// Collector is the default DiagSink: an in-memory slice.
type Collector struct {
	Diags []Diagnostic
}

func (c *Collector) Report(d Diagnostic) { c.Diags = append(c.Diags, d) }

// HasErrors reports whether any collected diagnostic is SevError.
func (c *Collector) HasErrors() bool {
	for _, d := range c.Diags {
		if d.Severity == SevError {
			return true
		}
	}
	return false
}
