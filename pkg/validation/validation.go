package validation

import "fmt"

// Level indicates which stage of a takeoff run produced the result.
type Level string

const (
	LevelSchema   Level = "schema"
	LevelInput    Level = "input"
	LevelGeometry Level = "geometry"
	LevelSchedule Level = "schedule"
	LevelExport   Level = "export"
)

// Severity indicates how critical a validation result is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Kind classifies a finding so callers can filter or count them.
type Kind string

const (
	KindUnitConversion     Kind = "unit_conversion"
	KindGeometryResolution Kind = "geometry_resolution"
	KindLengthMismatch     Kind = "length_mismatch"
	KindScheduleImbalance  Kind = "schedule_imbalance"
	KindUndefinedAttribute Kind = "undefined_attribute"
	KindInvalidValue       Kind = "invalid_value"
	KindCapacity           Kind = "capacity"
	KindSummary            Kind = "summary"
)

// Result is a single validation finding.
type Result struct {
	Level       Level    `json:"level"`
	Severity    Severity `json:"severity"`
	Kind        Kind     `json:"kind,omitempty"`
	Message     string   `json:"message"`
	Path        string   `json:"path,omitempty"`
	ActualValue any      `json:"actual_value,omitempty"`
	Expected    string   `json:"expected,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// String renders the result the way the CLI prints it.
func (r Result) String() string {
	if r.Path != "" {
		return fmt.Sprintf("[%s] %s (%s)", r.Level, r.Message, r.Path)
	}
	return fmt.Sprintf("[%s] %s", r.Level, r.Message)
}

// Report collects the findings of one run. Warnings never invalidate it.
type Report struct {
	Valid    bool     `json:"valid"`
	Errors   []Result `json:"errors"`
	Warnings []Result `json:"warnings"`
	Info     []Result `json:"info"`
	Summary  string   `json:"summary"`
}

// NewReport creates an empty valid report.
func NewReport() *Report {
	r := &Report{
		Valid:    true,
		Errors:   []Result{},
		Warnings: []Result{},
		Info:     []Result{},
	}
	r.updateSummary()
	return r
}

// AddError adds an error result and marks the report invalid.
func (r *Report) AddError(result Result) {
	result.Severity = SeverityError
	r.Errors = append(r.Errors, result)
	r.Valid = false
	r.updateSummary()
}

// AddWarning adds a warning result.
func (r *Report) AddWarning(result Result) {
	result.Severity = SeverityWarning
	r.Warnings = append(r.Warnings, result)
	r.updateSummary()
}

// AddInfo adds an informational result.
func (r *Report) AddInfo(result Result) {
	result.Severity = SeverityInfo
	r.Info = append(r.Info, result)
	r.updateSummary()
}

// Warnf is shorthand for a formatted warning of the given kind.
func (r *Report) Warnf(level Level, kind Kind, path, format string, args ...any) {
	r.AddWarning(Result{
		Level:   level,
		Kind:    kind,
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	})
}

// Merge combines another report into this one. A nil report is ignored.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Info = append(r.Info, other.Info...)
	if !other.Valid {
		r.Valid = false
	}
	r.updateSummary()
}

// CountKind returns how many errors and warnings carry the given kind.
func (r *Report) CountKind(kind Kind) int {
	n := 0
	for _, e := range r.Errors {
		if e.Kind == kind {
			n++
		}
	}
	for _, w := range r.Warnings {
		if w.Kind == kind {
			n++
		}
	}
	return n
}

// All returns errors, warnings, and info in that order.
func (r *Report) All() []Result {
	out := make([]Result, 0, len(r.Errors)+len(r.Warnings)+len(r.Info))
	out = append(out, r.Errors...)
	out = append(out, r.Warnings...)
	return append(out, r.Info...)
}

func (r *Report) updateSummary() {
	r.Summary = fmt.Sprintf("%d errors, %d warnings, %d info",
		len(r.Errors), len(r.Warnings), len(r.Info))
}
