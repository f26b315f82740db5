package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo is for informational diagnostics.
	SevInfo Severity = iota
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Ref pins a diagnostic to a place in the interface description: the entry
// name plus the parameter path for nested shapes (inputs[1].components[0]).
// Either part may be empty for document-level diagnostics.
type Ref struct {
	Entry string
	Path  string
}

func (r Ref) String() string {
	switch {
	case r.Entry == "" && r.Path == "":
		return "<document>"
	case r.Path == "":
		return r.Entry
	}
	return r.Entry + ":" + r.Path
}

// Diagnostic is a structured generation-time finding.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Ref      Ref
}

func New(sev Severity, code Code, ref Ref, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Ref: ref, Message: msg}
}

func NewError(code Code, ref Ref, msg string) Diagnostic {
	return New(SevError, code, ref, msg)
}

func NewInfo(code Code, ref Ref, msg string) Diagnostic {
	return New(SevInfo, code, ref, msg)
}
