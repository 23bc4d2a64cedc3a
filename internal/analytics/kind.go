package analytics

import (
	"fmt"
	"strings"
)

// Kind identifies one of the five reports.
type Kind string

// Report kinds. The values double as the path segment of the HTTP API.
const (
	KindBasic   Kind = "basic"
	KindAnimals Kind = "animals"
	KindGuests  Kind = "guests"
	KindGuiders Kind = "guiders"
	KindComplex Kind = "complex"
)

var kinds = []Kind{KindBasic, KindAnimals, KindGuests, KindGuiders, KindComplex}

// Kinds returns every report kind in combined-report order.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// ReportName returns the key the report is stored under in a combined report.
func (k Kind) ReportName() string {
	switch k {
	case KindBasic:
		return "basic_stats"
	case KindAnimals:
		return "animal_distribution"
	case KindGuests:
		return "guest_analysis"
	case KindGuiders:
		return "guider_analysis"
	case KindComplex:
		return "complex_analysis"
	default:
		return ""
	}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool { return k.ReportName() != "" }

func (k Kind) String() string { return string(k) }

// ParseKind resolves a kind from its short name ("basic") or its report
// name ("basic_stats"). Matching ignores case and surrounding whitespace.
func ParseKind(name string) (Kind, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	for _, k := range kinds {
		if s == string(k) || s == k.ReportName() {
			return k, nil
		}
	}
	return "", &UnknownKindError{Kind: name, Available: Kinds()}
}

// UnknownKindError is returned when a report kind that does not exist is
// requested.
type UnknownKindError struct {
	Kind      string
	Available []Kind
}

func (e *UnknownKindError) Error() string {
	names := make([]string, len(e.Available))
	for i, k := range e.Available {
		names[i] = string(k)
	}
	return fmt.Sprintf("unknown analysis type %q, available: %s", e.Kind, strings.Join(names, ", "))
}

// ComputationError reports malformed data encountered while building one
// report. Field names the offending input column.
type ComputationError struct {
	Kind  Kind
	Field string
	Err   error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Kind.ReportName(), e.Field, e.Err)
}

func (e *ComputationError) Unwrap() error { return e.Err }
