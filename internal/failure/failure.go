package failure

import "errors"

// Kind classifies pipeline errors.
type Kind int

const (
	// KindUnknown marks errors outside the taxonomy.
	KindUnknown Kind = iota
	// KindIO covers unreadable inputs and failed writes.
	KindIO
	// KindParse covers malformed course rows and fields.
	KindParse
	// KindConfigMismatch covers replica count and course list disagreements.
	KindConfigMismatch
	// KindSubprocess covers failed or missing external commands.
	KindSubprocess
)

// String returns the error kind name.
func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindParse:
		return "parse"
	case KindConfigMismatch:
		return "config_mismatch"
	case KindSubprocess:
		return "subprocess"
	default:
		return "unknown"
	}
}

// Classified is implemented by errors that belong to a Kind.
type Classified interface {
	error
	Kind() Kind
}

// KindOf returns the kind of the first classified error in the chain.
func KindOf(err error) Kind {
	var classified Classified
	if errors.As(err, &classified) {
		return classified.Kind()
	}
	return KindUnknown
}
