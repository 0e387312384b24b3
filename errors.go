package soapwire

import (
	"errors"
	"fmt"
	"strings"

	"github.com/soapwire/soapwire/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidValue    = "invalid_value"    // scalar failed primitive/enum validation
	CodeRequired        = "required"         // non-optional property missing from the value
	CodeArrayShape      = "array_shape"      // IsArray disagrees with the supplied value shape
	CodeUnknownProperty = "unknown_property" // value key or element tag with no declared property
	CodeUnknownType     = "unknown_type"     // type-override names a type absent from the index
	CodeInvalidUsage    = "invalid_usage"    // element shape disagrees with the resolved type
)

// Issue represents a single marshalling error entry.
type Issue struct {
	Path    string // Slash pointer into the value (for example: /order/items).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: offending names, expected shapes, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"property":"name"}) for
	// i18n and observability.
	Params map[string]any
}

// Issues is a collection of marshalling errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_value at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// newIssue builds a single-entry issue with the catalog message for code.
// data feeds the message template and is copied into Params.
func newIssue(path, code string, data map[string]string, hint string) Issue {
	it := Issue{Path: path, Code: code, Message: i18n.T(code, data), Hint: hint}
	if len(data) > 0 {
		it.Params = make(map[string]any, len(data))
		for k, v := range data {
			it.Params[k] = v
		}
	}
	return it
}

func singleIssue(path, code string, data map[string]string, hint string) Issues {
	return Issues{newIssue(path, code, data, hint)}
}

// ErrFault is a sentinel for use with errors.Is to check whether any error
// in a chain is a *Fault.
var ErrFault = &Fault{}

// Fault is the distinguished error for a successfully decoded server fault
// envelope. It originates from the remote peer, unlike Issues, which are
// local contract violations.
type Fault struct {
	Code    string         // fault code reported by the peer
	Message string         // human-readable fault string
	Actor   string         // optional party at fault
	Detail  map[string]any // decoded structured fault fields
}

func (f *Fault) Error() string {
	if f.Code == "" && f.Message == "" {
		return "soapwire: server fault"
	}
	return fmt.Sprintf("server fault %s: %s", f.Code, f.Message)
}

// Is supports errors.Is by matching any *Fault target.
func (f *Fault) Is(target error) bool {
	_, ok := target.(*Fault)
	return ok
}

// AsFault extracts a *Fault from an error chain.
func AsFault(err error) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
