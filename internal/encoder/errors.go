package encoder

import "fmt"

// BugError is the payload of the panic raised when the encoder hits an
// encoding inconsistency: a required …Ref resolves to NONE, or an encoding
// carries more than one of REX/VEX/EVEX. These are not user-facing errors —
// they indicate the model or the caller violated an invariant the parser and
// loader guarantee, so they surface as an assertion-style abort identifying
// the mnemonic and form index. The encoder does not inspect operand kinds:
// a moffs* form that reaches it is encoded like any other, its data offset
// written from the DataOffset template.
type BugError struct {
	Mnemonic string
	Form     int
	Field    string
	Message  string
}

func (e *BugError) Error() string {
	return fmt.Sprintf("encoder bug: %s: form %d: %s: %s", e.Mnemonic, e.Form, e.Field, e.Message)
}

func bug(mnemonic string, form int, field, format string, args ...any) {
	panic(&BugError{Mnemonic: mnemonic, Form: form, Field: field, Message: fmt.Sprintf(format, args...)})
}
