package verifier

import "github.com/jules/supernova/field"

// Kind enumerates the verification-failure variants of spec.md §6.
type Kind int

const (
	ExpectedBaseCase Kind = iota
	HashMismatch
	PCOutOfRange
	UnexpectedCrossterms
	UnsatisfiedCircuit
)

func (k Kind) String() string {
	switch k {
	case ExpectedBaseCase:
		return "ExpectedBaseCase"
	case HashMismatch:
		return "HashMismatch"
	case PCOutOfRange:
		return "PCOutOfRange"
	case UnexpectedCrossterms:
		return "UnexpectedCrossterms"
	case UnsatisfiedCircuit:
		return "UnsatisfiedCircuit"
	default:
		return "Unknown"
	}
}

// Error is the VerificationError of spec.md §6, returned only from Verify
// (never from driver.Proof.Update, per spec.md §7's error-class split).
type Error struct {
	Kind     Kind
	Expected field.Element // HashMismatch only
	Found    field.Element // HashMismatch only
	PC       int           // PCOutOfRange only
	Limit    int           // PCOutOfRange only
}

func (e *Error) Error() string {
	switch e.Kind {
	case HashMismatch:
		return "verifier: hash mismatch"
	case PCOutOfRange:
		return "verifier: pc out of range"
	default:
		return "verifier: " + e.Kind.String()
	}
}
