package circuit

// StepCircuit is the external capability spec.md §6 calls
// `generate_constraints(cs, z) -> Vec<FieldVar>`: a length-preserving,
// side-effecting function supplied by the caller. The augmented circuit
// (Synthesize) treats it as an opaque constraint-emitting function; it must
// be pure with respect to the Builder (two calls with the same input
// produce isomorphic constraint graphs), which holds automatically here
// since Generate only ever calls deterministic Builder gadget methods.
type StepCircuit interface {
	// OutputLen returns the fixed length of this circuit's output vector,
	// which must equal len(z0) for every slot in a SuperNova instance
	// (SPEC_FULL.md §4, supplementing spec.md's silence on arity checking).
	OutputLen() int

	// Generate emits this step's constraints against input z (length
	// OutputLen()) and returns the new output vector (same length).
	Generate(cs *Builder, z []Var) ([]Var, error)
}
