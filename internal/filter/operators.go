package filter

import "slices"

// OperatorsFor returns the operators offered for a field type, in display
// order. Date fields compare by time; all other types compare by equality.
func OperatorsFor(t FieldType) []Operator {
	if t == TypeDate {
		return []Operator{OpBefore, OpAfter}
	}
	return []Operator{OpIs, OpIsNot}
}

// DefaultOperator is the operator a freshly picked value is committed with.
func DefaultOperator(t FieldType) Operator {
	if t == TypeDate {
		return OpAfter
	}
	return OpIs
}

// Allowed reports whether op is offered for t.
func Allowed(t FieldType, op Operator) bool {
	return slices.Contains(OperatorsFor(t), op)
}

// ToggleOperator swaps op with the other operator of its pair. An
// operator outside the type's pair maps to the first of the pair.
func ToggleOperator(t FieldType, op Operator) Operator {
	ops := OperatorsFor(t)
	if op == ops[0] {
		return ops[1]
	}
	return ops[0]
}
