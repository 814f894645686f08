package models

// String methods for all custom string types.
// These are required for toon serialization, which uses fmt.Stringer.

// ShapeKind
func (s ShapeKind) String() string { return string(s) }

// ParameterDirection
func (p ParameterDirection) String() string { return string(p) }

// OperationKind
func (o OperationKind) String() string { return string(o) }

// PortDirection
func (p PortDirection) String() string { return string(p) }

// BindingKind
func (b BindingKind) String() string { return string(b) }
