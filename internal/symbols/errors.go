package symbols

import (
	"errors"
	"fmt"

	"lumen/internal/source"
	"lumen/internal/types"
)

var (
	// ErrDuplicateBinding matches declarations rejected because the name is
	// already bound in the same non-global scope.
	ErrDuplicateBinding = errors.New("duplicate binding")
	// ErrScopeUnderflow matches a close with no open scope.
	ErrScopeUnderflow = errors.New("scope underflow")
	// ErrTypeRedefined matches a registration of an already registered type name.
	ErrTypeRedefined = errors.New("type name already registered")
	// ErrNotImplemented matches type names whose resolution is not supported.
	ErrNotImplemented = errors.New("not implemented")
)

// DuplicateBindingError is returned by DeclareBinding.
type DuplicateBindingError struct {
	Name     source.StringID
	Text     string
	Scope    ScopeID
	Existing SymbolCtx
}

func (e *DuplicateBindingError) Error() string {
	return fmt.Sprintf("redefinition of existing binding: %s", e.Text)
}

func (e *DuplicateBindingError) Is(target error) bool { return target == ErrDuplicateBinding }

// ScopeUnderflowError is the panic value of CloseScope at depth 0. It
// signals mismatched open/close calls in the caller.
type ScopeUnderflowError struct {
	// LastScope is the most recently allocated scope id.
	LastScope ScopeID
}

func (e *ScopeUnderflowError) Error() string {
	return fmt.Sprintf("fatal: close of global scope (last allocated scope %d)", e.LastScope)
}

func (e *ScopeUnderflowError) Is(target error) bool { return target == ErrScopeUnderflow }

// TypeRedefinedError is returned by RegisterTypeName when the name is taken.
// The registry keeps the first registration.
type TypeRedefinedError struct {
	Name     source.StringID
	Text     string
	Existing types.Type
}

func (e *TypeRedefinedError) Error() string {
	return fmt.Sprintf("type %s is already registered", e.Text)
}

func (e *TypeRedefinedError) Is(target error) bool { return target == ErrTypeRedefined }

// NotImplementedError is returned by ResolveTypeName for type categories
// whose name resolution is not supported yet.
type NotImplementedError struct {
	Name source.StringID
	Text string
	Kind types.Kind
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("resolving %s type name %s is not implemented", e.Kind, e.Text)
}

func (e *NotImplementedError) Is(target error) bool { return target == ErrNotImplemented }

// CatchScopeUnderflow converts a scope underflow panic into an error stored
// in *errp. Other panics propagate. Use it directly in a defer statement:
//
//	defer symbols.CatchScopeUnderflow(&err)
func CatchScopeUnderflow(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if e, ok := r.(*ScopeUnderflowError); ok {
		*errp = e
		return
	}
	panic(r)
}
