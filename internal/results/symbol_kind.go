package results

import (
	"errors"
	"fmt"
)

// ErrUnknownSymbolKind is returned for protocol codes outside the SymbolKind table
var ErrUnknownSymbolKind = errors.New("unknown symbol kind")

// SymbolKind represents the type of a symbol as an enum
type SymbolKind string

const (
	SymbolKindFile          SymbolKind = "file"
	SymbolKindModule        SymbolKind = "module"
	SymbolKindNamespace     SymbolKind = "namespace"
	SymbolKindPackage       SymbolKind = "package"
	SymbolKindClass         SymbolKind = "class"
	SymbolKindMethod        SymbolKind = "method"
	SymbolKindProperty      SymbolKind = "property"
	SymbolKindField         SymbolKind = "field"
	SymbolKindConstructor   SymbolKind = "constructor"
	SymbolKindEnum          SymbolKind = "enum"
	SymbolKindInterface     SymbolKind = "interface"
	SymbolKindFunction      SymbolKind = "function"
	SymbolKindVariable      SymbolKind = "variable"
	SymbolKindConstant      SymbolKind = "constant"
	SymbolKindString        SymbolKind = "string"
	SymbolKindNumber        SymbolKind = "number"
	SymbolKindBoolean       SymbolKind = "boolean"
	SymbolKindArray         SymbolKind = "array"
	SymbolKindObject        SymbolKind = "object"
	SymbolKindKey           SymbolKind = "key"
	SymbolKindNull          SymbolKind = "null"
	SymbolKindEnumMember    SymbolKind = "enum_member"
	SymbolKindStruct        SymbolKind = "struct"
	SymbolKindEvent         SymbolKind = "event"
	SymbolKindOperator      SymbolKind = "operator"
	SymbolKindTypeParameter SymbolKind = "type_parameter"
)

// See: https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#symbolKind
var symbolKindMap = map[int]SymbolKind{
	1:  SymbolKindFile,
	2:  SymbolKindModule,
	3:  SymbolKindNamespace,
	4:  SymbolKindPackage,
	5:  SymbolKindClass,
	6:  SymbolKindMethod,
	7:  SymbolKindProperty,
	8:  SymbolKindField,
	9:  SymbolKindConstructor,
	10: SymbolKindEnum,
	11: SymbolKindInterface,
	12: SymbolKindFunction,
	13: SymbolKindVariable,
	14: SymbolKindConstant,
	15: SymbolKindString,
	16: SymbolKindNumber,
	17: SymbolKindBoolean,
	18: SymbolKindArray,
	19: SymbolKindObject,
	20: SymbolKindKey,
	21: SymbolKindNull,
	22: SymbolKindEnumMember,
	23: SymbolKindStruct,
	24: SymbolKindEvent,
	25: SymbolKindOperator,
	26: SymbolKindTypeParameter,
}

var symbolKindCodes = func() map[SymbolKind]int {
	codes := make(map[SymbolKind]int, len(symbolKindMap))
	for code, kind := range symbolKindMap {
		codes[kind] = code
	}
	return codes
}()

// ParseSymbolKind returns the SymbolKind for a given LSP symbol kind.
// Codes outside the protocol table are rejected rather than mapped to a default.
func ParseSymbolKind(code int) (SymbolKind, error) {
	symbolKind, ok := symbolKindMap[code]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownSymbolKind, code)
	}
	return symbolKind, nil
}

// Code returns the LSP integer code of the kind, or 0 if the kind is not in the table
func (k SymbolKind) Code() int {
	return symbolKindCodes[k]
}
