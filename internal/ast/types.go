package ast

import "strings"

// TypeKind discriminates the closed set of Veld types.
type TypeKind int

const (
	KindI32 TypeKind = iota
	KindI64
	KindF32
	KindF64
	KindBool
	KindString
	KindVoid
	KindArray
	KindOptional
	KindStruct
	KindComponent
	KindQuery
	KindHandle
	KindVec2
	KindVec3
	KindVec4
	KindMat4
	// KindError marks an expression whose type could not be
	// determined. It is produced only by the checker, never by the
	// parser, and is compatible with every other type so that one
	// bad expression does not cascade.
	KindError
)

// Type is a tagged union over the Veld type system. Exactly one of
// Elem, Name, or Components is populated, according to Kind.
type Type struct {
	Kind       TypeKind
	Elem       *Type  // KindArray, KindOptional
	Name       string // KindStruct, KindComponent, KindHandle
	Components []Type // KindQuery
}

// Scalar type singletons. Types are copied by value everywhere, so
// sharing these is safe.
var (
	I32   = Type{Kind: KindI32}
	I64   = Type{Kind: KindI64}
	F32   = Type{Kind: KindF32}
	F64   = Type{Kind: KindF64}
	Bool  = Type{Kind: KindBool}
	Str   = Type{Kind: KindString}
	Void  = Type{Kind: KindVoid}
	Vec2  = Type{Kind: KindVec2}
	Vec3  = Type{Kind: KindVec3}
	Vec4  = Type{Kind: KindVec4}
	Mat4  = Type{Kind: KindMat4}
	Error = Type{Kind: KindError}
)

// ArrayOf returns the array type with the given element type.
func ArrayOf(elem Type) Type {
	return Type{Kind: KindArray, Elem: &elem}
}

// OptionalOf returns the optional type wrapping the given inner type.
func OptionalOf(inner Type) Type {
	return Type{Kind: KindOptional, Elem: &inner}
}

// StructType returns a nominal struct reference.
func StructType(name string) Type {
	return Type{Kind: KindStruct, Name: name}
}

// ComponentType returns a nominal component reference.
func ComponentType(name string) Type {
	return Type{Kind: KindComponent, Name: name}
}

// QueryOf returns a query over the given component types.
func QueryOf(components ...Type) Type {
	return Type{Kind: KindQuery, Components: components}
}

// HandleType returns an opaque host handle type. The name must be one
// of the fixed catalogue in HandleNames.
func HandleType(name string) Type {
	return Type{Kind: KindHandle, Name: name}
}

// HandleNames is the fixed catalogue of opaque host-resource handle
// types the language exposes.
var HandleNames = map[string]bool{
	"VkInstance":       true,
	"VkDevice":         true,
	"VkResult":         true,
	"VkPhysicalDevice": true,
	"VkQueue":          true,
	"VkCommandPool":    true,
	"VkCommandBuffer":  true,
	"VkSwapchainKHR":   true,
	"VkSurfaceKHR":     true,
	"VkRenderPass":     true,
	"VkPipeline":       true,
	"VkFramebuffer":    true,
	"VkBuffer":         true,
	"VkImage":          true,
	"VkImageView":      true,
	"VkSemaphore":      true,
	"VkFence":          true,
	"GLFWwindow":       true,
	"GLFWbool":         true,
}

// IsNumeric reports whether t is one of the scalar numeric types.
func (t Type) IsNumeric() bool {
	switch t.Kind {
	case KindI32, KindI64, KindF32, KindF64:
		return true
	}
	return false
}

// IsError reports whether t is the poison type.
func (t Type) IsError() bool {
	return t.Kind == KindError
}

// String renders the type in source syntax.
func (t Type) String() string {
	switch t.Kind {
	case KindI32:
		return "i32"
	case KindI64:
		return "i64"
	case KindF32:
		return "f32"
	case KindF64:
		return "f64"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindVoid:
		return "void"
	case KindArray:
		return "[" + t.Elem.String() + "]"
	case KindOptional:
		return "?" + t.Elem.String()
	case KindStruct, KindComponent, KindHandle:
		return t.Name
	case KindQuery:
		names := make([]string, len(t.Components))
		for i, c := range t.Components {
			names[i] = c.String()
		}
		return "query<" + strings.Join(names, ", ") + ">"
	case KindVec2:
		return "Vec2"
	case KindVec3:
		return "Vec3"
	case KindVec4:
		return "Vec4"
	case KindMat4:
		return "Mat4"
	case KindError:
		return "<error>"
	}
	return "<unknown>"
}

// Equal reports structural equality. Unlike checker compatibility,
// Equal has no widening or poison rules.
func (t Type) Equal(other Type) bool {
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case KindArray, KindOptional:
		return t.Elem.Equal(*other.Elem)
	case KindStruct, KindComponent, KindHandle:
		return t.Name == other.Name
	case KindQuery:
		if len(t.Components) != len(other.Components) {
			return false
		}
		for i := range t.Components {
			if !t.Components[i].Equal(other.Components[i]) {
				return false
			}
		}
		return true
	}
	return true
}
