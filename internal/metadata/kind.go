package metadata

// Kind is the closed set of entity variants.
type Kind int

const (
	KindType Kind = iota
	KindField
	KindEvent
	KindProperty
	KindMethod
	KindConstructor
	KindGenericTypeParameter
	KindGenericMethodParameter
)

func (k Kind) String() string {
	switch k {
	case KindType:
		return "type"
	case KindField:
		return "field"
	case KindEvent:
		return "event"
	case KindProperty:
		return "property"
	case KindMethod:
		return "method"
	case KindConstructor:
		return "constructor"
	case KindGenericTypeParameter:
		return "generic-type-parameter"
	case KindGenericMethodParameter:
		return "generic-method-parameter"
	default:
		return "unknown"
	}
}

// Access is the declared accessibility of a type or member.
type Access int

const (
	AccessPublic Access = iota
	AccessProtected
	AccessInternal
	AccessProtectedInternal
	AccessPrivateProtected
	AccessPrivate
)

var accessNames = map[Access]string{
	AccessPublic:            "public",
	AccessProtected:         "protected",
	AccessInternal:          "internal",
	AccessProtectedInternal: "protected internal",
	AccessPrivateProtected:  "private protected",
	AccessPrivate:           "private",
}

func (a Access) String() string {
	if s, ok := accessNames[a]; ok {
		return s
	}
	return "unknown"
}

// ParseAccess maps a declared accessibility keyword to an Access. Empty means public.
func ParseAccess(s string) (Access, bool) {
	if s == "" {
		return AccessPublic, true
	}
	for a, name := range accessNames {
		if name == s {
			return a, true
		}
	}
	return AccessPublic, false
}

// Category distinguishes the flavours of type definitions.
type Category int

const (
	CategoryClass Category = iota
	CategoryStruct
	CategoryInterface
	CategoryEnum
	CategoryDelegate
)

var categoryNames = map[Category]string{
	CategoryClass:     "class",
	CategoryStruct:    "struct",
	CategoryInterface: "interface",
	CategoryEnum:      "enum",
	CategoryDelegate:  "delegate",
}

func (c Category) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return "unknown"
}

// ParseCategory maps a category keyword to a Category. Empty means class.
func ParseCategory(s string) (Category, bool) {
	if s == "" {
		return CategoryClass, true
	}
	for c, name := range categoryNames {
		if name == s {
			return c, true
		}
	}
	return CategoryClass, false
}
