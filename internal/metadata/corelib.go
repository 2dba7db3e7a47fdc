package metadata

// CoreLibraryName is the assembly holding the System primitives.
const CoreLibraryName = "System.Private.CoreLib"

var coreStructs = []string{
	"Boolean", "Byte", "SByte", "Char", "Int16", "UInt16", "Int32", "UInt32",
	"Int64", "UInt64", "Single", "Double", "Decimal", "IntPtr", "UIntPtr",
	"DateTime", "TimeSpan", "Guid",
}

var coreClasses = []string{
	"String", "Type", "Attribute", "Exception", "ArgumentException",
	"ArgumentNullException", "ArgumentOutOfRangeException",
	"InvalidOperationException", "NotSupportedException", "ObsoleteAttribute",
}

// CoreLibrary builds a fresh core library assembly. Each universe gets its
// own copy so identity comparisons stay within one universe.
func CoreLibrary() *Assembly {
	lib := &Assembly{Name: CoreLibraryName}

	object := lib.AddType(NewType("System", "Object", CategoryClass))
	valueType := lib.AddType(NewType("System", "ValueType", CategoryClass))
	valueType.BaseType = object
	enum := lib.AddType(NewType("System", "Enum", CategoryClass))
	enum.BaseType = valueType

	void := lib.AddType(NewType("System", "Void", CategoryStruct))
	void.Form = FormVoid

	for _, name := range coreStructs {
		t := lib.AddType(NewType("System", name, CategoryStruct))
		t.BaseType = valueType
	}

	exception := object
	for _, name := range coreClasses {
		t := lib.AddType(NewType("System", name, CategoryClass))
		t.BaseType = object
		switch name {
		case "Exception":
			exception = t
		case "ArgumentException", "InvalidOperationException", "NotSupportedException":
			t.BaseType = exception
		}
	}

	disposable := lib.AddType(NewType("System", "IDisposable", CategoryInterface))
	disposable.AddMethod(&Method{Name: "Dispose", ReturnType: void})
	lib.AddType(NewType("System", "EventArgs", CategoryClass)).BaseType = object
	lib.AddType(NewType("System", "EventHandler", CategoryDelegate)).BaseType = object

	boolean := lib.Lookup("System.Boolean")
	int32 := lib.Lookup("System.Int32")
	icomparable := lib.AddType(NewType("System", "IComparable`1", CategoryInterface))
	icomparable.AddMethod(&Method{
		Name:       "CompareTo",
		ReturnType: int32,
		Parameters: []*Parameter{{Name: "other", Type: icomparable.DefineGenericParameter("T")}},
	})
	iequatable := lib.AddType(NewType("System", "IEquatable`1", CategoryInterface))
	iequatable.AddMethod(&Method{
		Name:       "Equals",
		ReturnType: boolean,
		Parameters: []*Parameter{{Name: "other", Type: iequatable.DefineGenericParameter("T")}},
	})
	for _, name := range []string{"Action`1", "Func`1"} {
		t := lib.AddType(NewType("System", name, CategoryDelegate))
		t.BaseType = object
		t.DefineGenericParameter("T")
	}

	nullable := lib.AddType(NewType("System", "Nullable`1", CategoryStruct))
	nullable.BaseType = valueType
	nullable.DefineGenericParameter("T")

	enumerable := lib.AddType(NewType("System.Collections.Generic", "IEnumerable`1", CategoryInterface))
	enumerable.DefineGenericParameter("T")
	list := lib.AddType(NewType("System.Collections.Generic", "List`1", CategoryClass))
	list.BaseType = object
	list.DefineGenericParameter("T")
	dict := lib.AddType(NewType("System.Collections.Generic", "Dictionary`2", CategoryClass))
	dict.BaseType = object
	dict.DefineGenericParameter("TKey")
	dict.DefineGenericParameter("TValue")

	return lib
}
