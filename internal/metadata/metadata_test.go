package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoreLibrary(t *testing.T) {
	lib := CoreLibrary()
	assert.Equal(t, CoreLibraryName, lib.Name)

	object := lib.Lookup("System.Object")
	require.NotNil(t, object)
	assert.Nil(t, object.BaseType)

	int32 := lib.Lookup("System.Int32")
	require.NotNil(t, int32)
	assert.Equal(t, CategoryStruct, int32.Category)
	assert.Equal(t, "System.ValueType", int32.BaseType.String())
	assert.Equal(t, CoreLibraryName, int32.Assembly)

	assert.Equal(t, FormVoid, lib.Lookup("System.Void").Form)
	assert.Equal(t, "System.Exception", lib.Lookup("System.ArgumentException").BaseType.String())

	equatable := lib.Lookup("System.IEquatable`1")
	require.NotNil(t, equatable)
	require.Len(t, equatable.Methods, 1)
	assert.Same(t, equatable.GenericParameters[0], equatable.Methods[0].Parameters[0].Type)

	assert.NotSame(t, object, CoreLibrary().Lookup("System.Object"), "each call builds a fresh library")
}

func TestNestRenumbersGenericParameters(t *testing.T) {
	outer := NewType("Acme", "Outer`2", CategoryClass)
	outer.DefineGenericParameter("A")
	outer.DefineGenericParameter("B")

	inner := NewType("", "Inner`1", CategoryClass)
	c := inner.DefineGenericParameter("C")
	assert.Equal(t, 0, c.Position)

	outer.Nest(inner)
	assert.Equal(t, 2, c.Position)
	assert.Equal(t, "Acme", inner.Namespace)
	assert.Same(t, outer, inner.DeclaringType)
	assert.Equal(t, 2, inner.InheritedArity())

	all := inner.AllGenericParameters()
	require.Len(t, all, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{all[0].Name, all[1].Name, all[2].Name})

	d := inner.DefineGenericParameter("D")
	assert.Equal(t, 3, d.Position)
	assert.Equal(t, "Acme.Outer`2+Inner`1", inner.String())
}

func TestMethodGenericParameters(t *testing.T) {
	owner := NewType("Acme", "Widget", CategoryClass)
	m := &Method{Name: "Convert"}
	p := m.DefineGenericParameter("TOut")
	owner.AddMethod(m)

	assert.Equal(t, FormGenericMethodParameter, p.Form)
	assert.Equal(t, KindGenericMethodParameter, p.Kind())
	assert.Equal(t, 0, p.Position)
	assert.Same(t, m, p.DeclaringMethod)
	assert.Same(t, owner, p.DeclaringType)
}

func TestConstruct(t *testing.T) {
	box := NewType("Acme", "Box`1", CategoryClass)
	box.DefineGenericParameter("T")
	plain := NewType("Acme", "Plain", CategoryClass)
	arg := NewType("System", "Int32", CategoryStruct)

	c, err := Construct(box, []*Type{arg})
	require.NoError(t, err)
	assert.Equal(t, FormConstructed, c.Form)
	assert.Same(t, box, c.Definition)
	assert.Equal(t, "Acme.Box`1[System.Int32]", c.String())

	_, err = Construct(plain, []*Type{arg})
	assert.ErrorContains(t, err, "not generic")
	_, err = Construct(box, nil)
	assert.ErrorContains(t, err, "takes 1 arguments")
	_, err = Construct(c, []*Type{arg})
	assert.ErrorContains(t, err, "not a type definition")
}

func TestEqual(t *testing.T) {
	lib := CoreLibrary()
	object := lib.Lookup("System.Object")
	int32 := lib.Lookup("System.Int32")
	str := lib.Lookup("System.String")
	list := lib.Lookup("System.Collections.Generic.List`1")

	listInt1, _ := Construct(list, []*Type{int32})
	listInt2, _ := Construct(list, []*Type{int32})
	listStr, _ := Construct(list, []*Type{str})

	tests := []struct {
		name string
		a, b *Type
		want bool
	}{
		{"same definition", int32, int32, true},
		{"different definitions", int32, str, false},
		{"constructed", listInt1, listInt2, true},
		{"constructed arguments differ", listInt1, listStr, false},
		{"arrays", ArrayOf(int32, 1), ArrayOf(int32, 1), true},
		{"array ranks differ", ArrayOf(int32, 1), ArrayOf(int32, 2), false},
		{"pointers", PointerTo(int32), PointerTo(int32), true},
		{"by-ref vs plain", ByRefOf(int32), int32, false},
		{"dynamic is object", Dynamic, object, true},
		{"dynamic is not string", Dynamic, str, false},
		{"nil", nil, int32, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
			assert.Equal(t, tt.want, Equal(tt.b, tt.a))
		})
	}
}

func TestUnwrap(t *testing.T) {
	int32 := NewType("System", "Int32", CategoryStruct)
	assert.Same(t, int32, Unwrap(ByRefOf(ByRefOf(int32))))
	assert.Nil(t, Unwrap(nil))
	arr := ArrayOf(int32, 0)
	assert.Equal(t, 1, arr.Rank)
	assert.Same(t, arr, Unwrap(arr))
}

func TestUniverseWalkTypes(t *testing.T) {
	a := &Assembly{Name: "A"}
	first := a.AddType(NewType("A", "First", CategoryClass))
	first.Nest(NewType("", "Inner", CategoryClass))
	a.AddType(NewType("A", "Second", CategoryClass))
	u := NewUniverse(CoreLibrary(), a)

	var names []string
	u.WalkTypes(func(t *Type) bool {
		if t.Assembly == "A" {
			names = append(names, t.String())
		}
		return true
	})
	assert.Equal(t, []string{"A.First", "A.First+Inner", "A.Second"}, names)

	count := 0
	u.WalkTypes(func(*Type) bool {
		count++
		return count < 3
	})
	assert.Equal(t, 3, count)

	got, ok := u.Assembly("A")
	require.True(t, ok)
	assert.Same(t, a, got)
	_, ok = u.Assembly("B")
	assert.False(t, ok)
	assert.Len(t, u.Types(), len(u.Assemblies[0].Types)+2)
}

func TestMembersOrder(t *testing.T) {
	w := NewType("Acme", "Widget", CategoryClass)
	w.AddMethod(&Method{Name: "M"})
	w.AddField(&Field{Name: "F"})
	w.AddConstructor(&Constructor{})
	w.AddProperty(&Property{Name: "P"})
	w.AddEvent(&Event{Name: "E"})

	var kinds []Kind
	for _, m := range w.Members() {
		kinds = append(kinds, m.Kind())
		assert.Same(t, w, m.Owner())
	}
	assert.Equal(t, []Kind{KindField, KindEvent, KindProperty, KindConstructor, KindMethod}, kinds)
}

func TestParseAccessAndCategory(t *testing.T) {
	a, ok := ParseAccess("protected internal")
	assert.True(t, ok)
	assert.Equal(t, AccessProtectedInternal, a)
	_, ok = ParseAccess("friend")
	assert.False(t, ok)

	c, ok := ParseCategory("")
	assert.True(t, ok)
	assert.Equal(t, CategoryClass, c)
	c, ok = ParseCategory("delegate")
	assert.True(t, ok)
	assert.Equal(t, "delegate", c.String())
}
