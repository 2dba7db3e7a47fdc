package loader

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Andrei15193/CodeMap-sub002/internal/identifier"
	"github.com/Andrei15193/CodeMap-sub002/internal/metadata"
	"github.com/Andrei15193/CodeMap-sub002/internal/resolver"
)

func loadAcme(t *testing.T) *metadata.Universe {
	t.Helper()
	u, err := LoadUniverse(filepath.Join("testdata", "acme.yaml"))
	require.NoError(t, err)
	return u
}

func resolve(t *testing.T, u *metadata.Universe, id string) metadata.Entity {
	t.Helper()
	e, err := resolver.Resolve(id, u)
	require.NoError(t, err, id)
	return e
}

func TestLoadUniverse_CoreLibraryFirst(t *testing.T) {
	u := loadAcme(t)
	require.Len(t, u.Assemblies, 2)
	assert.Equal(t, metadata.CoreLibraryName, u.Assemblies[0].Name)
	assert.Equal(t, "Acme", u.Assemblies[1].Name)
}

func TestLoadUniverse_RoundTripsIdentifiers(t *testing.T) {
	u := loadAcme(t)
	for _, id := range []string{
		"T:Acme.Widget",
		"F:Acme.Widget.Count",
		"E:Acme.Widget.Changed",
		"P:Acme.Widget.Name",
		"P:Acme.Widget.Item(System.Int32)",
		"M:Acme.Widget.#ctor",
		"M:Acme.Widget.#ctor(System.String)",
		"M:Acme.Widget.#cctor",
		"M:Acme.Widget.DoWork(System.Int32,System.String)",
		"M:Acme.Widget.Swap(System.Int32@,System.Int32*,System.String[],System.Int32[0:,0:])",
		"M:Acme.Widget.Convert``1(``0)",
		"M:Acme.Widget.op_Implicit(Acme.Widget)~System.String",
		"M:Acme.Widget.Accept(System.Object)",
		"T:Acme.Box`1",
		"F:Acme.Box`1.Value",
		"M:Acme.Box`1.Fill(System.Collections.Generic.List{`0})",
		"M:Acme.Box`1.Get``1(`0,``0)",
		"T:Acme.Box`1.Cell`1",
		"M:Acme.Box`1.Cell`1.Put(`0,`1)",
		"P:Acme.Node`1.Parent",
		"M:Acme.Circle.System#IEquatable{Acme#Circle}#Equals(Acme.Circle)",
	} {
		e := resolve(t, u, id)
		assert.Equal(t, id, identifier.Format(e))
	}
}

func TestLoadUniverse_Signatures(t *testing.T) {
	u := loadAcme(t)

	widget := resolve(t, u, "T:Acme.Widget").(*metadata.Type)
	assert.Equal(t, "System.Object", widget.BaseType.String())
	require.Len(t, widget.Interfaces, 1)
	assert.Equal(t, "System.IDisposable", widget.Interfaces[0].String())

	doWork := resolve(t, u, "M:Acme.Widget.DoWork(System.Int32,System.String)").(*metadata.Method)
	assert.Equal(t, metadata.FormVoid, doWork.ReturnType.Form)

	accept := resolve(t, u, "M:Acme.Widget.Accept(System.Object)").(*metadata.Method)
	assert.Same(t, metadata.Dynamic, accept.Parameters[0].Type)

	cctor := resolve(t, u, "M:Acme.Widget.#cctor").(*metadata.Constructor)
	assert.True(t, cctor.IsStatic)
	assert.Equal(t, metadata.AccessPrivate, cctor.Access)
}

func TestLoadUniverse_GenericParameters(t *testing.T) {
	u := loadAcme(t)

	box := resolve(t, u, "T:Acme.Box`1").(*metadata.Type)
	cell := resolve(t, u, "T:Acme.Box`1.Cell`1").(*metadata.Type)
	require.Len(t, cell.GenericParameters, 1)
	assert.Equal(t, 1, cell.GenericParameters[0].Position)
	assert.Same(t, box, cell.DeclaringType)

	put := cell.Methods[0]
	assert.Same(t, box.GenericParameters[0], put.Parameters[0].Type)
	assert.Same(t, cell.GenericParameters[0], put.Parameters[1].Type)

	convert := resolve(t, u, "M:Acme.Widget.Convert``1(``0)").(*metadata.Method)
	assert.Same(t, convert.GenericParameters[0], convert.ReturnType)
	assert.Same(t, convert, convert.GenericParameters[0].DeclaringMethod)
}

func TestLoadUniverse_SelfReferentialConstraint(t *testing.T) {
	u := loadAcme(t)
	node := resolve(t, u, "T:Acme.Node`1").(*metadata.Type)
	param := node.GenericParameters[0]
	require.Len(t, param.Constraints, 1)
	constraint := param.Constraints[0]
	assert.Equal(t, metadata.FormConstructed, constraint.Form)
	assert.Same(t, node, constraint.Definition)
	assert.Same(t, param, constraint.Arguments[0])
}

func TestLoadUniverse_InterfaceMaps(t *testing.T) {
	u := loadAcme(t)

	circle := resolve(t, u, "T:Acme.Circle").(*metadata.Type)
	require.Len(t, circle.InterfaceMaps, 1)
	mapping := circle.InterfaceMaps[0]
	assert.Equal(t, metadata.FormConstructed, mapping.Interface.Form)
	assert.Equal(t, "System.IEquatable{Acme.Circle}", identifier.FormatType(mapping.Interface))
	require.Len(t, mapping.InterfaceMembers, 1)
	assert.Equal(t, "Equals", mapping.InterfaceMembers[0].MemberName())
	assert.Same(t, circle.Methods[0], mapping.TargetMembers[0])

	widget := resolve(t, u, "T:Acme.Widget").(*metadata.Type)
	require.Len(t, widget.InterfaceMaps, 1)
	assert.Equal(t, "Dispose", widget.InterfaceMaps[0].InterfaceMembers[0].MemberName())
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "unknown base",
			yaml: "assemblies:\n  - name: A\n    types:\n      - {namespace: A, name: T, base: A.Missing}\n",
			want: "A.Missing",
		},
		{
			name: "bad category",
			yaml: "assemblies:\n  - name: A\n    types:\n      - {namespace: A, name: T, category: trait}\n",
			want: "trait",
		},
		{
			name: "bad access",
			yaml: "assemblies:\n  - name: A\n    types:\n      - {namespace: A, name: T, access: friend}\n",
			want: "friend",
		},
		{
			name: "placeholder out of range",
			yaml: "assemblies:\n  - name: A\n    types:\n      - namespace: A\n        name: T\n        fields:\n          - {name: F, type: \"`0\"}\n",
			want: "field F",
		},
		{
			name: "implements a type",
			yaml: "assemblies:\n  - name: A\n    types:\n      - namespace: A\n        name: T\n        methods:\n          - {name: M, implements: [\"T:System.IDisposable\"]}\n",
			want: "not a member identifier",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := DecodeDescriptor([]byte(tt.yaml), ".yaml")
			require.NoError(t, err)
			_, err = Build(d)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBuild_OwnCoreLibrary(t *testing.T) {
	d := &Descriptor{Assemblies: []AssemblyDescriptor{{
		Name: metadata.CoreLibraryName,
		Types: []TypeDescriptor{
			{Namespace: "System", Name: "Object"},
			{Namespace: "System", Name: "String", Base: "System.Object"},
		},
	}}}
	u, err := Build(d)
	require.NoError(t, err)
	require.Len(t, u.Assemblies, 1)
	assert.Len(t, u.Assemblies[0].Types, 2)
}

func TestBuild_ForwardReference(t *testing.T) {
	d := &Descriptor{Assemblies: []AssemblyDescriptor{{
		Name: "A",
		Types: []TypeDescriptor{
			{Namespace: "A", Name: "First", Base: "A.Second"},
			{Namespace: "A", Name: "Second"},
		},
	}}}
	u, err := Build(d)
	require.NoError(t, err)
	first := resolve(t, u, "T:A.First").(*metadata.Type)
	second := resolve(t, u, "T:A.Second").(*metadata.Type)
	assert.Same(t, second, first.BaseType)
}
