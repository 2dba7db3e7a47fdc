// Package testutil builds the sample universe shared by package tests.
package testutil

import "github.com/Andrei15193/CodeMap-sub002/internal/metadata"

// Acme is a small universe exercising every identifier shape: overloads,
// by-ref/pointer/array parameters, nested generics, generic methods,
// conversion operators, explicit interface implementations and a type
// whose generic constraint refers back to itself.
type Acme struct {
	Universe *metadata.Universe
	Core     *metadata.Assembly
	Assembly *metadata.Assembly

	Object, Void, Int32, String, Boolean *metadata.Type
	IDisposable, IEquatable, List        *metadata.Type

	// Acme.Widget
	Widget      *metadata.Type
	DoWork      *metadata.Method // DoWork(int, string)
	DoWorkShort *metadata.Method // DoWork(int)
	Swap        *metadata.Method // Swap(ref int, int*, string[], int[,])
	Convert     *metadata.Method // Convert<TOut>(TOut) TOut
	Dispose     *metadata.Method
	ToString    *metadata.Method // implicit operator string
	ToInt32     *metadata.Method // explicit operator int
	Count       *metadata.Field
	Changed     *metadata.Event
	Name        *metadata.Property
	Item        *metadata.Property // this[int]
	Ctor        *metadata.Constructor
	CtorString  *metadata.Constructor
	StaticCtor  *metadata.Constructor

	// Acme.Box<T> with nested Color and Cell<U>
	Box      *metadata.Type
	BoxT     *metadata.Type
	BoxValue *metadata.Field
	Fill     *metadata.Method // Fill(List<T>)
	Get      *metadata.Method // Get<V>(T, V)
	Color    *metadata.Type
	Cell     *metadata.Type
	CellU    *metadata.Type
	Put      *metadata.Method // Put(T, U)

	// Acme.Node<T> where T : Node<T>
	Node  *metadata.Type
	NodeT *metadata.Type

	// Acme.IShape and Acme.Circle implementing it explicitly
	IShape          *metadata.Type
	ShapeArea       *metadata.Method
	Circle          *metadata.Type
	CircleEquatable *metadata.Type // IEquatable<Circle>
	CircleArea      *metadata.Method
	CircleEquals    *metadata.Method
	CircleRadius    *metadata.Property

	// Acme.Gadget and Acme.gadget differ only by case.
	Gadget      *metadata.Type
	GadgetLower *metadata.Type
}

// NewAcme builds a fresh Acme universe.
func NewAcme() *Acme {
	core := metadata.CoreLibrary()
	a := &Acme{
		Core:        core,
		Assembly:    &metadata.Assembly{Name: "Acme"},
		Object:      core.Lookup("System.Object"),
		Void:        core.Lookup("System.Void"),
		Int32:       core.Lookup("System.Int32"),
		String:      core.Lookup("System.String"),
		Boolean:     core.Lookup("System.Boolean"),
		IDisposable: core.Lookup("System.IDisposable"),
		IEquatable:  core.Lookup("System.IEquatable`1"),
		List:        core.Lookup("System.Collections.Generic.List`1"),
	}
	a.Universe = metadata.NewUniverse(core, a.Assembly)

	a.buildWidget()
	a.buildBox()
	a.buildNode()
	a.buildShapes()

	a.Gadget = a.Assembly.AddType(metadata.NewType("Acme", "Gadget", metadata.CategoryClass))
	a.Gadget.BaseType = a.Object
	a.GadgetLower = a.Assembly.AddType(metadata.NewType("Acme", "gadget", metadata.CategoryClass))
	a.GadgetLower.BaseType = a.Object
	return a
}

func param(name string, t *metadata.Type) *metadata.Parameter {
	return &metadata.Parameter{Name: name, Type: t}
}

func mustConstruct(def *metadata.Type, args ...*metadata.Type) *metadata.Type {
	t, err := metadata.Construct(def, args)
	if err != nil {
		panic(err)
	}
	return t
}

func (a *Acme) buildWidget() {
	w := a.Assembly.AddType(metadata.NewType("Acme", "Widget", metadata.CategoryClass))
	w.BaseType = a.Object
	w.Interfaces = []*metadata.Type{a.IDisposable}
	a.Widget = w

	a.Count = w.AddField(&metadata.Field{Name: "Count", Type: a.Int32})
	a.Changed = w.AddEvent(&metadata.Event{Name: "Changed", Type: a.Core.Lookup("System.EventHandler")})
	a.Name = w.AddProperty(&metadata.Property{Name: "Name", Type: a.String})
	a.Item = w.AddProperty(&metadata.Property{
		Name:       "Item",
		Type:       a.String,
		Parameters: []*metadata.Parameter{param("index", a.Int32)},
	})

	a.Ctor = w.AddConstructor(&metadata.Constructor{})
	a.CtorString = w.AddConstructor(&metadata.Constructor{Parameters: []*metadata.Parameter{param("name", a.String)}})
	a.StaticCtor = w.AddConstructor(&metadata.Constructor{IsStatic: true, Access: metadata.AccessPrivate})

	a.DoWork = w.AddMethod(&metadata.Method{
		Name:       "DoWork",
		ReturnType: a.Void,
		Parameters: []*metadata.Parameter{param("count", a.Int32), param("label", a.String)},
	})
	a.DoWorkShort = w.AddMethod(&metadata.Method{
		Name:       "DoWork",
		ReturnType: a.Void,
		Parameters: []*metadata.Parameter{param("count", a.Int32)},
	})
	a.Swap = w.AddMethod(&metadata.Method{
		Name:       "Swap",
		ReturnType: a.Boolean,
		Parameters: []*metadata.Parameter{
			param("value", metadata.ByRefOf(a.Int32)),
			param("address", metadata.PointerTo(a.Int32)),
			param("names", metadata.ArrayOf(a.String, 1)),
			param("grid", metadata.ArrayOf(a.Int32, 2)),
		},
	})

	convert := &metadata.Method{Name: "Convert", IsStatic: true}
	out := convert.DefineGenericParameter("TOut")
	convert.ReturnType = out
	convert.Parameters = []*metadata.Parameter{param("value", out)}
	a.Convert = w.AddMethod(convert)

	a.Dispose = w.AddMethod(&metadata.Method{Name: "Dispose", ReturnType: a.Void})
	a.ToString = w.AddMethod(&metadata.Method{
		Name:       "op_Implicit",
		IsStatic:   true,
		ReturnType: a.String,
		Parameters: []*metadata.Parameter{param("widget", w)},
	})
	a.ToInt32 = w.AddMethod(&metadata.Method{
		Name:       "op_Explicit",
		IsStatic:   true,
		ReturnType: a.Int32,
		Parameters: []*metadata.Parameter{param("widget", w)},
	})
}

func (a *Acme) buildBox() {
	box := a.Assembly.AddType(metadata.NewType("Acme", "Box`1", metadata.CategoryClass))
	box.BaseType = a.Object
	t := box.DefineGenericParameter("T")
	a.Box, a.BoxT = box, t

	a.BoxValue = box.AddField(&metadata.Field{Name: "Value", Type: t})
	a.Fill = box.AddMethod(&metadata.Method{
		Name:       "Fill",
		ReturnType: a.Void,
		Parameters: []*metadata.Parameter{param("items", mustConstruct(a.List, t))},
	})
	get := &metadata.Method{Name: "Get"}
	v := get.DefineGenericParameter("V")
	get.ReturnType = v
	get.Parameters = []*metadata.Parameter{param("key", t), param("fallback", v)}
	a.Get = box.AddMethod(get)

	a.Color = box.Nest(metadata.NewType("", "Color", metadata.CategoryEnum))
	a.Color.BaseType = a.Core.Lookup("System.Enum")
	a.Color.AddField(&metadata.Field{Name: "Red", Type: a.Color, IsStatic: true})
	a.Color.AddField(&metadata.Field{Name: "Green", Type: a.Color, IsStatic: true})

	cell := box.Nest(metadata.NewType("", "Cell`1", metadata.CategoryClass))
	cell.BaseType = a.Object
	a.CellU = cell.DefineGenericParameter("U")
	a.Cell = cell
	a.Put = cell.AddMethod(&metadata.Method{
		Name:       "Put",
		ReturnType: a.Void,
		Parameters: []*metadata.Parameter{param("outer", t), param("inner", a.CellU)},
	})
}

func (a *Acme) buildNode() {
	node := a.Assembly.AddType(metadata.NewType("Acme", "Node`1", metadata.CategoryClass))
	node.BaseType = a.Object
	t := node.DefineGenericParameter("T")
	t.Constraints = []*metadata.Type{mustConstruct(node, t)}
	node.AddProperty(&metadata.Property{Name: "Parent", Type: t})
	a.Node, a.NodeT = node, t
}

func (a *Acme) buildShapes() {
	shape := a.Assembly.AddType(metadata.NewType("Acme", "IShape", metadata.CategoryInterface))
	a.ShapeArea = shape.AddMethod(&metadata.Method{Name: "Area", ReturnType: a.Core.Lookup("System.Double")})
	a.IShape = shape

	circle := a.Assembly.AddType(metadata.NewType("Acme", "Circle", metadata.CategoryClass))
	circle.BaseType = a.Object
	a.CircleEquatable = mustConstruct(a.IEquatable, circle)
	circle.Interfaces = []*metadata.Type{shape, a.CircleEquatable}
	a.Circle = circle

	a.CircleRadius = circle.AddProperty(&metadata.Property{Name: "Radius", Type: a.Core.Lookup("System.Double")})
	a.CircleArea = circle.AddMethod(&metadata.Method{
		Name:       "Acme.IShape.Area",
		Access:     metadata.AccessPrivate,
		ReturnType: a.Core.Lookup("System.Double"),
	})
	circle.MapInterface(shape, a.ShapeArea, a.CircleArea)

	a.CircleEquals = circle.AddMethod(&metadata.Method{
		Name:       "System.IEquatable<Acme.Circle>.Equals",
		Access:     metadata.AccessPrivate,
		ReturnType: a.Boolean,
		Parameters: []*metadata.Parameter{param("other", circle)},
	})
	circle.MapInterface(a.CircleEquatable, a.IEquatable.Methods[0], a.CircleEquals)
}
