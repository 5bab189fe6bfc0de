package cdata

import (
	"github.com/hupe1980/colgo/arraydata"
	"github.com/hupe1980/colgo/contracts"
	"github.com/hupe1980/colgo/datatype"
)

// schemaOwner is the private data of every schema this package exports.
// The self pointer is the identity token: it points at the record the
// owner was built for, so an importer can recognise a native record
// without inspecting the release callback.
type schemaOwner struct {
	self *Schema

	// ownChild[i] reports whether releasing self also releases child i.
	// A flag is cleared when the child is handed to another owner.
	ownChild      []bool
	ownDictionary bool
}

// arrayOwner mirrors schemaOwner for data records and additionally pins
// the column record whose buffers the exported record aliases.
type arrayOwner struct {
	self *Array
	data *arraydata.ArrayData

	ownChild      []bool
	ownDictionary bool
}

// nativeSchema returns the owner if s was exported by this package.
func nativeSchema(s *Schema) (*schemaOwner, bool) {
	o, ok := s.PrivateData.(*schemaOwner)
	return o, ok && o.self == s
}

// nativeArray returns the owner if a was exported by this package.
func nativeArray(a *Array) (*arrayOwner, bool) {
	o, ok := a.PrivateData.(*arrayOwner)
	return o, ok && o.self == a
}

// ExportSchema renders a field description as an interchange record. The
// caller owns the result and must release it.
func ExportSchema(f datatype.Field) *Schema {
	return ExportSchemaWithMetadata(f, nil)
}

// ExportSchemaWithMetadata attaches metadata pairs to the top-level record.
func ExportSchemaWithMetadata(f datatype.Field, metadata []KeyValue) *Schema {
	s := exportSchema(f)
	s.Metadata = EncodeMetadata(metadata)
	return s
}

func exportSchema(f datatype.Field) *Schema {
	s := &Schema{
		Format: f.Type.Format(),
		Name:   f.Name,
	}
	if f.Nullable {
		s.Flags |= Nullable
	}

	childFields := datatype.Children(f.Type)
	switch dt := f.Type.(type) {
	case *datatype.Dictionary:
		// The record itself describes the index type; the value type
		// hangs off the dictionary slot.
		s.Dictionary = exportSchema(datatype.Field{Type: dt.Value, Nullable: true})
		if dt.Ordered {
			s.Flags |= DictionaryOrdered
		}
		childFields = datatype.Children(dt.Index)
	case *datatype.Map:
		if dt.KeysSorted {
			s.Flags |= MapKeysSorted
		}
	}

	s.Children = make([]*Schema, len(childFields))
	for i, cf := range childFields {
		s.Children[i] = exportSchema(cf)
	}

	owner := &schemaOwner{
		self:          s,
		ownChild:      make([]bool, len(s.Children)),
		ownDictionary: s.Dictionary != nil,
	}
	for i := range owner.ownChild {
		owner.ownChild[i] = true
	}
	s.PrivateData = owner
	s.Release = releaseSchema
	return s
}

// releaseSchema is installed on every exported schema. It verifies the
// identity token, releases owned children and the owned dictionary, then
// zeroes the record.
func releaseSchema(s *Schema) {
	owner, ok := nativeSchema(s)
	contracts.Assert(ok, "release invoked with the record it was installed on")

	for i, c := range s.Children {
		if owner.ownChild[i] && !c.Released() {
			c.Release(c)
		}
	}
	if owner.ownDictionary && s.Dictionary != nil && !s.Dictionary.Released() {
		s.Dictionary.Release(s.Dictionary)
	}

	*s = Schema{}
}

// ExportArray renders a column record as a data interchange record. The
// exported record aliases the column's memory zero-copy and pins it until
// released; the caller owns the result and must release it.
func ExportArray(d *arraydata.ArrayData) *Array {
	a := &Array{
		Length:    int64(d.Len()),
		NullCount: int64(exportNullCount(d)),
		Offset:    int64(d.Offset()),
	}

	if datatype.HasValidity(d.Type()) {
		var validity []byte
		if bm := d.Bitmap(); bm != nil {
			validity = bm.Buffer().Bytes()
		}
		a.Buffers = append(a.Buffers, validity)
	}
	for _, b := range d.Buffers() {
		a.Buffers = append(a.Buffers, b.Bytes())
	}

	a.Children = make([]*Array, len(d.Children()))
	for i, c := range d.Children() {
		a.Children[i] = ExportArray(c)
	}
	if dict := d.Dictionary(); dict != nil {
		a.Dictionary = ExportArray(dict)
	}

	owner := &arrayOwner{
		self:          a,
		data:          d,
		ownChild:      make([]bool, len(a.Children)),
		ownDictionary: a.Dictionary != nil,
	}
	for i := range owner.ownChild {
		owner.ownChild[i] = true
	}
	a.PrivateData = owner
	a.Release = releaseArray
	return a
}

func exportNullCount(d *arraydata.ArrayData) int {
	switch d.Type().ID() {
	case datatype.NULL:
		return d.Len()
	case datatype.RUN_END_ENCODED, datatype.DENSE_UNION, datatype.SPARSE_UNION:
		// Nulls hide in the children; leave the count to the consumer.
		return -1
	}
	bm := d.Bitmap()
	if bm == nil {
		return 0
	}
	if d.Offset() == 0 && d.Len() == bm.Len() {
		if n, ok := bm.KnownNullCount(); ok {
			return n
		}
		// Never counted; leave it to the consumer.
		return -1
	}
	return d.NullCount()
}

func releaseArray(a *Array) {
	owner, ok := nativeArray(a)
	contracts.Assert(ok, "release invoked with the record it was installed on")

	for i, c := range a.Children {
		if owner.ownChild[i] && !c.Released() {
			c.Release(c)
		}
	}
	if owner.ownDictionary && a.Dictionary != nil && !a.Dictionary.Released() {
		a.Dictionary.Release(a.Dictionary)
	}

	// Forward any obligation the column itself was carrying and drop the
	// pin on its memory.
	owner.data.Release()
	owner.data = nil

	*a = Array{}
}

// TakeChild transfers ownership of child i out of a native record: the
// parent's ownership flag is cleared, so releasing the parent leaves the
// child live. The caller must release the returned record itself.
func TakeChild(a *Array, i int) *Array {
	owner, ok := nativeArray(a)
	contracts.Assert(ok, "record was exported by this package")
	contracts.CheckBounds(i, len(a.Children))
	contracts.Assert(owner.ownChild[i], "child still owned by the parent")
	owner.ownChild[i] = false
	return a.Children[i]
}

// TakeDictionary transfers ownership of the dictionary out of a native
// record.
func TakeDictionary(a *Array) *Array {
	owner, ok := nativeArray(a)
	contracts.Assert(ok, "record was exported by this package")
	contracts.Assert(owner.ownDictionary && a.Dictionary != nil, "dictionary still owned by the record")
	owner.ownDictionary = false
	return a.Dictionary
}
