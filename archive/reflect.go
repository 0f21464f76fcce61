package archive

import (
	"reflect"
	"unsafe"

	"github.com/hupe1980/terse/dynarray"
	"github.com/hupe1980/terse/endian"
)

type scalarKind uint8

const (
	kindBool scalarKind = iota
	kindInt
	kindUint
	kindFloat
)

// scalarRef points at a fixed-width scalar in memory.
type scalarRef struct {
	kind  scalarKind
	width int
	ptr   unsafe.Pointer
}

func ref[T any](p *T, kind scalarKind) scalarRef {
	return scalarRef{kind: kind, width: int(unsafe.Sizeof(*p)), ptr: unsafe.Pointer(p)} //nolint:gosec // scalar view
}

// scalarOf classifies v as a scalar. Pointers are required for loading;
// saving also accepts plain values.
func scalarOf(v any, mode Mode) (scalarRef, bool) {
	switch x := v.(type) {
	case *bool:
		return ref(x, kindBool), true
	case *int8:
		return ref(x, kindInt), true
	case *int16:
		return ref(x, kindInt), true
	case *int32:
		return ref(x, kindInt), true
	case *int64:
		return ref(x, kindInt), true
	case *uint8:
		return ref(x, kindUint), true
	case *uint16:
		return ref(x, kindUint), true
	case *uint32:
		return ref(x, kindUint), true
	case *uint64:
		return ref(x, kindUint), true
	case *float32:
		return ref(x, kindFloat), true
	case *float64:
		return ref(x, kindFloat), true
	}

	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return scalarRef{}, false
	}
	if rv.Kind() != reflect.Pointer {
		if mode == Load {
			return scalarRef{}, false
		}
		cp := reflect.New(rv.Type())
		cp.Elem().Set(rv)
		rv = cp
	}
	if rv.IsNil() {
		return scalarRef{}, false
	}
	elem := rv.Elem()
	kind, ok := scalarKindOf(elem.Kind())
	if !ok {
		return scalarRef{}, false
	}
	return scalarRef{kind: kind, width: int(elem.Type().Size()), ptr: rv.UnsafePointer()}, true
}

func scalarKindOf(k reflect.Kind) (scalarKind, bool) {
	switch k {
	case reflect.Bool:
		return kindBool, true
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return kindInt, true
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return kindUint, true
	case reflect.Float32, reflect.Float64:
		return kindFloat, true
	default:
		return 0, false
	}
}

func (r scalarRef) bytes() []byte {
	return unsafe.Slice((*byte)(r.ptr), r.width)
}

func (r scalarRef) int() int64 {
	switch r.width {
	case 1:
		return int64(*(*int8)(r.ptr))
	case 2:
		return int64(*(*int16)(r.ptr))
	case 4:
		return int64(*(*int32)(r.ptr))
	default:
		return *(*int64)(r.ptr)
	}
}

func (r scalarRef) setInt(v int64) {
	switch r.width {
	case 1:
		*(*int8)(r.ptr) = int8(v)
	case 2:
		*(*int16)(r.ptr) = int16(v)
	case 4:
		*(*int32)(r.ptr) = int32(v)
	default:
		*(*int64)(r.ptr) = v
	}
}

func (r scalarRef) uint() uint64 {
	switch r.width {
	case 1:
		return uint64(*(*uint8)(r.ptr))
	case 2:
		return uint64(*(*uint16)(r.ptr))
	case 4:
		return uint64(*(*uint32)(r.ptr))
	default:
		return *(*uint64)(r.ptr)
	}
}

func (r scalarRef) setUint(v uint64) {
	switch r.width {
	case 1:
		*(*uint8)(r.ptr) = uint8(v)
	case 2:
		*(*uint16)(r.ptr) = uint16(v)
	case 4:
		*(*uint32)(r.ptr) = uint32(v)
	default:
		*(*uint64)(r.ptr) = v
	}
}

func (r scalarRef) float() float64 {
	if r.width == 4 {
		return float64(*(*float32)(r.ptr))
	}
	return *(*float64)(r.ptr)
}

func (r scalarRef) setFloat(v float64) {
	if r.width == 4 {
		*(*float32)(r.ptr) = float32(v)
		return
	}
	*(*float64)(r.ptr) = v
}

func (r scalarRef) bool() bool { return *(*bool)(r.ptr) }

func (r scalarRef) setBool(v bool) { *(*bool)(r.ptr) = v }

// rawBuffer is a growth container of scalars moved as one packed block.
type rawBuffer interface {
	Len() int
	ElemSize() int
	RawBytes() []byte
	ResizeUninitialized(n int)
	ElemPtr(i int) any
}

var _ rawBuffer = (*dynarray.Array[float32])(nil)

type scalarSlice[T endian.Scalar] struct {
	s *[]T
}

func (q scalarSlice[T]) Len() int         { return len(*q.s) }
func (q scalarSlice[T]) ElemSize() int    { return endian.SizeOf[T]() }
func (q scalarSlice[T]) RawBytes() []byte { return endian.Bytes(*q.s) }
func (q scalarSlice[T]) ElemPtr(i int) any {
	return &(*q.s)[i]
}

func (q scalarSlice[T]) ResizeUninitialized(n int) {
	if n <= cap(*q.s) {
		*q.s = (*q.s)[:n]
		return
	}
	grown := make([]T, n)
	copy(grown, *q.s)
	*q.s = grown
}

// Scalars serializes *s as a packed scalar container. It is only needed for
// slices of named scalar types; built-in scalar slices are detected
// automatically.
func Scalars[T endian.Scalar](s *[]T) any {
	return scalarSlice[T]{s: s}
}

// asRawBuffer detects packed scalar containers.
func asRawBuffer(v any) (rawBuffer, bool) {
	switch x := v.(type) {
	case rawBuffer:
		return x, true
	case *[]int8:
		return scalarSlice[int8]{x}, true
	case *[]int16:
		return scalarSlice[int16]{x}, true
	case *[]int32:
		return scalarSlice[int32]{x}, true
	case *[]int64:
		return scalarSlice[int64]{x}, true
	case *[]uint8:
		return scalarSlice[uint8]{x}, true
	case *[]uint16:
		return scalarSlice[uint16]{x}, true
	case *[]uint32:
		return scalarSlice[uint32]{x}, true
	case *[]uint64:
		return scalarSlice[uint64]{x}, true
	case *[]float32:
		return scalarSlice[float32]{x}, true
	case *[]float64:
		return scalarSlice[float64]{x}, true
	}
	return nil, false
}

// packedView returns the raw bytes of a fixed sequence whose elements are
// numeric scalars, along with the element width.
func packedView(s any) ([]byte, int, bool) {
	rv := reflect.ValueOf(s)
	if rv.Kind() != reflect.Slice || rv.Len() == 0 {
		return nil, 0, false
	}
	kind, ok := scalarKindOf(rv.Type().Elem().Kind())
	if !ok || kind == kindBool {
		return nil, 0, false
	}
	width := int(rv.Type().Elem().Size())
	return unsafe.Slice((*byte)(rv.UnsafePointer()), rv.Len()*width), width, true
}

type reflectSeq struct {
	v reflect.Value // addressable slice or array
}

func (q reflectSeq) length() int    { return q.v.Len() }
func (q reflectSeq) elem(i int) any { return q.v.Index(i).Addr().Interface() }
func (q reflectSeq) reset()         { q.v.SetLen(0) }
func (q reflectSeq) raw() any       { return q.v.Slice(0, q.v.Len()).Interface() }

func (q reflectSeq) grow() any {
	q.v.Set(reflect.Append(q.v, reflect.Zero(q.v.Type().Elem())))
	return q.v.Index(q.v.Len() - 1).Addr().Interface()
}

type rawSource interface {
	raw() any
}

// asSequence detects element-wise containers. Pointers to Go arrays are
// fixed; pointers to slices are growable.
func asSequence(v any) (seq sequence, fixed bool, ok bool) {
	switch x := v.(type) {
	case growable:
		return x, false, true
	case sequence:
		return x, true, true
	case *[]string:
		return &sliceSeq[string]{s: x}, false, true
	case *[]bool:
		return &sliceSeq[bool]{s: x}, false, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return nil, false, false
	}
	switch rv.Elem().Kind() {
	case reflect.Array:
		return reflectSeq{v: rv.Elem()}, true, true
	case reflect.Slice:
		return reflectSeq{v: rv.Elem()}, false, true
	}
	return nil, false, false
}
