package tacgen

import (
	"splc/pkg/ast"
	"splc/pkg/tac"
)

// synthesizeConstructor builds the allocator function for sd: it calls
// malloc(size), initializes header fields, stores each member, and
// _increfs every boxed member. The allocator is named exactly like its
// constructor symbol (a `Pair(Int, Pair)` constructor synthesizes a
// function literally named `Pair`).
func (b *Builder) synthesizeConstructor(sd *ast.StructDef) {
	fn := tac.NewFunction(b.ctx.Intern(sd.Symbol).Mangled)
	b.withFunction(fn, nil, func() {
		params := make([]*tac.NameAddress, len(sd.Members))
		for i, m := range sd.Members {
			p := b.ctx.Fresh(m.Symbol.Name, tac.TagParam)
			b.fn.AddParam(p)
			params[i] = p
		}

		size := int64(headerSize + 8*len(sd.Members))
		obj := b.fn.NewTemp()
		b.fn.Emit(tac.Call{Dest: addrPtr(obj), Func: b.ctx.Runtime("malloc"), Args: []tac.Address{&tac.ConstAddress{Value: size}}})

		b.fn.Emit(tac.LeftIndexedAssign{Base: obj, Index: fieldRefCount, Src: tac.UnboxedOne})
		b.fn.Emit(tac.LeftIndexedAssign{Base: obj, Index: fieldDestructor, Src: b.destructorAddr(sd.Symbol)})
		b.fn.Emit(tac.LeftIndexedAssign{Base: obj, Index: fieldPointerFields, Src: &tac.ConstAddress{Value: pointerFieldsBitmap(sd.Members)}})
		b.fn.Emit(tac.LeftIndexedAssign{Base: obj, Index: fieldMarkBit, Src: tac.UnboxedZero})

		for i, m := range sd.Members {
			b.fn.Emit(tac.LeftIndexedAssign{Base: obj, Index: i + firstMemberField, Src: params[i]})
			if m.Type.IsBoxed() {
				b.fn.Emit(tac.Call{Func: b.ctx.Runtime("_incref"), Args: []tac.Address{params[i]}})
			}
		}

		b.fn.Emit(tac.Return{Value: obj})
	})
	b.out.Functions = append(b.out.Functions, fn)
}

// synthesizeDestructor builds `_destroy<mangled>`, a destructor that
// _decrefs each boxed member and calls free.
func (b *Builder) synthesizeDestructor(sd *ast.StructDef) {
	fn := tac.NewFunction(b.destructorAddr(sd.Symbol).Mangled)
	b.withFunction(fn, nil, func() {
		self := b.ctx.Fresh("self", tac.TagParam)
		b.fn.AddParam(self)

		for i, m := range sd.Members {
			if !m.Type.IsBoxed() {
				continue
			}
			field := b.fn.NewTemp()
			b.fn.Emit(tac.RightIndexedAssign{Dest: field, Base: self, Index: i + firstMemberField})
			b.fn.Emit(tac.Call{Func: b.ctx.Runtime("_decref"), Args: []tac.Address{field}})
		}

		b.fn.Emit(tac.Call{Func: b.ctx.Runtime("free"), Args: []tac.Address{self}})
		b.fn.Emit(tac.Return{})
	})
	b.out.Functions = append(b.out.Functions, fn)
}

// pointerFieldsBitmap sets bit i whenever member i is a managed pointer,
// matching the object header's pointer-fields bitmap field.
func pointerFieldsBitmap(members []*ast.MemberDef) int64 {
	var bits int64
	for i, m := range members {
		if m.Type.IsBoxed() {
			bits |= 1 << uint(i)
		}
	}
	return bits
}
