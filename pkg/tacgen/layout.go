package tacgen

// Word-index layout of the 32-byte SplObject header: refCount,
// destructor pointer, pointerFields bitmap, markBit, in that order,
// each one 8-byte word. LeftIndexedAssign/RightIndexedAssign address
// fields by word index from the base pointer; the instruction selector
// is responsible for turning an index into a `index*8` byte
// displacement when it lowers to an addressing mode.
const (
	fieldRefCount      = 0
	fieldDestructor    = 1
	fieldPointerFields = 2
	fieldMarkBit       = 3

	// firstMemberField is the word index of the first payload word
	// following the header — member 0 of a record, or the code address
	// of a closure.
	firstMemberField = 4

	headerWords = 4
	headerSize  = headerWords * 8

	// fieldCodeAddress is a closure's only payload word: a closure is a
	// "two-word heap closure: { SplObject header; codeAddress }" read
	// structurally (header, then one more word) rather than literally
	// two 8-byte words, to stay consistent with the 32-byte (four-word)
	// SplObject header. A closure's total allocation is therefore
	// headerSize+8 bytes.
	fieldCodeAddress = firstMemberField
	closureSize       = headerSize + 8
)
