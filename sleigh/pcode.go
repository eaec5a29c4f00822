package sleigh

// Raw P-code opcodes as emitted by the decoder.
const (
	OpcodeCopy      = 1  // COPY
	OpcodeLoad      = 2  // LOAD
	OpcodeStore     = 3  // STORE
	OpcodeBranch    = 4  // BRANCH
	OpcodeCBranch   = 5  // CBRANCH
	OpcodeBranchInd = 6  // BRANCHIND
	OpcodeCall      = 7  // CALL
	OpcodeCallInd   = 8  // CALLIND
	OpcodeCallOther = 9  // CALLOTHER (user-defined operation)
	OpcodeReturn    = 10 // RETURN

	// Arithmetic, logic, float and SSA helper opcodes. The pipeline does
	// not model their semantics; they all compress to the unimplemented
	// IL tag.
	OpcodeIntEqual     = 11 // INT_EQUAL
	OpcodeIntNotEqual  = 12 // INT_NOTEQUAL
	OpcodeIntSLess     = 13 // INT_SLESS
	OpcodeIntSLessEq   = 14 // INT_SLESSEQUAL
	OpcodeIntLess      = 15 // INT_LESS
	OpcodeIntLessEq    = 16 // INT_LESSEQUAL
	OpcodeIntZext      = 17 // INT_ZEXT
	OpcodeIntSext      = 18 // INT_SEXT
	OpcodeIntAdd       = 19 // INT_ADD
	OpcodeIntSub       = 20 // INT_SUB
	OpcodeIntCarry     = 21 // INT_CARRY
	OpcodeIntSCarry    = 22 // INT_SCARRY
	OpcodeIntSBorrow   = 23 // INT_SBORROW
	OpcodeInt2Comp     = 24 // INT_2COMP
	OpcodeIntNegate    = 25 // INT_NEGATE
	OpcodeIntXor       = 26 // INT_XOR
	OpcodeIntAnd       = 27 // INT_AND
	OpcodeIntOr        = 28 // INT_OR
	OpcodeIntLeft      = 29 // INT_LEFT
	OpcodeIntRight     = 30 // INT_RIGHT
	OpcodeIntSRight    = 31 // INT_SRIGHT
	OpcodeIntMult      = 32 // INT_MULT
	OpcodeIntDiv       = 33 // INT_DIV
	OpcodeIntSDiv      = 34 // INT_SDIV
	OpcodeIntRem       = 35 // INT_REM
	OpcodeIntSRem      = 36 // INT_SREM
	OpcodeBoolNegate   = 37 // BOOL_NEGATE
	OpcodeBoolXor      = 38 // BOOL_XOR
	OpcodeBoolAnd      = 39 // BOOL_AND
	OpcodeBoolOr       = 40 // BOOL_OR
	OpcodeFloatEqual   = 41 // FLOAT_EQUAL
	OpcodeFloatNEqual  = 42 // FLOAT_NOTEQUAL
	OpcodeFloatLess    = 43 // FLOAT_LESS
	OpcodeFloatLessEq  = 44 // FLOAT_LESSEQUAL
	OpcodeFloatNan     = 46 // FLOAT_NAN
	OpcodeFloatAdd     = 47 // FLOAT_ADD
	OpcodeFloatDiv     = 48 // FLOAT_DIV
	OpcodeFloatMult    = 49 // FLOAT_MULT
	OpcodeFloatSub     = 50 // FLOAT_SUB
	OpcodeFloatNeg     = 51 // FLOAT_NEG
	OpcodeFloatAbs     = 52 // FLOAT_ABS
	OpcodeFloatSqrt    = 53 // FLOAT_SQRT
	OpcodeFloatInt2F   = 54 // FLOAT_INT2FLOAT
	OpcodeFloatF2F     = 55 // FLOAT_FLOAT2FLOAT
	OpcodeFloatTrunc   = 56 // FLOAT_TRUNC
	OpcodeFloatCeil    = 57 // FLOAT_CEIL
	OpcodeFloatFloor   = 58 // FLOAT_FLOOR
	OpcodeFloatRound   = 59 // FLOAT_ROUND
	OpcodeMultiEqual   = 60 // MULTIEQUAL
	OpcodeIndirect     = 61 // INDIRECT
	OpcodePiece        = 62 // PIECE
	OpcodeSubPiece     = 63 // SUBPIECE
	OpcodeCast         = 64 // CAST
	OpcodePtrAdd       = 65 // PTRADD
	OpcodePtrSub       = 66 // PTRSUB
	OpcodeSegmentOp    = 67 // SEGMENTOP
	OpcodeCPoolRef     = 68 // CPOOLREF
	OpcodeNew          = 69 // NEW
	OpcodeInsert       = 70 // INSERT
	OpcodeExtract      = 71 // EXTRACT
	OpcodePopcount     = 72 // POPCOUNT
)
