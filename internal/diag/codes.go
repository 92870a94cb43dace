package diag

// Error code ranges:
// P0001-P0099: parser/scanner errors
// C0001-C0099: name resolution and declaration errors
// C0100-C0199: type errors
// C0200-C0299: reification errors
// C0300-C0399: match-exhaustiveness errors
// E0001-E0099: runtime evaluation errors

const (
	PUnexpectedToken  = "P0001"
	PUnterminatedStr  = "P0002"
	PMalformedInt     = "P0003"
	PExpectedExpr     = "P0004"

	CUndefinedVariable = "C0001"
	CUndefinedFunction = "C0002"
	CDuplicateDecl     = "C0003"
	CUndefinedObject   = "C0004"
	CBadReifyShadow    = "C0005"
	CFieldNotFound     = "C0006"

	CTypeMismatch     = "C0100"
	CNotSubtype       = "C0101"
	CBadOperands      = "C0102"
	CBadConversion    = "C0103"
	CArityMismatch    = "C0104"

	CReifyReturnType = "C0200"
	CReifyNotBool    = "C0201"

	CMatchNotExhaustive = "C0300"
	CMatchUnreachable   = "C0301"

	EOverflow       = "E0001"
	EDivByZero      = "E0002"
	EIndexOOB       = "E0003"
	ECastFailed     = "E0004"
	EStackOverflow  = "E0005"
	ENonlinearMul   = "E0006"
	EMissingEnv     = "E0007"
	ECanceled       = "E0008"
	EInternal       = "E0009"
)
