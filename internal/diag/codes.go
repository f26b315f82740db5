package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// ABI parsing
	AbiInfo         Code = 1000
	AbiInvalidJSON  Code = 1001
	AbiMissingField Code = 1002
	AbiBadShape     Code = 1003
	AbiUnknownType  Code = 1004
	AbiSkippedEntry Code = 1005

	// Canonical signature / selector derivation (зарезервируем)
	SigInfo Code = 2000

	// Naming & collision resolution
	NameInfo                Code = 3000
	NameDuplicateSelector   Code = 3001
	NameDuplicateIdentifier Code = 3002

	// Type mapping
	MapInfo            Code = 4000
	MapUnsupportedType Code = 4001

	// Emission & output
	GenInfo        Code = 5000
	GenWriteFailed Code = 5001
)

// ID renders the stable diagnostic identifier, e.g. ABI1004 or NAM3001.
func (c Code) ID() string {
	switch {
	case c >= 5000:
		return fmt.Sprintf("GEN%04d", uint16(c))
	case c >= 4000:
		return fmt.Sprintf("MAP%04d", uint16(c))
	case c >= 3000:
		return fmt.Sprintf("NAM%04d", uint16(c))
	case c >= 2000:
		return fmt.Sprintf("SIG%04d", uint16(c))
	case c >= 1000:
		return fmt.Sprintf("ABI%04d", uint16(c))
	}
	return fmt.Sprintf("UNK%04d", uint16(c))
}

func (c Code) String() string {
	return c.ID()
}
