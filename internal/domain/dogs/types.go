package dogs

import "strings"

// Status define los estados posibles de un perro.
// No es un workflow estricto: cualquier estado puede pasar a cualquier otro.
// @Enum normal, lost, stolen, found
type Status string

const (
	StatusNormal Status = "normal"
	StatusLost   Status = "lost"
	StatusStolen Status = "stolen"
	StatusFound  Status = "found"
)

// ParseStatus valida contra el set cerrado de estados. Un valor fuera del
// enum es error de validación, no se almacena tal cual.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.TrimSpace(s)) {
	case StatusNormal:
		return StatusNormal, nil
	case StatusLost:
		return StatusLost, nil
	case StatusStolen:
		return StatusStolen, nil
	case StatusFound:
		return StatusFound, nil
	default:
		return "", ErrInvalidInput
	}
}

// NormalizeMicrochip quita TODO el whitespace, incluido el interno:
// "MA 0001" y "MA0001" son el mismo chip.
func NormalizeMicrochip(s string) string {
	return strings.Join(strings.Fields(s), "")
}
