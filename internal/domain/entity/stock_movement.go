package entity

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MovementType tipo canónico de un movimiento de stock.
type MovementType string

const (
	MovementEntry MovementType = "entry" // entrada
	MovementExit  MovementType = "exit"  // salida
)

// ParseMovementType normaliza el tipo recibido: sin distinguir mayúsculas ni acentos,
// acepta entry/entrée/entree y exit/sortie.
func ParseMovementType(raw string) (MovementType, bool) {
	stripAccents := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(stripAccents, strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	switch cases.Fold().String(s) {
	case "entry", "entree":
		return MovementEntry, true
	case "exit", "sortie":
		return MovementExit, true
	}
	return "", false
}

// SignedDelta devuelve +quantity para entradas y -quantity para salidas.
func (t MovementType) SignedDelta(quantity int) int {
	if t == MovementExit {
		return -quantity
	}
	return quantity
}

// Opposite devuelve el tipo inverso (usado al revertir un movimiento eliminado).
func (t MovementType) Opposite() MovementType {
	if t == MovementExit {
		return MovementEntry
	}
	return MovementExit
}

// StockMovement representa una entrada o salida aplicada a un stock.
// Quantity es siempre positiva; el signo lo da Type.
type StockMovement struct {
	ID       string
	DateTime time.Time
	Reason   string
	Quantity int
	Type     MovementType
	Note     string
	StockID  string // vacío si el stock fue eliminado
	UserID   string
}

// Delta efecto firmado del movimiento sobre la cantidad del stock.
func (m *StockMovement) Delta() int {
	return m.Type.SignedDelta(m.Quantity)
}
