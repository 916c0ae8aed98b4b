package payment

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeMethod unifica etiquetas de método de pago: sin tildes, minúsculas y sin espacios sobrantes.
// "Crédito " y "credito" quedan iguales.
func NormalizeMethod(label string) string {
	// Los transformers guardan estado: uno por llamada.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, label)
	if err != nil {
		out = label
	}
	return strings.ToLower(strings.Join(strings.Fields(out), " "))
}
