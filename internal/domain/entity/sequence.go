package entity

// Tipos de contador.
const (
	SequenceSaleNumber   = "sale-number"
	SequenceFiscalNumber = "fiscal-number"
)

// Namespace identificador estable del contador: "sale-number" o "fiscal-number:<ambiente>".
type Namespace struct {
	Kind        string
	Environment FiscalEnvironment // solo para fiscal-number
}

// SaleNamespace contador de números de venta.
func SaleNamespace() Namespace {
	return Namespace{Kind: SequenceSaleNumber}
}

// FiscalNamespace contador de documentos fiscales por ambiente.
func FiscalNamespace(env FiscalEnvironment) Namespace {
	return Namespace{Kind: SequenceFiscalNumber, Environment: env}
}

func (n Namespace) String() string {
	if n.Kind == SequenceFiscalNumber {
		return n.Kind + ":" + string(n.Environment)
	}
	return n.Kind
}
