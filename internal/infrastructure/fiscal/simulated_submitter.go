// Package fiscal adaptadores del puerto ports.FiscalSubmitter.
package fiscal

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Ventas-api/internal/application/ports"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/fiscaldoc"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// Modos de envío (FISCAL_SUBMISSION).
const (
	ModeDev      = "dev"      // simulado local, no sale de la máquina
	ModeDisabled = "disabled" // sin envío; los documentos quedan pending
)

// SimulatedSubmitter autoriza localmente cualquier documento que pase fiscaldoc.Validate.
// El identificador externo es el código de control del documento.
type SimulatedSubmitter struct {
	log *logger.Logger
}

var _ ports.FiscalSubmitter = (*SimulatedSubmitter)(nil)

// NewSimulatedSubmitter construye el adaptador de desarrollo.
func NewSimulatedSubmitter(log *logger.Logger) *SimulatedSubmitter {
	if log == nil {
		log = logger.Nop()
	}
	return &SimulatedSubmitter{log: log}
}

func (s *SimulatedSubmitter) Submit(ctx context.Context, doc *entity.FiscalDocument, lines []*entity.FiscalDocumentLine) (*ports.SubmitResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := fiscaldoc.Validate(doc, lines); err != nil {
		problems := strings.Split(err.Error(), "\n")
		s.log.Debug().Str("document_id", doc.ID).Strs("errors", problems).Msg("envío simulado rechazado")
		return &ports.SubmitResult{Accepted: false, Errors: problems}, nil
	}
	code, err := fiscaldoc.ControlCode(doc, lines)
	if err != nil {
		return &ports.SubmitResult{Accepted: false, Errors: []string{err.Error()}}, nil
	}
	s.log.Debug().Str("document_id", doc.ID).Str("external_id", code).Msg("envío simulado autorizado")
	return &ports.SubmitResult{ExternalID: code, Accepted: true}, nil
}

// NewSubmitter elige el adaptador según el modo. nil significa envío deshabilitado.
func NewSubmitter(mode string, log *logger.Logger) (ports.FiscalSubmitter, error) {
	switch mode {
	case ModeDev, "":
		return NewSimulatedSubmitter(log), nil
	case ModeDisabled:
		return nil, nil
	}
	return nil, fmt.Errorf("FISCAL_SUBMISSION desconocido: %q", mode)
}
