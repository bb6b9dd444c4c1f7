package service

import (
	"github.com/DonboyBR/sigam-backend/internal/model"

	"github.com/google/uuid"
)

// Ator identifies the authenticated operator acting on a request, resolved
// from the JWT claims by the transport layer. Authorization is evaluated here
// in the service layer, against the Ator, independent of routing middleware —
// every sale and caixa operation requires a real authenticated operator, there
// is no fallback identity.
type Ator struct {
	ID    uuid.UUID
	Admin bool
}

// podeAcessarCaixa is the shared predicate for caixa-scoped access: the owner
// or an admin.
func (a Ator) podeAcessarCaixa(c *model.Caixa) bool {
	return a.Admin || c.ResponsavelID == a.ID
}
