package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/DonboyBR/sigam-backend/internal/infra"

	"github.com/rs/zerolog/log"
)

// FechamentoWorker notifies the configured address whenever a caixa closes.
// A failed notification is logged and dropped; the close itself already
// committed and must never depend on SMTP availability.
type FechamentoWorker struct {
	mailer *infra.Mailer
	to     string
}

func NewFechamentoWorker(mailer *infra.Mailer, to string) *FechamentoWorker {
	return &FechamentoWorker{mailer: mailer, to: to}
}

func (w *FechamentoWorker) Process(_ context.Context, raw json.RawMessage) {
	var payload FechamentoPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("fechamento_worker: invalid payload")
		return
	}
	if w.to == "" {
		log.Warn().Str("caixa_id", payload.CaixaID).Msg("fechamento_worker: RELATORIO_EMAIL não configurado — pulando")
		return
	}

	subject := fmt.Sprintf("Fechamento de caixa %s", payload.CaixaID)
	body := fmt.Sprintf(
		"Caixa %s fechado em %s.\n\nTotal apurado: R$ %s\nTotal do sistema: R$ %s\n",
		payload.CaixaID, payload.DataFechamento, payload.ValorApurado, payload.ValorSistema,
	)

	if err := w.mailer.SendRelatorio(w.to, subject, body, ""); err != nil {
		log.Error().Err(err).Str("caixa_id", payload.CaixaID).Msg("fechamento_worker: falha ao enviar resumo")
		return
	}
	log.Info().Str("caixa_id", payload.CaixaID).Msg("fechamento_worker: resumo de fechamento enviado")
}
