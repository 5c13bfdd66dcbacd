package models

import (
	dErrors "plenario/pkg/domain-errors"
)

// Status is the administrative stage of an appeal resource.
//
// The stages are informally progressive: most resources walk the list top to
// bottom, but judgment can detour through diligence, request-for-view or
// suspension before the decision pipeline resumes. Transitions are validated
// centrally through the adjacency table below; a status value outside the
// enumeration never enters the system because ParseStatus rejects it.
type Status string

const (
	StatusEmAnalise             Status = "EM_ANALISE"
	StatusTempestividade        Status = "TEMPESTIVIDADE"
	StatusContrarrazao          Status = "CONTRARRAZAO"
	StatusParecerPGM            Status = "PARECER_PGM"
	StatusDistribuicao          Status = "DISTRIBUICAO"
	StatusNotificacaoJulgamento Status = "NOTIFICACAO_JULGAMENTO"
	StatusJulgamento            Status = "JULGAMENTO"
	StatusDiligencia            Status = "DILIGENCIA"
	StatusPedidoVista           Status = "PEDIDO_VISTA"
	StatusSuspenso              Status = "SUSPENSO"
	StatusPublicacaoAcordao     Status = "PUBLICACAO_ACORDAO"
	StatusAssinaturaAcordao     Status = "ASSINATURA_ACORDAO"
	StatusNotificacaoDecisao    Status = "NOTIFICACAO_DECISAO"
	StatusConcluido             Status = "CONCLUIDO"
)

// allStatuses is the canonical lifecycle order used for listings.
var allStatuses = []Status{
	StatusEmAnalise,
	StatusTempestividade,
	StatusContrarrazao,
	StatusParecerPGM,
	StatusDistribuicao,
	StatusNotificacaoJulgamento,
	StatusJulgamento,
	StatusDiligencia,
	StatusPedidoVista,
	StatusSuspenso,
	StatusPublicacaoAcordao,
	StatusAssinaturaAcordao,
	StatusNotificacaoDecisao,
	StatusConcluido,
}

// transitions is the adjacency table of legal status moves. Uncontrolled
// reassignment is the main corruption risk in this domain, so every status
// change goes through CanTransitionTo.
var transitions = map[Status][]Status{
	StatusEmAnalise:             {StatusTempestividade},
	StatusTempestividade:        {StatusContrarrazao, StatusParecerPGM},
	StatusContrarrazao:          {StatusParecerPGM},
	StatusParecerPGM:            {StatusDistribuicao},
	StatusDistribuicao:          {StatusNotificacaoJulgamento},
	StatusNotificacaoJulgamento: {StatusJulgamento},
	StatusJulgamento:            {StatusDiligencia, StatusPedidoVista, StatusSuspenso, StatusPublicacaoAcordao},
	StatusDiligencia:            {StatusNotificacaoJulgamento, StatusJulgamento},
	StatusPedidoVista:           {StatusJulgamento},
	StatusSuspenso:              {StatusNotificacaoJulgamento, StatusJulgamento},
	StatusPublicacaoAcordao:     {StatusAssinaturaAcordao},
	StatusAssinaturaAcordao:     {StatusNotificacaoDecisao},
	StatusNotificacaoDecisao:    {StatusConcluido},
	StatusConcluido:             nil, // terminal
}

type statusMeta struct {
	label    string
	cssClass string
}

// statusDisplay is the closed label/visual lookup consumed by reporting.
var statusDisplay = map[Status]statusMeta{
	StatusEmAnalise:             {"Em análise", "badge-secondary"},
	StatusTempestividade:        {"Tempestividade", "badge-info"},
	StatusContrarrazao:          {"Contrarrazão", "badge-info"},
	StatusParecerPGM:            {"Parecer PGM", "badge-info"},
	StatusDistribuicao:          {"Distribuição", "badge-primary"},
	StatusNotificacaoJulgamento: {"Notificação de julgamento", "badge-primary"},
	StatusJulgamento:            {"Julgamento", "badge-warning"},
	StatusDiligencia:            {"Diligência", "badge-warning"},
	StatusPedidoVista:           {"Pedido de vista", "badge-warning"},
	StatusSuspenso:              {"Suspenso", "badge-danger"},
	StatusPublicacaoAcordao:     {"Publicação do acórdão", "badge-primary"},
	StatusAssinaturaAcordao:     {"Assinatura do acórdão", "badge-primary"},
	StatusNotificacaoDecisao:    {"Notificação da decisão", "badge-primary"},
	StatusConcluido:             {"Concluído", "badge-success"},
}

// AllStatuses returns the enumeration in lifecycle order.
func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// ParseStatus validates a raw status string at the trust boundary.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown resource status %q", raw)
	}
	return s, nil
}

// Valid reports whether the status belongs to the enumeration.
func (s Status) Valid() bool {
	_, ok := statusDisplay[s]
	return ok
}

// CanTransitionTo reports whether the adjacency table allows moving to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition exists.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0 && s.Valid()
}

// JudgmentReached reports whether the resource already passed through
// judgment: judgment itself, its detours, and every decision-pipeline stage
// after it. Session judgment completion keys off this.
func (s Status) JudgmentReached() bool {
	switch s {
	case StatusJulgamento, StatusDiligencia, StatusPedidoVista, StatusSuspenso,
		StatusPublicacaoAcordao, StatusAssinaturaAcordao, StatusNotificacaoDecisao, StatusConcluido:
		return true
	}
	return false
}

// Label returns the display label for reporting.
func (s Status) Label() string {
	return statusDisplay[s].label
}

// CSSClass returns the visual class paired with the label.
func (s Status) CSSClass() string {
	return statusDisplay[s].cssClass
}
