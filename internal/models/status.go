package models

// Order lifecycle statuses, kept in Portuguese as stored and displayed.
const (
	StatusPendente          = "pendente"
	StatusPreparando        = "preparando"
	StatusConcluido         = "concluido"
	StatusPagamentoPendente = "pagamento pendente"
	StatusPago              = "pago"
	StatusNaoPago           = "não pago"
	StatusEntregue          = "entregue"
	StatusCancelado         = "cancelado"
)

const (
	PaymentCash = "dinheiro"
	PaymentPix  = "pix"
)

// Transitions is the adjacency list of manual status moves. Cancelation is
// handled separately: every non-terminal status may move to cancelado.
var Transitions = map[string][]string{
	StatusPendente:          {StatusPreparando},
	StatusPreparando:        {StatusConcluido, StatusPagamentoPendente},
	StatusPagamentoPendente: {StatusPago, StatusNaoPago},
	StatusPago:              {StatusConcluido, StatusEntregue},
	StatusNaoPago:           {StatusConcluido, StatusEntregue},
	StatusConcluido:         {StatusEntregue},
	StatusEntregue:          {},
	StatusCancelado:         {},
}

func IsTerminalStatus(status string) bool {
	return status == StatusEntregue || status == StatusCancelado
}

func CanTransition(from, to string) bool {
	if to == StatusCancelado {
		return !IsTerminalStatus(from)
	}
	for _, next := range Transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func ValidStatus(status string) bool {
	_, ok := Transitions[status]
	return ok
}
