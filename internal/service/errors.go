package service

import "errors"

// Sentinel errors shared across services. Handlers map these onto the HTTP
// taxonomy (404/400/403/409); anything else is a 500.
var (
	ErrOrderNotFound     = errors.New("pedido nao encontrado")
	ErrProductNotFound   = errors.New("produto nao encontrado")
	ErrUserNotFound      = errors.New("usuario nao encontrado")
	ErrInvalidStatus     = errors.New("status desconhecido")
	ErrIllegalTransition = errors.New("transicao de status nao permitida")
	ErrTransitionDenied  = errors.New("perfil sem permissao para esta transicao")
	ErrInsufficientStock = errors.New("estoque insuficiente")
)
