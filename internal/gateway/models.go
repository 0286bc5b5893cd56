package gateway

import "strings"

// Event categories the backend recognizes. The enumeration is open:
// unknown values pass through untouched.
const (
	CategoriaShow     = "SHOW"
	CategoriaConcerto = "CONCERTO"
	CategoriaTeatro   = "TEATRO"
	CategoriaPalestra = "PALESTRA"
	CategoriaWorkshop = "WORKSHOP"
)

// StatusCancelado marks a cancelled event (statusEvento or status field)
const StatusCancelado = "CANCELADO"

// Evento mirrors the backend's event DTO. The backend is inconsistent
// about a few field names (preco/valor, categoria/tipo, imagemUrl/imagem,
// idAdminCriador/criadoPorId), so both spellings are kept and the
// accessor methods below resolve them.
type Evento struct {
	ID                   uint     `json:"id"`
	Nome                 string   `json:"nome"`
	Data                 string   `json:"data"`
	Local                string   `json:"local"`
	Preco                *float64 `json:"preco,omitempty"`
	Valor                *float64 `json:"valor,omitempty"`
	Categoria            string   `json:"categoria,omitempty"`
	Tipo                 string   `json:"tipo,omitempty"`
	Descricao            string   `json:"descricao,omitempty"`
	ImagemURL            string   `json:"imagemUrl,omitempty"`
	Imagem               string   `json:"imagem,omitempty"`
	IngressosDisponiveis *int     `json:"ingressosDisponiveis,omitempty"`
	IDAdminCriador       uint     `json:"idAdminCriador,omitempty"`
	CriadoPorID          uint     `json:"criadoPorId,omitempty"`
	Status               string   `json:"status,omitempty"`
	StatusEvento         string   `json:"statusEvento,omitempty"`
	CriadorNome          string   `json:"criadorNome,omitempty"`
	CriadorEmail         string   `json:"criadorEmail,omitempty"`
}

// CategoriaEfetiva returns the normalized (uppercase) category
func (e Evento) CategoriaEfetiva() string {
	cat := e.Categoria
	if cat == "" {
		cat = e.Tipo
	}
	return strings.ToUpper(cat)
}

// Cancelado reports whether either status field marks the event cancelled
func (e Evento) Cancelado() bool {
	return e.Status == StatusCancelado || e.StatusEvento == StatusCancelado
}

// PrecoEfetivo resolves preco/valor, defaulting to zero for display
func (e Evento) PrecoEfetivo() float64 {
	if e.Preco != nil {
		return *e.Preco
	}
	if e.Valor != nil {
		return *e.Valor
	}
	return 0
}

// CriadorID resolves the creator id across both field spellings
func (e Evento) CriadorID() uint {
	if e.CriadoPorID != 0 {
		return e.CriadoPorID
	}
	return e.IDAdminCriador
}

// Ingresso is the backend's ticket record
type Ingresso struct {
	ID         uint     `json:"id"`
	EventoID   uint     `json:"eventoId"`
	Quantidade int      `json:"quantidade"`
	Preco      *float64 `json:"preco,omitempty"`
	Status     string   `json:"status,omitempty"`
	UsuarioID  uint     `json:"usuarioId,omitempty"`
}

// Usuario is a backend user as returned by the super-admin listings
type Usuario struct {
	ID          uint   `json:"id"`
	Nome        string `json:"nome"`
	Email       string `json:"email"`
	TipoUsuario string `json:"tipoUsuario,omitempty"`
}

// Solicitacao is one role-elevation request, terminal once APROVADA or NEGADA
type Solicitacao struct {
	ID          uint   `json:"id"`
	UsuarioID   uint   `json:"usuarioId"`
	NomeUsuario string `json:"nomeUsuario,omitempty"`
	Motivo      string `json:"motivo,omitempty"`
	Status      string `json:"status"`
	CriadaEm    string `json:"criadaEm,omitempty"`
}

// Role-request status values (strict one-way-then-terminal progression)
const (
	SolicitacaoPendente = "PENDENTE"
	SolicitacaoAprovada = "APROVADA"
	SolicitacaoNegada   = "NEGADA"
)

// StatusSolicitacao is the authoritative status of a user's latest request
type StatusSolicitacao struct {
	Status string `json:"status"`
}

// LoginResult is the session material a successful login returns.
// TipoUsuario comes from the body when the backend declares it, else
// it is inferred from which login endpoint answered.
type LoginResult struct {
	ID          uint   `json:"id"`
	Nome        string `json:"nome"`
	Email       string `json:"email"`
	Token       string `json:"token"`
	TipoUsuario string `json:"tipoUsuario"`
}

// RegisterRequest creates a new storefront user
type RegisterRequest struct {
	Nome  string `json:"nome"`
	Email string `json:"email"`
	Senha string `json:"senha"`
}

// EventoRequest is the write shape for create/update event calls
type EventoRequest struct {
	Nome                 string   `json:"nome"`
	Data                 string   `json:"data"`
	Local                string   `json:"local"`
	Preco                *float64 `json:"preco,omitempty"`
	Categoria            string   `json:"categoria,omitempty"`
	Descricao            string   `json:"descricao,omitempty"`
	ImagemURL            string   `json:"imagemUrl,omitempty"`
	IngressosDisponiveis *int     `json:"ingressosDisponiveis,omitempty"`
}

// IngressoRequest is the write shape for ticket registration
type IngressoRequest struct {
	EventoID   uint     `json:"eventoId"`
	Quantidade int      `json:"quantidade"`
	Preco      *float64 `json:"preco,omitempty"`
}

// AdminDTO creates a new admin through the super-admin namespace
type AdminDTO struct {
	Nome  string `json:"nome"`
	Email string `json:"email"`
	Senha string `json:"senha"`
}
