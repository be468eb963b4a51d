// Package club defines the records managed through the club API and the
// per-resource metadata (columns, editing, validation) the UI and CLI share.
package club

import (
	"net/mail"
	"strings"
	"time"

	"github.com/five82/plantel/internal/fault"
)

// InventoryItem is a piece of equipment in the club's stock (estoque).
type InventoryItem struct {
	ID         ID       `json:"id,omitempty"`
	Nome       string   `json:"nome"`
	Quantidade Quantity `json:"quantidade"`
	Categoria  string   `json:"categoria,omitempty"`
}

func (i InventoryItem) RecordID() string { return string(i.ID) }

// Validate checks the fields the server requires.
func (i InventoryItem) Validate() error {
	if strings.TrimSpace(i.Nome) == "" {
		return fault.Invalid("nome", "required")
	}
	if i.Quantidade < 0 {
		return fault.Invalid("quantidade", "must not be negative")
	}
	return nil
}

// Athlete is a registered player (atleta).
type Athlete struct {
	ID             ID     `json:"id,omitempty"`
	Nome           string `json:"nome"`
	Posicao        string `json:"posicao,omitempty"`
	Categoria      string `json:"categoria,omitempty"`
	DataNascimento string `json:"data_nascimento,omitempty"`
	Email          string `json:"email,omitempty"`
}

func (a Athlete) RecordID() string { return string(a.ID) }

func (a Athlete) Validate() error {
	if strings.TrimSpace(a.Nome) == "" {
		return fault.Invalid("nome", "required")
	}
	if a.DataNascimento != "" {
		if _, err := time.Parse(time.DateOnly, a.DataNascimento); err != nil {
			return fault.Invalid("data_nascimento", "use YYYY-MM-DD")
		}
	}
	return validEmail(a.Email)
}

// Employee is a staff member (funcionario).
type Employee struct {
	ID       ID     `json:"id,omitempty"`
	Nome     string `json:"nome"`
	Cargo    string `json:"cargo"`
	Email    string `json:"email,omitempty"`
	Telefone string `json:"telefone,omitempty"`
}

func (e Employee) RecordID() string { return string(e.ID) }

func (e Employee) Validate() error {
	if strings.TrimSpace(e.Nome) == "" {
		return fault.Invalid("nome", "required")
	}
	if strings.TrimSpace(e.Cargo) == "" {
		return fault.Invalid("cargo", "required")
	}
	return validEmail(e.Email)
}

// Analysis is an AI-generated performance report (analise). Analyses are
// produced server-side; the client only reads and deletes them.
type Analysis struct {
	ID       ID        `json:"id,omitempty"`
	AtletaID ID        `json:"atleta_id,omitempty"`
	Titulo   string    `json:"titulo"`
	Resumo   string    `json:"resumo,omitempty"`
	Status   string    `json:"status,omitempty"`
	CriadoEm time.Time `json:"criado_em,omitzero"`
}

func (a Analysis) RecordID() string { return string(a.ID) }

func (a Analysis) Validate() error {
	if strings.TrimSpace(a.Titulo) == "" {
		return fault.Invalid("titulo", "required")
	}
	return nil
}

func validEmail(s string) error {
	if s == "" {
		return nil
	}
	if _, err := mail.ParseAddress(s); err != nil {
		return fault.Invalid("email", "not a valid address")
	}
	return nil
}
