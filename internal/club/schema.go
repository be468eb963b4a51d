package club

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/five82/plantel/internal/fault"
)

// Column describes one editable or displayed field of a record.
type Column struct {
	Key      string
	Title    string
	Width    int
	Required bool
	ReadOnly bool
}

// Schema describes how one resource is addressed, shown and edited.
type Schema[T any] struct {
	Resource string // path segment under /api/
	Title    string
	Singular string
	Columns  []Column
	// Creatable is false for resources produced by the server.
	Creatable bool
	Editable  bool

	Get      func(T, string) string
	Set      func(*T, string, string) error
	Validate func(T) error
	Label    func(T) string
}

// Values returns the column values of rec in column order.
func (s Schema[T]) Values(rec T) []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = s.Get(rec, c.Key)
	}
	return out
}

// Apply sets every key of values on rec. Unknown keys are an error.
func (s Schema[T]) Apply(rec *T, values map[string]string) error {
	for _, c := range s.Columns {
		v, ok := values[c.Key]
		if !ok || c.ReadOnly {
			continue
		}
		if err := s.Set(rec, c.Key, strings.TrimSpace(v)); err != nil {
			return err
		}
	}
	for k := range values {
		if _, ok := s.Column(k); !ok {
			return fmt.Errorf("%s has no field %q", s.Resource, k)
		}
	}
	return nil
}

// Column looks up a column by key.
func (s Schema[T]) Column(key string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}

// Resource names.
const (
	ResourceInventory = "estoque"
	ResourceAthletes  = "atletas"
	ResourceStaff     = "funcionarios"
	ResourceAnalyses  = "analises"
)

// Resources lists every resource in tab order.
var Resources = []string{ResourceInventory, ResourceAthletes, ResourceStaff, ResourceAnalyses}

var Inventory = Schema[InventoryItem]{
	Resource:  ResourceInventory,
	Title:     "Inventory",
	Singular:  "item",
	Creatable: true,
	Editable:  true,
	Columns: []Column{
		{Key: "id", Title: "ID", Width: 8, ReadOnly: true},
		{Key: "nome", Title: "Name", Width: 28, Required: true},
		{Key: "quantidade", Title: "Qty", Width: 6},
		{Key: "categoria", Title: "Category", Width: 16},
	},
	Get: func(i InventoryItem, key string) string {
		switch key {
		case "id":
			return i.ID.String()
		case "nome":
			return i.Nome
		case "quantidade":
			return strconv.Itoa(int(i.Quantidade))
		case "categoria":
			return i.Categoria
		}
		return ""
	},
	Set: func(i *InventoryItem, key, value string) error {
		switch key {
		case "nome":
			i.Nome = value
		case "quantidade":
			q, err := ParseQuantity(value)
			if err != nil {
				return invalid(key, err)
			}
			i.Quantidade = q
		case "categoria":
			i.Categoria = value
		}
		return nil
	},
	Validate: InventoryItem.Validate,
	Label:    func(i InventoryItem) string { return i.Nome },
}

var Athletes = Schema[Athlete]{
	Resource:  ResourceAthletes,
	Title:     "Athletes",
	Singular:  "athlete",
	Creatable: true,
	Editable:  true,
	Columns: []Column{
		{Key: "id", Title: "ID", Width: 8, ReadOnly: true},
		{Key: "nome", Title: "Name", Width: 24, Required: true},
		{Key: "posicao", Title: "Position", Width: 12},
		{Key: "categoria", Title: "Category", Width: 10},
		{Key: "data_nascimento", Title: "Born", Width: 10},
		{Key: "email", Title: "Email", Width: 24},
	},
	Get: func(a Athlete, key string) string {
		switch key {
		case "id":
			return a.ID.String()
		case "nome":
			return a.Nome
		case "posicao":
			return a.Posicao
		case "categoria":
			return a.Categoria
		case "data_nascimento":
			return a.DataNascimento
		case "email":
			return a.Email
		}
		return ""
	},
	Set: func(a *Athlete, key, value string) error {
		switch key {
		case "nome":
			a.Nome = value
		case "posicao":
			a.Posicao = value
		case "categoria":
			a.Categoria = value
		case "data_nascimento":
			a.DataNascimento = value
		case "email":
			a.Email = value
		}
		return nil
	},
	Validate: Athlete.Validate,
	Label:    func(a Athlete) string { return a.Nome },
}

var Staff = Schema[Employee]{
	Resource:  ResourceStaff,
	Title:     "Staff",
	Singular:  "employee",
	Creatable: true,
	Editable:  true,
	Columns: []Column{
		{Key: "id", Title: "ID", Width: 8, ReadOnly: true},
		{Key: "nome", Title: "Name", Width: 24, Required: true},
		{Key: "cargo", Title: "Role", Width: 16, Required: true},
		{Key: "email", Title: "Email", Width: 24},
		{Key: "telefone", Title: "Phone", Width: 14},
	},
	Get: func(e Employee, key string) string {
		switch key {
		case "id":
			return e.ID.String()
		case "nome":
			return e.Nome
		case "cargo":
			return e.Cargo
		case "email":
			return e.Email
		case "telefone":
			return e.Telefone
		}
		return ""
	},
	Set: func(e *Employee, key, value string) error {
		switch key {
		case "nome":
			e.Nome = value
		case "cargo":
			e.Cargo = value
		case "email":
			e.Email = value
		case "telefone":
			e.Telefone = value
		}
		return nil
	},
	Validate: Employee.Validate,
	Label:    func(e Employee) string { return e.Nome },
}

var Analyses = Schema[Analysis]{
	Resource: ResourceAnalyses,
	Title:    "Analyses",
	Singular: "analysis",
	Columns: []Column{
		{Key: "id", Title: "ID", Width: 8, ReadOnly: true},
		{Key: "atleta_id", Title: "Athlete", Width: 8, ReadOnly: true},
		{Key: "titulo", Title: "Title", Width: 28, ReadOnly: true},
		{Key: "status", Title: "Status", Width: 10, ReadOnly: true},
		{Key: "criado_em", Title: "Created", Width: 16, ReadOnly: true},
	},
	Get: func(a Analysis, key string) string {
		switch key {
		case "id":
			return a.ID.String()
		case "atleta_id":
			return a.AtletaID.String()
		case "titulo":
			return a.Titulo
		case "status":
			return a.Status
		case "resumo":
			return a.Resumo
		case "criado_em":
			if a.CriadoEm.IsZero() {
				return ""
			}
			return a.CriadoEm.Local().Format("2006-01-02 15:04")
		}
		return ""
	},
	Set:      func(*Analysis, string, string) error { return nil },
	Validate: Analysis.Validate,
	Label:    func(a Analysis) string { return a.Titulo },
}

func invalid(field string, err error) error {
	return fault.Invalid(field, err.Error())
}
