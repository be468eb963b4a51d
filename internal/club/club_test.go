package club

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/plantel/internal/fault"
)

func TestInventoryItemAcceptsLooseJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
		want InventoryItem
	}{
		{"numeric", `{"id":42,"nome":"Bolas","quantidade":10}`, InventoryItem{ID: "42", Nome: "Bolas", Quantidade: 10}},
		{"strings", `{"id":"a1","nome":"Bolas","quantidade":"10"}`, InventoryItem{ID: "a1", Nome: "Bolas", Quantidade: 10}},
		{"nulls", `{"id":null,"nome":"Cones","quantidade":null}`, InventoryItem{Nome: "Cones"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got InventoryItem
			require.NoError(t, json.Unmarshal([]byte(tt.body), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuantityRejectsWords(t *testing.T) {
	var got InventoryItem
	assert.Error(t, json.Unmarshal([]byte(`{"nome":"x","quantidade":"dez"}`), &got))
}

func TestIDMarshal(t *testing.T) {
	out, err := json.Marshal(InventoryItem{ID: "42", Nome: "Bolas", Quantidade: 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":42,"nome":"Bolas","quantidade":3}`, string(out))

	out, err = json.Marshal(Athlete{ID: "ab-1", Nome: "Ana"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"ab-1","nome":"Ana"}`, string(out))

	// Records without an id are created, so the id is left out.
	out, err = json.Marshal(Employee{Nome: "Rui", Cargo: "Treinador"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"nome":"Rui","cargo":"Treinador"}`, string(out))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		field string
	}{
		{"inventory ok", InventoryItem{Nome: "Bolas", Quantidade: 1}.Validate(), ""},
		{"inventory name", InventoryItem{Quantidade: 1}.Validate(), "nome"},
		{"inventory negative", InventoryItem{Nome: "Bolas", Quantidade: -1}.Validate(), "quantidade"},
		{"athlete ok", Athlete{Nome: "Ana", DataNascimento: "2008-02-29", Email: "ana@clube.pt"}.Validate(), ""},
		{"athlete date", Athlete{Nome: "Ana", DataNascimento: "29/02/2008"}.Validate(), "data_nascimento"},
		{"athlete email", Athlete{Nome: "Ana", Email: "ana"}.Validate(), "email"},
		{"employee role", Employee{Nome: "Rui"}.Validate(), "cargo"},
		{"analysis title", Analysis{}.Validate(), "titulo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.field == "" {
				assert.NoError(t, tt.err)
				return
			}
			var verr *fault.ValidationError
			require.ErrorAs(t, tt.err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestSchemaApply(t *testing.T) {
	rec := InventoryItem{ID: "5", Nome: "Bolas", Quantidade: 10}

	require.NoError(t, Inventory.Apply(&rec, map[string]string{"quantidade": " 20 ", "id": "99"}))
	assert.Equal(t, Quantity(20), rec.Quantidade)
	assert.Equal(t, ID("5"), rec.ID, "read-only columns are ignored")

	err := Inventory.Apply(&rec, map[string]string{"quantidade": "vinte"})
	assert.ErrorIs(t, err, fault.ErrValidation)

	assert.Error(t, Inventory.Apply(&rec, map[string]string{"cor": "azul"}))
}

func TestSchemaValues(t *testing.T) {
	got := Staff.Values(Employee{ID: "3", Nome: "Rui", Cargo: "Treinador"})
	assert.Equal(t, []string{"3", "Rui", "Treinador", "", ""}, got)
	assert.Len(t, Resources, 4)
	assert.False(t, Analyses.Creatable)
	assert.False(t, Analyses.Editable)
}
