package dto_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/odonto-api/internal/application/dto"
)

func TestOptional_TresEstados(t *testing.T) {
	var in dto.UpdateAppointmentRequest
	require.NoError(t, json.Unmarshal([]byte(`{"notes": null, "procedure": "Limpeza", "value": "150.50"}`), &in))

	assert.False(t, in.DentistID.Set, "clave ausente")
	assert.True(t, in.Notes.Set)
	assert.True(t, in.Notes.Null, "null explícito")
	assert.Nil(t, in.Notes.Ptr())

	require.True(t, in.Procedure.HasValue())
	assert.Equal(t, "Limpeza", *in.Procedure.Ptr())

	require.True(t, in.Value.HasValue())
	assert.True(t, decimal.RequireFromString("150.50").Equal(in.Value.Value))
}

func TestOptional_ValorInvalido(t *testing.T) {
	var in dto.UpdateAppointmentRequest
	err := json.Unmarshal([]byte(`{"dentist_id": "abc"}`), &in)
	assert.Error(t, err)
}

func TestOptional_Constructores(t *testing.T) {
	s := dto.Some(int64(3))
	assert.True(t, s.HasValue())
	n := dto.Null[int64]()
	assert.True(t, n.Set)
	assert.False(t, n.HasValue())
}
