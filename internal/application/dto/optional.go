package dto

import (
	"bytes"
	"encoding/json"
)

// Optional campo de actualización parcial con tres estados:
// ausente (Set=false), null explícito (Set=true, Null=true) o valor.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// UnmarshalJSON sólo se invoca cuando la clave está presente en el cuerpo.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// Some construye un Optional con valor.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Null construye un Optional con null explícito.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// HasValue indica presencia con valor no nulo.
func (o Optional[T]) HasValue() bool {
	return o.Set && !o.Null
}

// Ptr devuelve nil para null y un puntero al valor en otro caso. Usar sólo si Set.
func (o Optional[T]) Ptr() *T {
	if o.Null {
		return nil
	}
	v := o.Value
	return &v
}
