package usecase

import (
	"fmt"
	"strings"

	"github.com/jhoicas/odonto-api/internal/application/dto"
	"github.com/jhoicas/odonto-api/internal/domain"
)

// setText aplica un campo obligatorio: null o vacío es inválido.
func setText(dst *string, o dto.Optional[string], field string) error {
	if !o.Set {
		return nil
	}
	v := strings.TrimSpace(o.Value)
	if o.Null || v == "" {
		return fmt.Errorf("%w: %s no puede quedar vacío", domain.ErrInvalidInput, field)
	}
	*dst = v
	return nil
}

// setOptionalText aplica un campo opcional: null lo limpia.
func setOptionalText(dst *string, o dto.Optional[string]) {
	if o.Set {
		*dst = strings.TrimSpace(o.Value)
	}
}

func onlyDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
