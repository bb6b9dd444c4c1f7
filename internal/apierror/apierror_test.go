package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Conflict("já existe"), http.StatusConflict},
		{Validation("campo inválido"), http.StatusUnprocessableEntity},
		{NotFound("não encontrado"), http.StatusNotFound},
		{Forbidden("acesso negado"), http.StatusForbidden},
		{errors.New("falha de infraestrutura"), http.StatusInternalServerError},
		{nil, http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Status(c.err))
	}
}

func TestStatusErroEmbrulhado(t *testing.T) {
	err := fmt.Errorf("registrar venda: %w", Validation("estoque insuficiente"))
	assert.Equal(t, http.StatusUnprocessableEntity, Status(err))
}

func TestDetailPreservado(t *testing.T) {
	err := Conflict("Caixa já fechado.")
	assert.Equal(t, "Caixa já fechado.", err.Error())
}
