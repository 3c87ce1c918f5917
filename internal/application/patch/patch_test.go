package patch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Taller-api/internal/application/patch"
)

func TestOptional_VacioEsNil(t *testing.T) {
	assert.Nil(t, patch.Optional(""))
	assert.Nil(t, patch.Optional("   "))
	if got := patch.Optional(" 555-1234 "); assert.NotNil(t, got) {
		assert.Equal(t, "555-1234", *got)
	}
}

func TestOptionalString(t *testing.T) {
	current := patch.Optional("viejo")

	patch.OptionalString(&current, nil)
	assert.Equal(t, "viejo", *current, "nil no modifica")

	empty := ""
	patch.OptionalString(&current, &empty)
	assert.Nil(t, current, "vacío borra")

	nuevo := "nuevo"
	patch.OptionalString(&current, &nuevo)
	assert.Equal(t, "nuevo", *current)
}

func TestSetYPointer(t *testing.T) {
	qty := 5
	patch.Set(&qty, nil)
	assert.Equal(t, 5, qty)
	ten := 10
	patch.Set(&qty, &ten)
	assert.Equal(t, 10, qty)

	var min *int
	patch.Pointer(&min, &ten)
	ten = 99
	assert.Equal(t, 10, *min, "se guarda una copia")
}
