package listing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Taller-api/internal/application/listing"
)

func TestMatchesSearch_SinDistinguirMayusculas(t *testing.T) {
	name := "Jane Doe"
	email := "JANE@EXAMPLE.COM"

	assert.True(t, listing.MatchesSearch("jane", &name))
	assert.True(t, listing.MatchesSearch("DOE", &name))
	assert.True(t, listing.MatchesSearch("example.com", &name, &email))
	assert.False(t, listing.MatchesSearch("smith", &name, &email))
}

func TestMatchesSearch_VaciaCoincideSiempre(t *testing.T) {
	assert.True(t, listing.MatchesSearch(""))
	assert.True(t, listing.MatchesSearch("   ", nil))
}

func TestMatchesSearch_CamposNilSeIgnoran(t *testing.T) {
	assert.False(t, listing.MatchesSearch("x", nil, listing.Str("")))
	assert.True(t, listing.MatchesSearch("ñand", nil, listing.Str("ÑANDÚ")))
}

func TestMatchesFilter_AllEsNoOp(t *testing.T) {
	for _, v := range []string{"pending", "completed", ""} {
		assert.True(t, listing.MatchesFilter("all", v))
		assert.True(t, listing.MatchesFilter("ALL", v))
		assert.True(t, listing.MatchesFilter("", v))
	}
	assert.True(t, listing.MatchesFilter("pending", "pending"))
	assert.False(t, listing.MatchesFilter("pending", "completed"))
}

func TestMatchesOptional(t *testing.T) {
	cat := "Aceites"
	assert.True(t, listing.MatchesOptional("aceites", &cat))
	assert.False(t, listing.MatchesOptional("filtros", &cat))
	assert.False(t, listing.MatchesOptional("filtros", nil))
	assert.True(t, listing.MatchesOptional("all", nil))
}

func TestFilterYCountBy(t *testing.T) {
	in := []string{"a", "bb", "cc", "d"}
	out := listing.Filter(in, func(s string) bool { return len(s) == 2 })
	assert.Equal(t, []string{"bb", "cc"}, out)
	assert.Equal(t, in, []string{"a", "bb", "cc", "d"}, "la entrada no se modifica")

	counts := listing.CountBy(in, func(s string) string {
		if len(s) == 1 {
			return "corto"
		}
		return "largo"
	})
	assert.Equal(t, map[string]int{"corto": 2, "largo": 2}, counts)
}
