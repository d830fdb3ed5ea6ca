package cpf_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vortex-fintech/go-cpf/cpf"
)

func TestParse(t *testing.T) {
	c, err := cpf.Parse(" 111.444.777-35 ")
	require.NoError(t, err)
	assert.False(t, c.IsZero())
	assert.Equal(t, "11144477735", c.Digits())
	assert.Equal(t, "111.444.777-35", c.String())
	assert.Equal(t, "***.***.*77-35", c.Masked())
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"", "111.444.777-36", "22222222222", "1114447773"} {
		c, err := cpf.Parse(in)
		require.Error(t, err, "Parse(%q)", in)
		assert.True(t, c.IsZero())
		assert.NotEmpty(t, cpf.Reason(err))
	}
}

func TestMustParse(t *testing.T) {
	assert.Equal(t, "52998224725", cpf.MustParse("529.982.247-25").Digits())
	assert.Panics(t, func() { cpf.MustParse("123") })
}

func TestZeroValue(t *testing.T) {
	var c cpf.CPF
	assert.True(t, c.IsZero())
	assert.Equal(t, "", c.String())
	assert.Equal(t, "", c.Masked())
}

func TestJSONRoundTrip(t *testing.T) {
	type person struct {
		Name string  `json:"name"`
		CPF  cpf.CPF `json:"cpf"`
	}

	b, err := json.Marshal(person{Name: "Ana", CPF: cpf.MustParse("11144477735")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Ana","cpf":"111.444.777-35"}`, string(b))

	var p person
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Ana","cpf":"11144477735"}`), &p))
	assert.Equal(t, "111.444.777-35", p.CPF.String())

	require.NoError(t, json.Unmarshal([]byte(`{"name":"Ana","cpf":""}`), &p))
	assert.True(t, p.CPF.IsZero())

	err = json.Unmarshal([]byte(`{"cpf":"111.444.777-36"}`), &p)
	require.Error(t, err)
	assert.ErrorIs(t, err, cpf.ErrInvalidCheckDigit)
}
