package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// coste bajo para no quemar CPU en tests
var fastParams = Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLen: 32}

func TestHashAndVerify(t *testing.T) {
	phc, err := Hash(fastParams, "correcto-caballo-bateria")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(phc, "$argon2id$v=19$m=8192,t=1,p=1$"), phc)

	assert.True(t, Verify("correcto-caballo-bateria", phc))
	assert.False(t, Verify("otro-password-cualquiera", phc))
}

func TestHashSaltsPerCredential(t *testing.T) {
	a, err := Hash(fastParams, "misma-clave-123")
	require.NoError(t, err)
	b, err := Hash(fastParams, "misma-clave-123")
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "dos hashes de la misma clave llevan salts distintos")
	assert.True(t, Verify("misma-clave-123", a))
	assert.True(t, Verify("misma-clave-123", b))
}

func TestVerifyRejectsMalformedPHC(t *testing.T) {
	for _, phc := range []string{
		"",
		"texto plano",
		"$argon2i$v=19$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$QUJDRA",
		"$argon2id$v=18$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$QUJDRA",
		"$argon2id$v=19$m=8192,t=1,p=1$!!!$QUJDRA",
		"$argon2id$v=19$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA",
	} {
		assert.False(t, Verify("lo-que-sea", phc), "phc %q", phc)
	}
}

func TestPolicyReasons(t *testing.T) {
	p := Policy{MinLength: 10, RequireUpper: true, RequireDigit: true}

	ok, reasons := p.Validate("corta")
	assert.False(t, ok)
	assert.Contains(t, reasons, "too_short")
	assert.Contains(t, reasons, "missing_upper")
	assert.Contains(t, reasons, "missing_digit")

	ok, reasons = p.Validate("Larga1suficiente")
	assert.True(t, ok)
	assert.Empty(t, reasons)
}

func TestDefaultPolicyMinLength(t *testing.T) {
	ok, _ := DefaultPolicy.Validate("nueve....")
	assert.False(t, ok)
	ok, _ = DefaultPolicy.Validate("diez......")
	assert.True(t, ok)
}
