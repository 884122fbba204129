// Package password hashea credenciales con argon2id y valida su fortaleza
// contra la política del producto. El hash se serializa en formato PHC: los
// parámetros de coste viajan con cada credencial, así pueden endurecerse sin
// migrar las filas ya existentes.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Params son los parámetros de coste de argon2id.
type Params struct {
	Memory      uint32 // KiB
	Time        uint32
	Parallelism uint8
	KeyLen      uint32
}

// Default es el coste de producción: 64 MiB, 3 pasadas, 2 lanes. Los tests
// usan parámetros bajos vía accounts.WithParams.
var Default = Params{Memory: 64 * 1024, Time: 3, Parallelism: 2, KeyLen: 32}

const saltLen = 16

// Hash genera $argon2id$v=19$m=...,t=...,p=...$<salt>$<clave> con salt
// aleatorio por credencial.
func Hash(p Params, plain string) (string, error) {
	if plain == "" {
		return "", fmt.Errorf("empty password")
	}
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	dk := argon2.IDKey([]byte(plain), salt, p.Time, p.Memory, p.Parallelism, p.KeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Time, p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(dk),
	), nil
}

// Verify comprueba un password contra su PHC string con comparación en
// tiempo constante. Un PHC malformado o de otra variante es no-match, nunca
// un error: un hash corrupto en DB se comporta como credencial inválida.
func Verify(plain, phc string) bool {
	parts := strings.Split(phc, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return false
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}
	var m, t uint32
	var p uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &m, &t, &p); err != nil {
		return false
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}
	got := argon2.IDKey([]byte(plain), salt, t, m, p, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1
}
