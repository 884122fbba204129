// Package cache define el contrato mínimo de cache usado por el resolver de
// branding. Implementaciones: memory (go-cache, proceso único) y redis
// (multi-instancia).
package cache

import "time"

// Cache es un KV con TTL. Get retorna false si la clave no existe o expiró.
type Cache interface {
	Get(k string) ([]byte, bool)
	Set(k string, v []byte, ttl time.Duration)
	Delete(k string)
}
