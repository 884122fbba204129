// Package repository define los contratos de persistencia del core.
//
// Cada componente (permisos, tokens, branding, oficinas, usuarios, auditoría)
// es dueño exclusivo de su tabla; ningún otro componente la muta directamente.
// Las implementaciones viven en internal/store/memory (tests y modo dev) y en
// internal/store/pg (PostgreSQL). Las garantías de atomicidad (consumo de
// tokens, aplicación bulk de overrides, upsert de branding) son parte del
// contrato de cada interfaz, no un detalle del driver.
package repository
