// Package logger provee un logger Zap singleton con scoping por contexto.
//
// # Decisiones
//
//   - Singleton: una sola instancia global inicializada con Init().
//   - Context scoping: cada request puede llevar su logger "scoped" con campos
//     adicionales (request_id, office_id, etc.) sin crear un nuevo core.
//   - Environments: "dev" usa consola con colores, "prod" usa JSON.
//
// El core de autorización nunca loguea por sí mismo: retorna outcomes tipados
// y deja el logging a la capa que llama (handlers, CLI). Los helpers de este
// paquete existen para esas capas.
//
// # Uso
//
// Inicialización (una vez en main):
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
//	defer logger.Sync()
//
// En handlers (con contexto):
//
//	log := logger.From(ctx)
//	log.Info("override updated", logger.Role(role), logger.Slug(slug))
package logger
