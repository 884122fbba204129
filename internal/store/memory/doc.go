// Package memory implementa los repositorios del core sobre mapas en
// memoria protegidos por mutex. Es el backend de los tests y del modo dev
// (storage.driver: memory). Cada operación es su propia unidad atómica; las
// garantías de CAS y snapshot son las mismas que debe probar el adapter de
// PostgreSQL.
package memory
