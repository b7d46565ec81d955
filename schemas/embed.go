// Package schemas содержит JSON-схемы контрактов: события очередей и
// тела внешних запросов.
package schemas

import "embed"

//go:embed events requests
var SchemasFS embed.FS
