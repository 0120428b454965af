// Package apidocs отдаёт описание HTTP API в формате OpenAPI для Swagger UI.
package apidocs

import (
	_ "embed"
	"net/http"
)

// Path путь, по которому Swagger UI запрашивает документ.
const Path = "/docs/openapi.json"

//go:embed openapi.json
var document []byte

// Handler отдаёт встроенный OpenAPI документ.
func Handler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(document)
}
