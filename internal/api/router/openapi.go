package router

import (
	_ "embed"
	"net/http"
)

// Documento OpenAPI servido para a UI do Swagger em /swagger/.
//
//go:embed doc.json
var openAPIDoc []byte

// OpenAPIDocHandler serve o documento OpenAPI embutido no binário.
func OpenAPIDocHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(openAPIDoc)
}
