package middleware

import (
	"net/http"
	"strings"
)

// exposedHeaders lists the response headers browser clients may read.
// Ledger-* headers carry the metadata of a rejected request.
var exposedHeaders = []string{
	"Connect-Protocol-Version",
	"Connect-Timeout-Ms",
	"Ledger-Error-Code",
	"Ledger-Expense-Id",
	"Ledger-Member-Id",
	"Ledger-Amount",
	"Ledger-Remaining",
	"Ledger-Cleared",
	"Ledger-Start",
	"Ledger-End",
	"Content-Disposition",
}

// CORS adds CORS headers for browser access and answers preflight requests.
// It wraps the whole router so that OPTIONS requests to routes registered
// for other methods still get a response.
func CORS(next http.Handler) http.Handler {
	expose := strings.Join(exposedHeaders, ", ")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", expose)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
