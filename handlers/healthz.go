package handlers

import (
	"fmt"
	"net/http"
)

// HandleHealthz is the liveness endpoint probed by the healthcheck
// subcommand. It sits outside the super-token gate and must never touch the
// ban state, otherwise container health probes would lock localhost out of
// the admin operations.
func HandleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}
