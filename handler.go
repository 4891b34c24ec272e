package cborbody

import (
	"context"
	"net/http"
)

// Handle adapts fn into an http.Handler that extracts the request body as In
// and responds with the Out it returns, encoded with the request's resolved
// Codec. Extraction errors and errors from fn are written with WriteError.
func Handle[In, Out any](fn func(ctx context.Context, in In) (Out, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		in, err := Extract[In](r)
		if err != nil {
			WriteError(w, err)
			return
		}

		out, err := fn(r.Context(), in)
		if err != nil {
			WriteError(w, err)
			return
		}

		respond(w, configFor(r).Codec, http.StatusOK, out)
	})
}
