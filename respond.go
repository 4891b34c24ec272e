package cborbody

import (
	"net/http"
	"strconv"
)

// Respond writes v as a CBOR response with status 200.
func Respond(w http.ResponseWriter, v any) {
	RespondStatus(w, http.StatusOK, v)
}

// RespondStatus writes v as a CBOR response with the given status. If v
// cannot be encoded the failure is logged and an empty 500 is written
// instead; nothing about the cause reaches the client.
func RespondStatus(w http.ResponseWriter, status int, v any) {
	respond(w, DefaultCodec, status, v)
}

func respond(w http.ResponseWriter, c Codec, status int, v any) {
	body, err := marshal(c, v)
	if err != nil {
		logger.WithError(err).Error("cbor serialization error")
		w.WriteHeader(http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", MediaType)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
