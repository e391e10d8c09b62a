package api

import (
	"io"
	"net/http"

	"text2phenotype.com/morph/pipeline"
)

const maxBodyBytes = 16 << 20

type Request struct {
	Pipeline pipeline.Pipeline
}

// ProcessData runs the pipeline on the request body, plain text or a pre-tagged document.
func (req *Request) ProcessData(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	log := requestLogger(r)

	msg, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "could not read request body")
		return
	}
	if len(msg) == 0 {
		writeError(w, r, http.StatusBadRequest, "request body is empty")
		return
	}

	request := pipeline.Request{
		Tid:  requestID(w),
		Text: string(msg),
	}
	log.Info().Str("tid", request.Tid).Msg("Starting pipeline for request from API")
	resp, ok := <-req.Pipeline(request)
	if !ok {
		writeError(w, r, http.StatusInternalServerError, "pipeline returned no result")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(resp))
	log.Info().Int("status", http.StatusOK).Msg("Finished processing request")
}
