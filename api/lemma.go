package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"text2phenotype.com/morph/lemmatizer"
	"text2phenotype.com/morph/pipeline"
	"text2phenotype.com/morph/types"
)

type Lemmas struct {
	Word  pipeline.WordLemmatizer
	Batch pipeline.BatchLemmatizer
}

type batchWord struct {
	Text string `json:"text"`
	Tag  string `json:"tag"`
}

type batchRequest struct {
	Config string      `json:"config"`
	Words  []batchWord `json:"words"`
}

type batchResponse struct {
	Results []types.WordResult `json:"results"`
}

func (l *Lemmas) Lemma(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	query := r.URL.Query()
	config, word := query.Get("config"), query.Get("word")
	if len(config) == 0 || len(word) == 0 {
		writeError(w, r, http.StatusBadRequest, "'config' and 'word' query parameters are required")
		return
	}
	res, err := l.Word(config, word, query.Get("tag"))
	if err != nil {
		writeLemmatizerError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (l *Lemmas) LemmaBatch(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var body batchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, "body must be JSON with 'config' and 'words' fields")
		return
	}
	words := make([]lemmatizer.Word, len(body.Words))
	for i, word := range body.Words {
		words[i] = lemmatizer.Word{Text: word.Text, Tag: word.Tag}
	}
	results, err := l.Batch(body.Config, words)
	if err != nil {
		writeLemmatizerError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, batchResponse{Results: results})
}

func writeLemmatizerError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, pipeline.ErrUnknownConfiguration) {
		writeError(w, r, http.StatusNotFound, err.Error())
		return
	}
	requestLogger(r).Err(err).Msg("Lemmatization failed")
	writeError(w, r, http.StatusInternalServerError, "lemmatization failed")
}
