package api

import (
	"net/http"
	"sort"

	"text2phenotype.com/morph/lemmatizer"
	"text2phenotype.com/morph/types"
	"text2phenotype.com/morph/utils"
)

type languagesResponse struct {
	Languages []types.LanguageInfo `json:"languages"`
}

// LanguageInfos describes the loaded languages, ordered by code.
func LanguageInfos(langs map[string]*lemmatizer.Language) []types.LanguageInfo {
	infos := make([]types.LanguageInfo, 0, len(langs))
	for _, lang := range langs {
		info := types.LanguageInfo{
			Code:        lang.Code,
			Name:        lang.Name,
			Fallback:    lang.Fallback,
			Categories:  make([]string, 0, len(lang.Categories)),
			Fingerprint: utils.FormatHash(lang.Fingerprint),
		}
		for _, cat := range lemmatizer.Categories {
			if lang.HasCategory(cat) {
				info.Categories = append(info.Categories, string(cat))
			}
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Code < infos[j].Code
	})
	return infos
}

func languagesHandler(infos []types.LanguageInfo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, http.MethodGet) {
			return
		}
		writeJSON(w, r, http.StatusOK, languagesResponse{Languages: infos})
	}
}

func health(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
