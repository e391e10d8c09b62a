package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"text2phenotype.com/morph/resources"
)

func TestLoadService(t *testing.T) {
	config := Config{
		ConfigPath:    "../types/testdata/config",
		ResourcesPath: "../resources/testdata",
	}
	src, closeSource, err := openSource(config)
	require.NoError(t, err)
	defer closeSource()

	svc, err := loadService(config, src, nil)
	require.NoError(t, err)
	require.Len(t, svc.configs, 2)
	require.Contains(t, svc.languages, "el")
	require.Contains(t, svc.languages, "ru")

	res, err := svc.lemmatizeWord("greek", "Πατάτες", "")
	require.NoError(t, err)
	require.Equal(t, []string{"πατάτα"}, res.Lemmas)

	_, err = svc.lemmatizeWord("latin", "rosa", "")
	require.Error(t, err)
}

func TestLoadServiceErrors(t *testing.T) {
	t.Run("no resources", func(t *testing.T) {
		_, _, err := openSource(Config{ConfigPath: "."})
		require.Error(t, err)
	})
	t.Run("missing language", func(t *testing.T) {
		config := Config{ConfigPath: "../types/testdata/config"}
		_, err := loadService(config, resources.DirSource{Root: t.TempDir()}, nil)
		require.Error(t, err)
	})
	t.Run("no configurations", func(t *testing.T) {
		config := Config{ConfigPath: t.TempDir()}
		_, err := loadService(config, resources.DirSource{Root: "../resources/testdata"}, nil)
		require.Error(t, err)
	})
}
