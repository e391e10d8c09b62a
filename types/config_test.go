package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigurations(t *testing.T) {
	cfgs, err := LoadConfigurations("testdata/config")
	require.NoError(t, err)
	require.Len(t, cfgs, 2)

	require.Equal(t, "greek", cfgs[0].Name)
	require.Equal(t, "el", cfgs[0].Language)
	require.Equal(t, "NOUN", cfgs[0].DefaultTag)
	require.True(t, cfgs[0].CheckFeature(StopWordsFeature))
	require.False(t, cfgs[0].CheckFeature(AllTokensFeature))

	require.Equal(t, "russian", cfgs[1].Name)
	require.Equal(t, "testdata/config/russian.yaml", cfgs[1].FilePath)

	require.Equal(t, []string{"el", "ru"}, Languages(append(cfgs, cfgs...)))

	_, err = LoadConfigurations("testdata/missing")
	require.Error(t, err)
}

func TestGetShape(t *testing.T) {
	require.Equal(t, "Xxxdd", GetShape("Σύμ12"))
	require.Equal(t, "", GetShape(""))
}
