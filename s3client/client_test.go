package s3client

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/stretchr/testify/require"
)

func TestIsMissingKey(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("boom"), false},
		{"no such key", awserr.New(s3.ErrCodeNoSuchKey, "missing", nil), true},
		{"head not found", awserr.New("NotFound", "missing", nil), true},
		{"wrapped", fmt.Errorf("download: %w", awserr.New(s3.ErrCodeNoSuchKey, "missing", nil)), true},
		{"access denied", awserr.New("AccessDenied", "denied", nil), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, isMissingKey(c.err))
		})
	}
}

func TestEnvConfigEndpoint(t *testing.T) {
	env := EnvironmentConfig{
		Region:      "us-east-1",
		AwsEndpoint: "http://localhost:4566",
		AccessKeyID: "id",
		AccessKey:   "secret",
	}
	t.Run("dev", func(t *testing.T) {
		env.T2PEnv = "dev"
		cfg, err := (&sessionHolder{env: env}).envConfig()
		require.NoError(t, err)
		require.Equal(t, "http://localhost:4566", *cfg.Endpoint)
		require.True(t, *cfg.S3ForcePathStyle)
	})
	t.Run("prod", func(t *testing.T) {
		env.T2PEnv = "prod"
		cfg, err := (&sessionHolder{env: env}).envConfig()
		require.NoError(t, err)
		require.Nil(t, cfg.Endpoint)
	})
	t.Run("no credentials", func(t *testing.T) {
		_, err := (&sessionHolder{env: EnvironmentConfig{Region: "us-east-1"}}).envConfig()
		require.Error(t, err)
	})
}
