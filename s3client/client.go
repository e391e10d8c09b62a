package s3client

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"

	"text2phenotype.com/morph/logger"
)

type Client struct {
	holder     *sessionHolder
	bucketName string
	env        EnvironmentConfig
}

type EnvironmentConfig struct {
	BucketName  string `envconfig:"MDL_COMN_STORAGE_CONTAINER_NAME" required:"true"`
	T2PEnv      string `envconfig:"T2P_ENV" required:"true"`
	Region      string `envconfig:"MDL_COMN_AWS_REGION_NAME" required:"true"`
	AwsEndpoint string `envconfig:"MDL_COMN_AWS_ENDPOINT_URL" default:""`
	AccessKeyID string `envconfig:"MDL_COMN_AWS_ACCESS_ID" default:""`
	AccessKey   string `envconfig:"MDL_COMN_AWS_ACCESS_KEY" default:""`
}

var clientLogger = logger.NewLogger("S3Client")
var sdkLogger = logger.NewLogger("S3-SDK")

func New() (*Client, error) {
	var env EnvironmentConfig
	if err := envconfig.Process("", &env); err != nil {
		clientLogger.Err(err).Caller().Msg("Failed to get proper variables from environment")
		return nil, err
	}
	client := Client{
		bucketName: env.BucketName,
		env:        env,
	}
	holder, err := newSessionHolder(env)
	if err != nil {
		return nil, err
	}
	client.holder = holder
	return &client, nil
}

func (client Client) Upload(data string, key string) (*s3manager.UploadOutput, error) {
	params := &s3manager.UploadInput{
		Bucket: aws.String(client.bucketName),
		Key:    aws.String(key),
		Body:   strings.NewReader(data),
	}
	var output *s3manager.UploadOutput
	err := client.withSession(func(sess *session.Session) error {
		uploader := s3manager.NewUploader(sess.Copy(&aws.Config{Logger: sdkLog(key, client.bucketName)}))
		log := keyLogger(key, client.bucketName)
		log.Debug().Msg("Uploading the file")
		var err error
		output, err = uploader.Upload(params)
		return err
	})
	return output, err
}

// Download fetches the object stored under key. A missing object yields an error wrapping
// fs.ErrNotExist.
func (client Client) Download(key string) ([]byte, error) {
	params := &s3.GetObjectInput{
		Bucket: aws.String(client.bucketName),
		Key:    aws.String(key),
	}
	var data []byte
	err := client.withSession(func(sess *session.Session) error {
		downloader := s3manager.NewDownloader(sess.Copy(&aws.Config{Logger: sdkLog(key, client.bucketName)}))
		buf := aws.NewWriteAtBuffer([]byte{})
		log := keyLogger(key, client.bucketName)
		log.Debug().Msg("Downloading file")
		size, err := downloader.Download(buf, params)
		if err != nil {
			return err
		}
		log.Debug().Msgf("Downloaded %v bytes", size)
		data = buf.Bytes()
		return nil
	})
	if isMissingKey(err) {
		return nil, fmt.Errorf("s3 key %s: %w", key, fs.ErrNotExist)
	}
	return data, err
}

func (client Client) Close() {
	client.holder.close()
}

// withSession runs call once and, unless the failure is a missing key, once more on a
// refreshed session.
func (client Client) withSession(call func(sess *session.Session) error) error {
	sess, err := client.holder.session()
	if err != nil {
		return err
	}
	err = call(sess)
	if err == nil || isMissingKey(err) {
		return err
	}
	sess, err = client.holder.refresh(err)
	if err != nil {
		return err
	}
	return call(sess)
}

func isMissingKey(err error) bool {
	var awsErr awserr.Error
	if !errors.As(err, &awsErr) {
		return false
	}
	switch awsErr.Code() {
	case s3.ErrCodeNoSuchKey, "NotFound":
		return true
	}
	return false
}

func keyLogger(key string, bucket string) zerolog.Logger {
	return clientLogger.With().Str("key", key).Str("bucket", bucket).Logger()
}

type s3Logger struct {
	log zerolog.Logger
}

func sdkLog(key string, bucket string) *s3Logger {
	return &s3Logger{sdkLogger.With().Str("key", key).Str("bucket", bucket).Logger()}
}

func (l *s3Logger) Log(v ...interface{}) {
	l.log.Debug().Msg(fmt.Sprint(v...))
}
