package s3client

import (
	"errors"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sts"
)

// sessionHolder owns the current session. A background goroutine hands it out and
// replaces it when a caller reports an error.
type sessionHolder struct {
	env       EnvironmentConfig
	curr      *session.Session
	requestCh chan *session.Session
	errorCh   chan error
	closeCh   chan struct{}
}

func newSessionHolder(env EnvironmentConfig) (*sessionHolder, error) {
	holder := &sessionHolder{
		env:       env,
		requestCh: make(chan *session.Session),
		errorCh:   make(chan error),
		closeCh:   make(chan struct{}, 1),
	}
	if err := holder.acquire(); err != nil {
		return nil, err
	}
	go holder.keepRefreshed()
	return holder, nil
}

func (holder *sessionHolder) session() (*session.Session, error) {
	sess := <-holder.requestCh
	if sess == nil {
		return nil, errors.New("could not get session")
	}
	return sess, nil
}

func (holder *sessionHolder) refresh(cause error) (*session.Session, error) {
	var sess *session.Session
	select {
	case holder.errorCh <- cause:
		sess = <-holder.requestCh
	case sess = <-holder.requestCh:
	}
	if sess == nil {
		return nil, errors.New("failed to refresh session")
	}
	return sess, nil
}

func (holder *sessionHolder) close() {
	holder.closeCh <- struct{}{}
}

func (holder *sessionHolder) keepRefreshed() {
	for {
		// pending errors are handled before the session is handed out again
		select {
		case holder.requestCh <- holder.curr:
			continue
		default:
		}
		select {
		case holder.requestCh <- holder.curr:
		case err := <-holder.errorCh:
			clientLogger.Error().Err(err).Msg("Caught error while using S3 session, trying to refresh it")
			if err = holder.acquire(); err != nil {
				clientLogger.Error().Err(err).Msg("Caught error while refreshing S3 session")
				continue
			}
			clientLogger.Info().Msg("Successfully refreshed session")
		case <-holder.closeCh:
			clientLogger.Info().Msg("Closing client")
			return
		}
	}
}

// acquire tries the EC2 role first and falls back to credentials from the environment.
func (holder *sessionHolder) acquire() error {
	sess, err := verifiedSession(holder.ec2Config())
	if err == nil {
		holder.curr = sess
		clientLogger.Info().Msg("S3 session successfully initialized using EC2")
		return nil
	}
	clientLogger.Info().Msg("Could not initialize S3 session using EC2, trying env credentials")
	cfg, err := holder.envConfig()
	if err != nil {
		holder.curr = nil
		clientLogger.Error().Err(err).Msg("Error with credentials from environment")
		return err
	}
	sess, err = verifiedSession(cfg)
	if err != nil {
		holder.curr = nil
		clientLogger.Error().Err(err).Msg("Could not initialize S3 session")
		return errors.New("could not initialize S3 session")
	}
	holder.curr = sess
	clientLogger.Info().Msg("S3 session successfully initialized using env credentials")
	return nil
}

func verifiedSession(cfg *aws.Config) (*session.Session, error) {
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, err
	}
	if _, err = sts.New(sess).GetCallerIdentity(&sts.GetCallerIdentityInput{}); err != nil {
		return nil, err
	}
	return sess, nil
}

func (holder *sessionHolder) ec2Config() *aws.Config {
	return &aws.Config{
		Region:     aws.String(holder.env.Region),
		MaxRetries: aws.Int(4),
		LogLevel:   aws.LogLevel(aws.LogDebug),
	}
}

func (holder *sessionHolder) envConfig() (*aws.Config, error) {
	creds := credentials.NewStaticCredentials(holder.env.AccessKeyID, holder.env.AccessKey, "")
	if _, err := creds.Get(); err != nil {
		return nil, err
	}
	cfg := aws.NewConfig().
		WithRegion(holder.env.Region).
		WithMaxRetries(4).
		WithCredentials(creds).
		WithLogLevel(aws.LogDebug)

	// local stacks (localstack, minio) are only honoured in dev
	if holder.env.T2PEnv == "dev" && len(holder.env.AwsEndpoint) > 0 {
		cfg = cfg.WithEndpoint(holder.env.AwsEndpoint).WithS3ForcePathStyle(true)
	}
	return cfg, nil
}
