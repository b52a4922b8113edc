package aws

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/diillson/sms-kpi-dashboard-go/internal/domain/entity"
	"github.com/diillson/sms-kpi-dashboard-go/internal/domain/repository"
	"github.com/diillson/sms-kpi-dashboard-go/internal/shared/types"
)

// s3API e stsAPI expõem apenas as chamadas usadas, para que os testes possam usar fakes.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type stsAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// PublishRepositoryImpl implementa o PublishRepository com cache de configuração por perfil.
type PublishRepositoryImpl struct {
	cfgCache map[string]aws.Config
	mu       sync.Mutex

	newS3  func(aws.Config) s3API
	newSTS func(aws.Config) stsAPI
	load   func(ctx context.Context, profile string) (aws.Config, error)
	now    func() time.Time
}

// NewPublishRepository cria uma nova implementação do PublishRepository.
func NewPublishRepository() repository.PublishRepository {
	r := &PublishRepositoryImpl{
		cfgCache: make(map[string]aws.Config),
		newS3:    func(cfg aws.Config) s3API { return s3.NewFromConfig(cfg) },
		newSTS:   func(cfg aws.Config) stsAPI { return sts.NewFromConfig(cfg) },
		now:      time.Now,
	}
	r.load = r.loadAWSConfig
	return r
}

func (r *PublishRepositoryImpl) loadAWSConfig(ctx context.Context, profile string) (aws.Config, error) {
	var opts []func(*config.LoadOptions) error
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config for profile %s: %w", profile, err)
	}
	return cfg, nil
}

func (r *PublishRepositoryImpl) getAWSConfig(ctx context.Context, profile, region string) (aws.Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cfg, ok := r.cfgCache[profile]
	if !ok {
		var err error
		cfg, err = r.load(ctx, profile)
		if err != nil {
			return aws.Config{}, err
		}
		r.cfgCache[profile] = cfg
	}

	regionalCfg := cfg.Copy()
	if region != "" {
		regionalCfg.Region = region
	}
	return regionalCfg, nil
}

// Publish confere as credenciais e envia cada arquivo para
// s3://bucket/prefix/AAAA-MM-DD/<arquivo>. Falhas de upload são registradas
// por arquivo; o erro agregado só é retornado depois de todas as tentativas.
func (r *PublishRepositoryImpl) Publish(ctx context.Context, target types.PublishTarget, files []string) ([]entity.PublishedObject, error) {
	if target.Bucket == "" {
		return nil, errors.New("s3 bucket is required to publish reports")
	}

	cfg, err := r.getAWSConfig(ctx, target.Profile, target.Region)
	if err != nil {
		return nil, err
	}

	identity, err := r.newSTS(cfg).GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, fmt.Errorf("error verifying AWS credentials for profile %s: %w", profileLabel(target.Profile), err)
	}
	if identity.Account == nil {
		return nil, fmt.Errorf("error verifying AWS credentials for profile %s: empty account", profileLabel(target.Profile))
	}

	client := r.newS3(cfg)
	runDate := r.now().Format("2006-01-02")

	published := make([]entity.PublishedObject, 0, len(files))
	var failures []error
	for _, file := range files {
		obj := entity.PublishedObject{
			File:   file,
			Bucket: target.Bucket,
			Key:    objectKey(target.Prefix, runDate, file),
		}
		if err := upload(ctx, client, obj); err != nil {
			obj.Error = err.Error()
			failures = append(failures, fmt.Errorf("%s: %w", filepath.Base(file), err))
		}
		published = append(published, obj)
	}

	if len(failures) > 0 {
		return published, fmt.Errorf("%d of %d uploads failed: %w", len(failures), len(files), errors.Join(failures...))
	}
	return published, nil
}

func upload(ctx context.Context, client s3API, obj entity.PublishedObject) error {
	f, err := os.Open(obj.File)
	if err != nil {
		return err
	}
	defer f.Close()

	input := &s3.PutObjectInput{
		Bucket: aws.String(obj.Bucket),
		Key:    aws.String(obj.Key),
		Body:   f,
	}
	if ct := mime.TypeByExtension(filepath.Ext(obj.File)); ct != "" {
		input.ContentType = aws.String(ct)
	}
	_, err = client.PutObject(ctx, input)
	return err
}

func objectKey(prefix, runDate, file string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return path.Join(runDate, filepath.Base(file))
	}
	return path.Join(prefix, runDate, filepath.Base(file))
}

func profileLabel(profile string) string {
	if profile == "" {
		return "default"
	}
	return profile
}
