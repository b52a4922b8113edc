package aws

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/diillson/sms-kpi-dashboard-go/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	bodies map[string]string
	fail   map[string]error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	key := aws.ToString(in.Key)
	if err, ok := f.fail[key]; ok {
		return nil, err
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.bodies[key] = string(data)
	return &s3.PutObjectOutput{}, nil
}

type fakeSTS struct {
	err error
}

func (f *fakeSTS) GetCallerIdentity(context.Context, *sts.GetCallerIdentityInput, ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &sts.GetCallerIdentityOutput{Account: aws.String("123456789012")}, nil
}

func newTestPublisher(s3c *fakeS3, stsc *fakeSTS) (*PublishRepositoryImpl, *[]string) {
	var regions []string
	r := &PublishRepositoryImpl{
		cfgCache: make(map[string]aws.Config),
		newS3: func(cfg aws.Config) s3API {
			regions = append(regions, cfg.Region)
			return s3c
		},
		newSTS: func(aws.Config) stsAPI { return stsc },
		load: func(context.Context, string) (aws.Config, error) {
			return aws.Config{Region: "us-east-1"}, nil
		},
		now: func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) },
	}
	return r, &regions
}

func writeFiles(t *testing.T, names ...string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, 0, len(names))
	for _, n := range names {
		p := filepath.Join(dir, n)
		require.NoError(t, os.WriteFile(p, []byte("content of "+n), 0o644))
		paths = append(paths, p)
	}
	return paths
}

func TestPublish_UploadsUnderRunDate(t *testing.T) {
	s3c := &fakeS3{bodies: map[string]string{}}
	pub, regions := newTestPublisher(s3c, &fakeSTS{})
	files := writeFiles(t, "monthly_kpis.csv", "kpi_report.json")

	objs, err := pub.Publish(context.Background(), types.PublishTarget{Bucket: "reports", Prefix: "/sms-kpi/", Region: "sa-east-1"}, files)
	require.NoError(t, err)
	require.Len(t, objs, 2)

	assert.Equal(t, "sms-kpi/2024-03-01/monthly_kpis.csv", objs[0].Key)
	assert.Equal(t, "reports", objs[0].Bucket)
	assert.Empty(t, objs[0].Error)
	assert.Equal(t, "content of kpi_report.json", s3c.bodies["sms-kpi/2024-03-01/kpi_report.json"])
	assert.Equal(t, []string{"sa-east-1"}, *regions)
}

func TestPublish_ReportsFailuresAfterAllAttempts(t *testing.T) {
	s3c := &fakeS3{
		bodies: map[string]string{},
		fail:   map[string]error{"2024-03-01/a.csv": errors.New("access denied")},
	}
	pub, _ := newTestPublisher(s3c, &fakeSTS{})
	files := writeFiles(t, "a.csv", "b.csv")
	files = append(files, filepath.Join(t.TempDir(), "missing.csv"))

	objs, err := pub.Publish(context.Background(), types.PublishTarget{Bucket: "reports"}, files)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "2 of 3 uploads failed"), err.Error())
	require.Len(t, objs, 3)

	assert.Contains(t, objs[0].Error, "access denied")
	assert.Empty(t, objs[1].Error)
	assert.NotEmpty(t, objs[2].Error)
	assert.Contains(t, s3c.bodies, "2024-03-01/b.csv")
}

func TestPublish_CredentialCheckFails(t *testing.T) {
	s3c := &fakeS3{bodies: map[string]string{}}
	pub, _ := newTestPublisher(s3c, &fakeSTS{err: errors.New("expired token")})

	objs, err := pub.Publish(context.Background(), types.PublishTarget{Bucket: "reports", Profile: "prod"}, writeFiles(t, "a.csv"))
	require.Error(t, err)
	assert.Nil(t, objs)
	assert.Contains(t, err.Error(), "prod")
	assert.Empty(t, s3c.bodies)
}

func TestPublish_RequiresBucket(t *testing.T) {
	pub, _ := newTestPublisher(&fakeS3{}, &fakeSTS{})
	_, err := pub.Publish(context.Background(), types.PublishTarget{}, nil)
	assert.Error(t, err)
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "2024-03-01/x.pdf", objectKey("", "2024-03-01", "/tmp/out/x.pdf"))
	assert.Equal(t, "a/b/2024-03-01/x.pdf", objectKey("a/b/", "2024-03-01", "x.pdf"))
}
