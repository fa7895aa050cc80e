package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	data map[string]string
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

func TestRedisBackend(t *testing.T) {
	ctx := context.Background()
	fake := &fakeRedis{data: map[string]string{}}
	rb := &RedisBackend{client: fake, key: "newsdigest:history"}

	got, err := rb.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	want := []Record{{URL: "u", TitleNorm: "k", SentAt: "2025-06-01T00:00:00Z"}}
	require.NoError(t, rb.Save(ctx, want))
	assert.Contains(t, fake.data["newsdigest:history"], `"url": "u"`)

	got, err = rb.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	fake.data["newsdigest:history"] = "{not json"
	_, err = rb.Load(ctx)
	assert.Error(t, err)
}

type fakeS3 struct {
	objects map[string][]byte
	getErr  error
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func TestS3Backend(t *testing.T) {
	ctx := context.Background()
	fake := &fakeS3{objects: map[string][]byte{}}
	sb := &S3Backend{client: fake, bucket: "digest", key: "history.json"}

	got, err := sb.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	want := []Record{{URL: "u", TitleNorm: "k", SentAt: "2025-06-01T00:00:00Z"}}
	require.NoError(t, sb.Save(ctx, want))

	got, err = sb.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestS3BackendTransportError(t *testing.T) {
	sb := &S3Backend{client: &fakeS3{getErr: errors.New("403")}, bucket: "b", key: "k"}
	_, err := sb.Load(context.Background())
	require.Error(t, err)

	h := NewHistory(sb, time.Hour)
	h.Load(context.Background())
	assert.Equal(t, 0, h.Len())
}
