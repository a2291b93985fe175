package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveURLDelete(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStorage(root, "/media")
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "pets/gallery/a.jpg", strings.NewReader("jpeg"), 4, "image/jpeg"))
	data, err := os.ReadFile(filepath.Join(root, "pets", "gallery", "a.jpg"))
	require.NoError(t, err)
	require.Equal(t, "jpeg", string(data))
	require.Equal(t, "/media/pets/gallery/a.jpg", store.URL("pets/gallery/a.jpg"))

	require.NoError(t, store.Delete(ctx, "pets/gallery/a.jpg"))
	require.NoError(t, store.Delete(ctx, "pets/gallery/a.jpg"))
	_, err = os.Stat(filepath.Join(root, "pets", "gallery", "a.jpg"))
	require.True(t, os.IsNotExist(err))
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)
	for _, key := range []string{"", "../secret", "pets/../../etc/passwd", "pets//a.jpg"} {
		err := store.Save(context.Background(), key, strings.NewReader("x"), 1, "")
		require.ErrorIs(t, err, ErrInvalidKey, key)
	}
}

type fakeS3 struct {
	puts    []*s3.PutObjectInput
	deletes []*s3.DeleteObjectInput
	body    string
	err     error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, _ := io.ReadAll(in.Body)
	f.body = string(data)
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deletes = append(f.deletes, in)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Storage_PrefixesKeys(t *testing.T) {
	client := &fakeS3{}
	store := newS3Storage(client, S3Config{Bucket: "pethub", Prefix: "/media/"}, "ap-south-1")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "pets/videos/v.mp4", strings.NewReader("mp4"), 3, "video/mp4"))
	require.Len(t, client.puts, 1)
	require.Equal(t, "media/pets/videos/v.mp4", aws.ToString(client.puts[0].Key))
	require.Equal(t, "video/mp4", aws.ToString(client.puts[0].ContentType))
	require.Equal(t, int64(3), aws.ToInt64(client.puts[0].ContentLength))
	require.Equal(t, "mp4", client.body)

	require.NoError(t, store.Delete(ctx, "pets/videos/v.mp4"))
	require.Equal(t, "pethub", aws.ToString(client.deletes[0].Bucket))
	require.Equal(t, "https://pethub.s3.ap-south-1.amazonaws.com/media/pets/videos/v.mp4", store.URL("pets/videos/v.mp4"))
}

func TestS3Storage_EndpointURLAndErrors(t *testing.T) {
	client := &fakeS3{err: errors.New("boom")}
	store := newS3Storage(client, S3Config{Bucket: "pethub", Endpoint: "http://localhost:4566/"}, "us-east-1")

	require.Equal(t, "http://localhost:4566/pethub/a.jpg", store.URL("a.jpg"))
	require.Empty(t, store.URL(""))
	require.ErrorContains(t, store.Save(context.Background(), "a.jpg", strings.NewReader("x"), 1, ""), "boom")
}
