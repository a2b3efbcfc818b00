package output

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"about shadow environments":                        "about-shadow-environments",
		"Q4 Results: Revenue & Growth!":                    "q4-results-revenue-growth",
		"  weekly sprint review - shipped auth, caching  ": "weekly-sprint-review-shipped-auth-caching",
		"¿¡!!":                            "deck",
		"café décor":                      "caf-dcor",
		strings.Repeat("abcdefghij ", 10): "abcdefghij-abcdefghij-abcdefghij-abcdefghij-abcdef",
	}
	for in, want := range cases {
		got := Slug(in)
		assert.Equal(t, want, got, in)
		assert.LessOrEqual(t, len(got), 50)
	}
	assert.Equal(t, "q4-results.html", FileName("Q4 results"))
}

func TestFileSinkWritesAtomically(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "output")
	sink := FileSink{Dir: dir}

	loc, err := sink.Write(context.Background(), "deck.html", []byte("<html>v1</html>"))
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(loc))
	got, err := os.ReadFile(loc)
	require.NoError(t, err)
	assert.Equal(t, "<html>v1</html>", string(got))

	_, err = sink.Write(context.Background(), "deck.html", []byte("<html>v2</html>"))
	require.NoError(t, err)
	got, err = os.ReadFile(loc)
	require.NoError(t, err)
	assert.Equal(t, "<html>v2</html>", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
	assert.Equal(t, "deck.html", entries[0].Name())
}

func TestFileSinkRejectsPaths(t *testing.T) {
	sink := FileSink{Dir: t.TempDir()}
	for _, name := range []string{"", "../escape.html", "a/b.html"} {
		_, err := sink.Write(context.Background(), name, []byte("x"))
		assert.Error(t, err, name)
	}
}

func TestFileSinkHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := FileSink{Dir: t.TempDir()}.Write(ctx, "deck.html", []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemorySink(t *testing.T) {
	m := NewMemorySink()
	loc, err := m.Write(context.Background(), "a.html", []byte("A"))
	require.NoError(t, err)
	assert.Equal(t, "memory://a.html", loc)
	got, ok := m.Get("a.html")
	require.True(t, ok)
	assert.Equal(t, "A", string(got))
	assert.Equal(t, []string{"a.html"}, m.Names())
}

func TestNewS3SinkValidatesConfig(t *testing.T) {
	_, err := NewS3Sink(S3Config{})
	assert.Error(t, err)
	_, err = NewS3Sink(S3Config{Endpoint: "localhost:9000", Bucket: "decks"})
	assert.Error(t, err)
	_, err = NewS3Sink(S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"})
	assert.Error(t, err)

	s, err := NewS3Sink(S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b", Bucket: "decks", Prefix: "/team/"})
	require.NoError(t, err)
	assert.Equal(t, "team", s.prefix)
	assert.Equal(t, "us-east-1", s.region)
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "deck.html", ObjectKey("", "/deck.html"))
	assert.Equal(t, "team/deck.html", ObjectKey("/team/", "deck.html"))
}

type flakyBuckets struct {
	existsErr []error
	exists    bool
	checks    int
	made      []string
}

func (f *flakyBuckets) BucketExists(ctx context.Context, bucket string) (bool, error) {
	f.checks++
	if len(f.existsErr) > 0 {
		err := f.existsErr[0]
		f.existsErr = f.existsErr[1:]
		return false, err
	}
	return f.exists, nil
}

func (f *flakyBuckets) MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error {
	f.made = append(f.made, bucket+"@"+opts.Region)
	return nil
}

func TestS3SinkRetriesBucketSetupAfterFailure(t *testing.T) {
	fake := &flakyBuckets{existsErr: []error{errors.New("connection refused")}}
	s := &S3Sink{buckets: fake, bucketName: "decks", region: "eu-west-1"}

	assert.Error(t, s.ensureBucket(context.Background()))
	require.NoError(t, s.ensureBucket(context.Background()))
	require.NoError(t, s.ensureBucket(context.Background()))

	assert.Equal(t, 2, fake.checks)
	assert.Equal(t, []string{"decks@eu-west-1"}, fake.made)
}

func TestS3SinkSkipsExistingBucket(t *testing.T) {
	fake := &flakyBuckets{exists: true}
	s := &S3Sink{buckets: fake, bucketName: "decks"}
	require.NoError(t, s.ensureBucket(context.Background()))
	assert.Empty(t, fake.made)
}

func TestS3SinkPresignedURL(t *testing.T) {
	s, err := NewS3Sink(S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b", Bucket: "decks", Prefix: "team"})
	require.NoError(t, err)
	var _ Linker = s

	u, err := s.PresignedURL(context.Background(), "deck.html", 10*time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "http://localhost:9000/decks/team/deck.html?"), u)
	assert.Contains(t, u, "X-Amz-Signature=")

	_, err = s.PresignedURL(context.Background(), " ", time.Minute)
	assert.Error(t, err)
}
