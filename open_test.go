package infomerge

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectDataType(t *testing.T) {
	cases := map[string]struct {
		head []byte
		want DataType
	}{
		"plain": {[]byte("SNP\tREF(0)\n"), DataTypeNoCompression},
		"short": {[]byte("a"), DataTypeNoCompression},
		"empty": {nil, DataTypeNoCompression},
		"gzip":  {[]byte{0x1f, 0x8b, 0x08, 0x00, 0x00, 0x00, 0x00}, DataTypeGzip},
		"zip":   {[]byte{0x50, 0x4b, 0x03, 0x04, 0x14, 0x00}, DataTypeZip},
		"xz":    {[]byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00, 0x00}, DataTypeXZ},
		"bzip2": {[]byte("BZh91AY"), DataTypeBZip2},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := DetectDataType(bufio.NewReader(bytes.NewReader(c.head)))
			require.NoError(t, err)
			assert.Equal(t, c.want, got, got.String())
		})
	}
}

func TestOpenGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cohort.info.gz")

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte("SNP\tRsq\nchr21:100:A:G\t0.9\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	rc, err := Open(context.Background(), path, nil)
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "SNP\tRsq\nchr21:100:A:G\t0.9\n", string(got))
}

func TestOpenPlain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cohort.info")
	require.NoError(t, os.WriteFile(path, []byte("SNP\n"), 0o644))

	rc, err := Open(context.Background(), path, nil)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "SNP\n", string(got))
	assert.NoError(t, rc.Close())
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "absent.info.gz"), nil)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestOpenGoogleStorageWithoutClient(t *testing.T) {
	_, err := Open(context.Background(), "gs://bucket/cohort.info.gz", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Google Storage client")
}

func TestIsGoogleStoragePath(t *testing.T) {
	assert.True(t, IsGoogleStoragePath("gs://bucket/a.dose.vcf.gz"))
	assert.False(t, IsGoogleStoragePath("/data/gs://a"))
}

func TestDetermineDelimiter(t *testing.T) {
	data := "SNP,REF(0),ALT(1)\nrs1,A,G\nrs2,C,T\nrs3,G,A\n"
	assert.Equal(t, ',', DetermineDelimiter(strings.NewReader(data), '\t'))
}

func TestExpandHome(t *testing.T) {
	assert.Equal(t, "/abs/path", ExpandHome("/abs/path"))
	assert.Equal(t, "rel/path", ExpandHome("rel/path"))
	assert.NotEqual(t, "~/x", ExpandHome("~/x"))
}
