package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetNameFor(t *testing.T) {
	tests := []struct {
		name    string
		goos    string
		goarch  string
		want    string
		wantErr bool
	}{
		{"darwin is universal", "darwin", "amd64", "tutora_Darwin_all.tar.gz", false},
		{"darwin arm64 same asset", "darwin", "arm64", "tutora_Darwin_all.tar.gz", false},
		{"linux amd64", "linux", "amd64", "tutora_Linux_x86_64.tar.gz", false},
		{"linux arm64", "linux", "arm64", "tutora_Linux_arm64.tar.gz", false},
		{"linux 386", "linux", "386", "tutora_Linux_i386.tar.gz", false},
		{"windows amd64", "windows", "amd64", "tutora_Windows_x86_64.zip", false},
		{"windows 386", "windows", "386", "tutora_Windows_i386.zip", false},
		{"freebsd unsupported", "freebsd", "amd64", "", true},
		{"mips unsupported", "linux", "mips", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := assetNameFor(tt.goos, tt.goarch)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseChecksums(t *testing.T) {
	input := "4f2a91  tutora_Linux_x86_64.tar.gz\n" +
		"\n" +
		"this line is noise\n" +
		"one  two  three\n" +
		"8be003  tutora_Darwin_all.tar.gz\n"

	sums := parseChecksums([]byte(input))
	assert.Equal(t, map[string]string{
		"tutora_Linux_x86_64.tar.gz": "4f2a91",
		"tutora_Darwin_all.tar.gz":   "8be003",
	}, sums)

	assert.Empty(t, parseChecksums(nil))
}

func TestVerifyChecksum(t *testing.T) {
	data := []byte("release payload")
	sum := sha256.Sum256(data)

	assert.NoError(t, verifyChecksum(data, hex.EncodeToString(sum[:])))

	err := verifyChecksum(data, hex.EncodeToString(make([]byte, 32)))
	assert.ErrorIs(t, err, ErrChecksum)
}

func TestExtractBinary(t *testing.T) {
	content := []byte("#!/bin/sh\necho tutora")

	t.Run("tar.gz archives", func(t *testing.T) {
		got, err := extractBinary(buildTarGz(t, "tutora", content), "tutora_Linux_x86_64.tar.gz")
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})

	t.Run("zip archives use the exe name", func(t *testing.T) {
		got, err := extractBinary(buildZip(t, "tutora.exe", content), "tutora_Windows_x86_64.zip")
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})

	t.Run("binary missing from archive", func(t *testing.T) {
		_, err := extractBinary(buildTarGz(t, "README.md", content), "tutora_Linux_x86_64.tar.gz")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestApplyUpdate(t *testing.T) {
	t.Run("swaps binary and keeps permissions", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "tutora")
		require.NoError(t, os.WriteFile(target, []byte("old"), 0755))

		fresh := []byte("fresh-binary")
		sum := sha256.Sum256(fresh)
		require.NoError(t, applyUpdate(fresh, target, sum[:]))

		got, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, fresh, got)

		info, err := os.Stat(target)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
	})

	t.Run("refuses when the staged file does not hash", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "tutora")
		require.NoError(t, os.WriteFile(target, []byte("old"), 0755))

		err := applyUpdate([]byte("fresh-binary"), target, make([]byte, 32))
		assert.ErrorIs(t, err, ErrChecksum)

		got, readErr := os.ReadFile(target)
		require.NoError(t, readErr)
		assert.Equal(t, []byte("old"), got, "target must stay untouched")
	})
}

// fakeRelease serves a v2.0.0 release with the given archive and
// checksums.txt content.
func fakeRelease(t *testing.T, asset string, archive []byte, sums string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/tutora-app/tutora/releases/latest":
			_, _ = w.Write([]byte(`{"tag_name":"v2.0.0","html_url":"https://example.com/v2.0.0"}`))
		case "/tutora-app/tutora/releases/download/v2.0.0/" + asset:
			if archive == nil {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_, _ = w.Write(archive)
		case "/tutora-app/tutora/releases/download/v2.0.0/checksums.txt":
			_, _ = w.Write([]byte(sums))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestUpdate(t *testing.T) {
	// Update resolves the asset from runtime.GOOS, so the fake release
	// has to serve whatever this test host maps to.
	asset, err := assetNameFor(runtime.GOOS, runtime.GOARCH)
	require.NoError(t, err)

	binaryContent := []byte("v2-tutora-binary")
	var archive []byte
	if strings.HasSuffix(asset, ".zip") {
		archive = buildZip(t, "tutora.exe", binaryContent)
	} else {
		archive = buildTarGz(t, "tutora", binaryContent)
	}
	archiveSum := sha256.Sum256(archive)
	goodSums := fmt.Sprintf("%s  %s\n", hex.EncodeToString(archiveSum[:]), asset)

	t.Run("full flow", func(t *testing.T) {
		execPath := filepath.Join(t.TempDir(), "tutora")
		require.NoError(t, os.WriteFile(execPath, []byte("old"), 0755))

		server := fakeRelease(t, asset, archive, goodSums)
		checker := NewChecker(
			WithBaseURL(server.URL),
			WithDownloadBaseURL(server.URL),
			withExecPath(func() (string, error) { return execPath, nil }),
		)

		var stages []string
		err := checker.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, func(p UpdateProgress) {
			stages = append(stages, p.Stage)
		})
		require.NoError(t, err)

		got, err := os.ReadFile(execPath)
		require.NoError(t, err)
		assert.Equal(t, binaryContent, got)
		assert.Equal(t, []string{"check", "download", "verify", "extract", "apply", "done"}, stages)
	})

	t.Run("dev builds never update", func(t *testing.T) {
		err := NewChecker().Update(context.Background(), &UpdateInput{CurrentVersion: "(devel)"}, func(UpdateProgress) {})
		assert.ErrorIs(t, err, ErrDevBuild)
	})

	t.Run("already on latest", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"tag_name":"v1.0.0","html_url":"https://example.com/v1.0.0"}`))
		}))
		defer server.Close()

		err := NewChecker(WithBaseURL(server.URL)).
			Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, func(UpdateProgress) {})
		assert.ErrorIs(t, err, ErrAlreadyLatest)
	})

	t.Run("tampered archive is rejected", func(t *testing.T) {
		badSums := fmt.Sprintf("%s  %s\n", hex.EncodeToString(make([]byte, 32)), asset)
		server := fakeRelease(t, asset, archive, badSums)

		checker := NewChecker(WithBaseURL(server.URL), WithDownloadBaseURL(server.URL))
		err := checker.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, func(UpdateProgress) {})
		assert.ErrorIs(t, err, ErrChecksum)
	})

	t.Run("missing release asset", func(t *testing.T) {
		server := fakeRelease(t, asset, nil, goodSums)

		checker := NewChecker(WithBaseURL(server.URL), WithDownloadBaseURL(server.URL))
		err := checker.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, func(UpdateProgress) {})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "download archive")
	})
}

func buildTarGz(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)

	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name: name,
		Size: int64(len(content)),
		Mode: 0755,
	}))
	_, err := tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

func buildZip(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create(name)
	require.NoError(t, err)
	_, err = f.Write(content)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
