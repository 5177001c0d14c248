package installer

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/nulifyer/modget/internal/localscan"
	"github.com/nulifyer/modget/internal/spec"
	"github.com/nulifyer/modget/internal/version"
)

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip Create(%q): %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip Write(%q): %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip Close: %v", err)
	}
	return buf.Bytes()
}

type fixtureClient struct {
	archives map[string][]byte
}

func (f *fixtureClient) OpenArchiveStream(ctx context.Context, uri string) (io.ReadCloser, error) {
	b, ok := f.archives[uri]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func mustURL(t *testing.T, s string) *url.URL {
	u, err := url.Parse(s)
	if err != nil {
		t.Fatalf("url.Parse(%q): %v", s, err)
	}
	return u
}

func mustVer(t *testing.T, s string) version.SemVer {
	v, err := version.ParseSemVer(s)
	if err != nil {
		t.Fatalf("ParseSemVer(%q): %v", s, err)
	}
	return v
}

func TestInstall_PlacesModuleManifest(t *testing.T) {
	dest := t.TempDir()
	cache := t.TempDir()

	zipBytes := buildZip(t, map[string]string{
		"A.psd1":    "# manifest\n",
		"lib/A.dll": "binary-stub",
	})
	client := &fixtureClient{archives: map[string][]byte{
		"https://x/a.1.0.0.zip": zipBytes,
	}}

	v := mustVer(t, "1.0.0")
	plan := []spec.Spec{{Name: "A", Min: v, Max: v, DownloadUri: mustURL(t, "https://x/a.1.0.0.zip")}}

	if err := Install(context.Background(), client, plan, Options{Destination: dest, Cache: cache}); err != nil {
		t.Fatalf("Install: %v", err)
	}

	manifest := filepath.Join(dest, "A", "1.0.0", "A.psd1")
	if _, err := os.Stat(manifest); err != nil {
		t.Errorf("expected manifest at %s: %v", manifest, err)
	}
	lib := filepath.Join(dest, "A", "1.0.0", "lib", "A.dll")
	if _, err := os.Stat(lib); err != nil {
		t.Errorf("expected nested file at %s: %v", lib, err)
	}

	cachedFile := filepath.Join(cache, "A.1.0.0.nupkg")
	if _, err := os.Stat(cachedFile); err != nil {
		t.Errorf("expected cache file at %s: %v", cachedFile, err)
	}
}

func TestInstall_MultipleModulesConcurrently(t *testing.T) {
	dest := t.TempDir()
	cache := t.TempDir()

	client := &fixtureClient{archives: map[string][]byte{
		"https://x/a.1.0.0.zip": buildZip(t, map[string]string{"A.psd1": "a"}),
		"https://x/b.2.0.0.zip": buildZip(t, map[string]string{"B.psd1": "b"}),
	}}

	va, vb := mustVer(t, "1.0.0"), mustVer(t, "2.0.0")
	plan := []spec.Spec{
		{Name: "A", Min: va, Max: va, DownloadUri: mustURL(t, "https://x/a.1.0.0.zip")},
		{Name: "B", Min: vb, Max: vb, DownloadUri: mustURL(t, "https://x/b.2.0.0.zip")},
	}

	if err := Install(context.Background(), client, plan, Options{Destination: dest, Cache: cache, Workers: 2}); err != nil {
		t.Fatalf("Install: %v", err)
	}

	for _, m := range []string{
		filepath.Join(dest, "A", "1.0.0", "A.psd1"),
		filepath.Join(dest, "B", "2.0.0", "B.psd1"),
	} {
		if _, err := os.Stat(m); err != nil {
			t.Errorf("expected manifest at %s: %v", m, err)
		}
	}
}

func TestInstall_MissingArchiveFails(t *testing.T) {
	dest := t.TempDir()
	cache := t.TempDir()
	client := &fixtureClient{archives: map[string][]byte{}}

	v := mustVer(t, "1.0.0")
	plan := []spec.Spec{{Name: "A", Min: v, Max: v, DownloadUri: mustURL(t, "https://x/missing.zip")}}

	if err := Install(context.Background(), client, plan, Options{Destination: dest, Cache: cache}); err == nil {
		t.Fatal("expected error for missing archive")
	}
}

func TestInstall_ClassicalVersionRoundTripsThroughLocalScan(t *testing.T) {
	dest := t.TempDir()
	cache := t.TempDir()

	build, rev := 3, 4
	vTwoPart := version.ToSemVer(version.Classical{Major: 1, Minor: 2})
	vFourPartWithRevision := version.ToSemVer(version.Classical{Major: 1, Minor: 2, Build: &build, Revision: &rev})

	client := &fixtureClient{archives: map[string][]byte{
		"https://x/a.zip": buildZip(t, map[string]string{"A.psd1": "a"}),
		"https://x/b.zip": buildZip(t, map[string]string{"B.psd1": "b"}),
	}}
	plan := []spec.Spec{
		{Name: "A", Min: vTwoPart, Max: vTwoPart, DownloadUri: mustURL(t, "https://x/a.zip")},
		{Name: "B", Min: vFourPartWithRevision, Max: vFourPartWithRevision, DownloadUri: mustURL(t, "https://x/b.zip")},
	}

	if err := Install(context.Background(), client, plan, Options{Destination: dest, Cache: cache}); err != nil {
		t.Fatalf("Install: %v", err)
	}

	aManifest := filepath.Join(dest, "A", "1.2", "A.psd1")
	if _, err := os.Stat(aManifest); err != nil {
		t.Errorf("expected manifest under classical dir name 1.2, got %s: %v", aManifest, err)
	}
	bManifest := filepath.Join(dest, "B", "1.2.3.4", "B.psd1")
	if _, err := os.Stat(bManifest); err != nil {
		t.Errorf("expected manifest under classical dir name 1.2.3.4, got %s: %v", bManifest, err)
	}

	path, ok, err := localscan.FindLocal(spec.Spec{Name: "A", Min: version.MinVersion(), Max: version.MaxVersion()}, []string{dest})
	if err != nil {
		t.Fatalf("FindLocal A: %v", err)
	}
	if !ok || filepath.Base(filepath.Dir(path)) != "1.2" {
		t.Errorf("local scan did not find A under its installed classical dir: ok=%v path=%q", ok, path)
	}

	path, ok, err = localscan.FindLocal(spec.Spec{Name: "B", Min: version.MinVersion(), Max: version.MaxVersion()}, []string{dest})
	if err != nil {
		t.Fatalf("FindLocal B: %v", err)
	}
	if !ok || filepath.Base(filepath.Dir(path)) != "1.2.3.4" {
		t.Errorf("local scan did not find B under its installed classical dir: ok=%v path=%q", ok, path)
	}
}

func TestInstall_EmptyPlanIsNoop(t *testing.T) {
	dest := t.TempDir()
	cache := t.TempDir()
	client := &fixtureClient{archives: map[string][]byte{}}

	if err := Install(context.Background(), client, nil, Options{Destination: dest, Cache: cache}); err != nil {
		t.Fatalf("Install: %v", err)
	}
}
