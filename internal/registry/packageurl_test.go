package registry

import "testing"

func TestInferPackageURL_AzureDevOps(t *testing.T) {
	src := "https://pkgs.dev.azure.com/myorg/myproject/_packaging/myfeed/nuget/v3/index.json"
	got := InferPackageURL(src, "A", "1.0.0", "")
	want := "https://dev.azure.com/myorg/myproject/_artifacts/feed/myfeed/NuGet/A/overview/1.0.0"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestInferPackageURL_MyGet(t *testing.T) {
	src := "https://www.myget.org/F/myfeed/api/v3/index.json"
	got := InferPackageURL(src, "A", "1.0.0", "")
	want := "https://www.myget.org/feed/myfeed/package/nuget/A/1.0.0"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestInferPackageURL_GitHubPackagesWithProjectURL(t *testing.T) {
	src := "https://nuget.pkg.github.com/Nulifyer/index.json"
	got := InferPackageURL(src, "A", "1.0.0", "https://github.com/Nulifyer/guget")
	want := "https://github.com/Nulifyer/guget/pkgs/nuget/A"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestInferPackageURL_Unknown(t *testing.T) {
	if got := InferPackageURL("https://some-random-feed.example/v3/index.json", "A", "1.0.0", ""); got != "" {
		t.Errorf("got %q, want empty string for unrecognised host", got)
	}
}
