package registry

import "strings"

// InferPackageURL constructs a browsable package page URL for known
// hosting services, inferred from the registry source's API URL shape.
// Returns "" when the source isn't one of the recognised hosts; callers
// fall back to projectURL or omit the link. This is a user-facing
// convenience surfaced by the CLI layer, not consumed by the resolver
// or installer.
func InferPackageURL(sourceURL, id, version, projectURL string) string {
	lower := strings.ToLower(sourceURL)

	// Azure DevOps Artifacts:
	// https://pkgs.dev.azure.com/{org}[/{project}]/_packaging/{feed}/nuget/v3/index.json
	// -> https://dev.azure.com/{org}[/{project}]/_artifacts/feed/{feed}/NuGet/{id}/overview/{version}
	if strings.Contains(lower, "pkgs.dev.azure.com") {
		if idx := strings.Index(lower, "/_packaging/"); idx >= 0 {
			prefix := sourceURL[:idx]
			rest := sourceURL[idx+len("/_packaging/"):]
			feed := rest
			if sl := strings.Index(feed, "/"); sl >= 0 {
				feed = feed[:sl]
			}
			prefix = strings.Replace(prefix, "pkgs.dev.azure.com", "dev.azure.com", 1)
			return prefix + "/_artifacts/feed/" + feed + "/NuGet/" + id + "/overview/" + version
		}
	}

	// MyGet:
	// https://www.myget.org/F/{feed}/api/v3/index.json
	// -> https://www.myget.org/feed/{feed}/package/nuget/{id}/{version}
	if strings.Contains(lower, "myget.org/f/") {
		if idx := strings.Index(lower, "/f/"); idx >= 0 {
			base := sourceURL[:idx]
			rest := sourceURL[idx+len("/F/"):]
			feed := rest
			if sl := strings.Index(feed, "/"); sl >= 0 {
				feed = feed[:sl]
			}
			return base + "/feed/" + feed + "/package/nuget/" + id + "/" + version
		}
	}

	// GitHub Packages:
	// https://nuget.pkg.github.com/{owner}/index.json
	// -> https://github.com/{owner}/{repo}/pkgs/nuget/{package}
	if strings.Contains(lower, "nuget.pkg.github.com") {
		owner := extractGitHubOwner(sourceURL)
		if owner == "" {
			return ""
		}
		if projectURL != "" {
			projLower := strings.ToLower(projectURL)
			if strings.Contains(projLower, "github.com/") {
				idx := strings.Index(projLower, "github.com/")
				ownerRepo := strings.TrimRight(projectURL[idx+len("github.com/"):], "/")
				parts := strings.SplitN(ownerRepo, "/", 3)
				if len(parts) >= 2 {
					return "https://github.com/" + parts[0] + "/" + parts[1] + "/pkgs/nuget/" + id
				}
			}
		}
		return "https://github.com/" + owner + "?tab=packages&q=" + id + "&type=nuget"
	}

	return ""
}

// extractGitHubOwner returns the owner segment of a GitHub Packages
// NuGet source URL, e.g.
// "https://nuget.pkg.github.com/Nulifyer/index.json" -> "Nulifyer".
func extractGitHubOwner(sourceURL string) string {
	lower := strings.ToLower(sourceURL)
	idx := strings.Index(lower, "nuget.pkg.github.com")
	if idx < 0 {
		return ""
	}
	after := strings.TrimLeft(sourceURL[idx+len("nuget.pkg.github.com"):], "/")
	if sl := strings.Index(after, "/"); sl > 0 {
		return after[:sl]
	}
	return after
}
