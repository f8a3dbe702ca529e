package gitclt

import (
	"net/url"
	"strings"
)

const githubHost = "github.com"

// ParseGitHubURL returns the owner and repository name of a github.com
// remote URL. Supported are https, ssh and scp-like URLs.
func ParseGitHubURL(remoteURL string) (owner, repo string, ok bool) {
	var path string

	if rest, found := strings.CutPrefix(remoteURL, "git@"+githubHost+":"); found {
		path = rest
	} else {
		u, err := url.Parse(remoteURL)
		if err != nil {
			return "", "", false
		}

		if !strings.EqualFold(u.Hostname(), githubHost) {
			return "", "", false
		}

		path = u.Path
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")

	owner, repo, found := strings.Cut(path, "/")
	if !found || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", false
	}

	return owner, repo, true
}
