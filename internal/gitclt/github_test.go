package gitclt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGitHubURL(t *testing.T) {
	for _, tc := range []struct {
		url   string
		owner string
		repo  string
		ok    bool
	}{
		{url: "https://github.com/sisu/app.git", owner: "sisu", repo: "app", ok: true},
		{url: "https://github.com/sisu/app", owner: "sisu", repo: "app", ok: true},
		{url: "https://token@GitHub.com/sisu/app/", owner: "sisu", repo: "app", ok: true},
		{url: "git@github.com:sisu/app.git", owner: "sisu", repo: "app", ok: true},
		{url: "ssh://git@github.com/sisu/app.git", owner: "sisu", repo: "app", ok: true},
		{url: "https://gitlab.com/sisu/app.git"},
		{url: "https://github.com/sisu"},
		{url: "https://github.com/sisu/app/tree/main"},
		{url: "::"},
	} {
		t.Run(tc.url, func(t *testing.T) {
			owner, repo, ok := ParseGitHubURL(tc.url)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.owner, owner)
			assert.Equal(t, tc.repo, repo)
		})
	}
}
