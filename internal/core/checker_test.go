package core

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/inovacc/patchtracker/internal/git"
	"github.com/inovacc/patchtracker/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLister is a RefLister returning canned references
type fakeLister struct {
	refs  map[string]string
	err   error
	calls []string
}

func (f *fakeLister) LsRemote(_ context.Context, remoteURL string) (map[string]string, error) {
	f.calls = append(f.calls, remoteURL)
	if f.err != nil {
		return nil, f.err
	}
	return f.refs, nil
}

// recordingChecker is a RepoChecker remembering the URLs it saw
type recordingChecker struct {
	name string
	seen []string
}

func (c *recordingChecker) Check(_ context.Context, repoURL, _ string) error {
	c.seen = append(c.seen, repoURL)
	return nil
}

func TestWebChecker(t *testing.T) {
	var gotPath, gotAgent string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAgent = r.Header.Get("User-Agent")

		switch r.URL.Path {
		case "/owner/repo/tree/master":
			w.WriteHeader(http.StatusOK)
		case "/owner/broken/tree/master":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	checker := &WebChecker{Client: srv.Client()}
	ctx := context.Background()

	require.NoError(t, checker.Check(ctx, srv.URL+"/owner/repo", "master"))
	assert.Equal(t, "/owner/repo/tree/master", gotPath)
	assert.Equal(t, browserUserAgent, gotAgent)

	err := checker.Check(ctx, srv.URL+"/owner/repo", "nope")
	require.Error(t, err)
	assert.Equal(t, "Git repo or branch not exist.", err.Error())

	// any status other than 404 counts as existing
	assert.NoError(t, checker.Check(ctx, srv.URL+"/owner/broken", "master"))
}

func TestWebChecker_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := (&WebChecker{}).Check(context.Background(), url+"/owner/repo", "master")
	require.Error(t, err)

	var existErr *ExistenceCheckError
	assert.True(t, errors.As(err, &existErr))
}

func TestRefChecker(t *testing.T) {
	lister := &fakeLister{refs: map[string]string{
		"HEAD":              "abc",
		"refs/heads/master": "abc",
		"refs/tags/v1.0":    "def",
	}}
	checker := &RefChecker{Lister: lister}
	ctx := context.Background()

	require.NoError(t, checker.Check(ctx, "git://example.com/repo.git", "master"))
	assert.Equal(t, []string{"git://example.com/repo.git"}, lister.calls)

	err := checker.Check(ctx, "git://example.com/repo.git", "v1.0")
	require.Error(t, err)
	assert.Equal(t, "Branch: v1.0 not exist.", err.Error())
}

func TestRefChecker_ListingFails(t *testing.T) {
	lister := &fakeLister{err: git.NewGitError([]string{"ls-remote"}, "fatal: repository not found", errors.New("exit status 128"))}
	checker := &RefChecker{Lister: lister}

	err := checker.Check(context.Background(), "git@example.com:repo.git", "master")
	require.Error(t, err)
	assert.Equal(t, "Git url: git@example.com:repo.git error.", err.Error())
	assert.NotEqual(t, "Branch: master not exist.", err.Error())
}

func TestCheckerSet_For(t *testing.T) {
	web := &recordingChecker{name: "web"}
	ref := &recordingChecker{name: "ref"}
	set := NewCheckerSet(web, ref)

	tests := []struct {
		url     string
		want    RepoChecker
		wantErr bool
	}{
		{url: "https://gitee.com/src-openeuler/zlib", want: web},
		{url: "http://example.com/repo", want: web},
		{url: "git://example.com/repo.git", want: ref},
		{url: "git@github.com:owner/repo.git", want: ref},
		{url: "ssh://git@example.com/repo.git", wantErr: true},
		{url: "ftp://example.com/repo", wantErr: true},
		{url: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := set.For(tt.url)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, "URL Error: Transfer Protocols must be HTTP or Git.", err.Error())
				return
			}
			require.NoError(t, err)
			assert.Same(t, tt.want, got)
		})
	}
}

func TestCheckerSet_Register(t *testing.T) {
	web := &recordingChecker{name: "web"}
	ref := &recordingChecker{name: "ref"}
	custom := &recordingChecker{name: "ssh"}

	set := NewCheckerSet(web, ref)
	set.Register("ssh", custom)

	require.NoError(t, set.Check(context.Background(), "ssh://host/repo", "main"))
	assert.Equal(t, []string{"ssh://host/repo"}, custom.seen)
	assert.Empty(t, web.seen)
	assert.Empty(t, ref.seen)
}

func TestUpstreamURL(t *testing.T) {
	got, err := UpstreamURL(model.TrackingRequest{VersionControl: "github", SCMRepo: "madler/zlib"})
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/madler/zlib", got)

	got, err = UpstreamURL(model.TrackingRequest{VersionControl: "git", SCMRepo: "git://example.com/zlib.git"})
	require.NoError(t, err)
	assert.Equal(t, "git://example.com/zlib.git", got)

	_, err = UpstreamURL(model.TrackingRequest{VersionControl: "svn", SCMRepo: "x"})
	assert.Error(t, err)
}
