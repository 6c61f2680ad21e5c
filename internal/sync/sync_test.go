package sync

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

type fakeRegistrar struct {
	dirs []string
	fail map[string]bool
}

func (f *fakeRegistrar) AddDir(dir string) error {
	if f.fail[dir] {
		return errors.New("unreadable")
	}
	f.dirs = append(f.dirs, dir)
	return nil
}

func TestGitUrlToLocalPath(t *testing.T) {
	testCases := []struct {
		name     string
		url      string
		expected string
		wantErr  bool
	}{
		{
			name:     "https",
			url:      "https://github.com/example/vocab.git",
			expected: filepath.Join("repos", "github.com", "example", "vocab"),
		},
		{
			name:     "https without suffix",
			url:      "https://gitlab.com/group/sub/vocab",
			expected: filepath.Join("repos", "gitlab.com", "group", "sub", "vocab"),
		},
		{
			name:     "scp style",
			url:      "git@github.com:example/vocab.git",
			expected: filepath.Join("repos", "github.com", "example", "vocab"),
		},
		{
			name:    "unparseable",
			url:     "not a url",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := gitUrlToLocalPath("repos", tc.url)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Expected an error for %q, but got path %q", tc.url, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("gitUrlToLocalPath() returned an unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("Expected '%s', but got '%s'", tc.expected, got)
			}
		})
	}
}

func TestRunSync(t *testing.T) {
	ctx := context.Background()

	t.Run("no sources", func(t *testing.T) {
		reg := &fakeRegistrar{}
		if n := RunSync(ctx, reg, Sources{}, nil); n != 0 {
			t.Errorf("Expected 0 sources, but got %d", n)
		}
	})

	t.Run("local directory", func(t *testing.T) {
		reg := &fakeRegistrar{}
		dir := t.TempDir()
		if n := RunSync(ctx, reg, Sources{Dir: dir}, nil); n != 1 {
			t.Errorf("Expected 1 source, but got %d", n)
		}
		if !reflect.DeepEqual(reg.dirs, []string{dir}) {
			t.Errorf("Expected [%s] to be registered, but got %v", dir, reg.dirs)
		}
	})

	t.Run("failing directory is skipped", func(t *testing.T) {
		reg := &fakeRegistrar{fail: map[string]bool{"bad": true}}
		if n := RunSync(ctx, reg, Sources{Dir: "bad"}, nil); n != 0 {
			t.Errorf("Expected 0 sources, but got %d", n)
		}
	})

	t.Run("bad git url is skipped", func(t *testing.T) {
		reg := &fakeRegistrar{}
		dir := t.TempDir()
		n := RunSync(ctx, reg, Sources{Dir: dir, GitURL: "not a url", CacheDir: t.TempDir()}, nil)
		if n != 1 {
			t.Errorf("Expected only the local directory to be registered, but got %d sources", n)
		}
	})
}
