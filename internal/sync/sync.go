package sync

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/conorfennell/kanadrill/internal/gitsource"
	"github.com/conorfennell/kanadrill/internal/sets"
)

// Sources names the external locations that hold extra vocabulary sets.
type Sources struct {
	Dir      string // local directory of <name>.csv files
	GitURL   string // repository cloned into CacheDir
	CacheDir string
}

// Registrar accepts a directory of vocabulary files.
type Registrar interface {
	AddDir(dir string) error
}

var _ Registrar = (*sets.Registry)(nil)

// RunSync brings every configured source up to date and registers its
// vocabulary files. A source that fails is logged and skipped.
// It returns the number of sources registered.
func RunSync(ctx context.Context, reg Registrar, src Sources, progress io.Writer) int {
	var dirs []string

	if src.Dir != "" {
		dirs = append(dirs, src.Dir)
	}

	if src.GitURL != "" {
		localRepoPath, err := syncGit(ctx, src, progress)
		if err != nil {
			slog.Warn("skipping git vocabulary source", "url", src.GitURL, "error", err)
		} else {
			dirs = append(dirs, localRepoPath)
		}
	}

	registered := 0
	for _, dir := range dirs {
		if err := reg.AddDir(dir); err != nil {
			slog.Warn("skipping vocabulary directory", "path", dir, "error", err)
			continue
		}
		slog.Debug("registered vocabulary directory", "path", dir)
		registered++
	}
	return registered
}

func syncGit(ctx context.Context, src Sources, progress io.Writer) (string, error) {
	cacheDir := src.CacheDir
	if cacheDir == "" {
		cacheDir = "repos"
	}

	localRepoPath, err := gitUrlToLocalPath(cacheDir, src.GitURL)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(localRepoPath), os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := gitsource.Sync(ctx, src.GitURL, localRepoPath, progress); err != nil {
		return "", err
	}
	return localRepoPath, nil
}

// gitUrlToLocalPath maps https and scp-style git URLs to a path below baseDir.
func gitUrlToLocalPath(baseDir, repoURL string) (string, error) {
	parsedURL, err := url.Parse(repoURL)
	if err != nil || (parsedURL.Scheme != "https" && parsedURL.Scheme != "http") {
		if strings.Contains(repoURL, "@") {
			parts := strings.Split(repoURL, ":")
			if len(parts) == 2 {
				hostAndUser := strings.Split(parts[0], "@")
				if len(hostAndUser) == 2 {
					host := hostAndUser[1]
					repoPath := strings.TrimSuffix(parts[1], ".git")
					return filepath.Join(baseDir, host, repoPath), nil
				}
			}
		}
		return "", fmt.Errorf("could not parse git URL: %s", repoURL)
	}

	sanitizedPath := strings.TrimSuffix(parsedURL.Path, ".git")
	return filepath.Join(baseDir, parsedURL.Host, sanitizedPath), nil
}
