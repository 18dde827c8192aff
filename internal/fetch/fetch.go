// Package fetch resolves project and heightmap sources that may live on a
// remote store.
package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	getter "github.com/hashicorp/go-getter"
	"go.uber.org/zap"

	"github.com/Faultbox/terrain-painter/internal/logger"
)

// Fetch errors.
var (
	ErrEmptySource = errors.New("empty source")
	ErrNotFound    = errors.New("source not found")
)

// IsRemote reports whether src needs a download: it carries a URL scheme or
// a go-getter forcing prefix such as "git::" or "s3::".
func IsRemote(src string) bool {
	if strings.Contains(src, "::") {
		return true
	}
	u, err := url.Parse(src)
	if err != nil {
		return false
	}
	// Windows drive letters parse as one-letter schemes.
	return len(u.Scheme) > 1 && u.Scheme != "file"
}

// Resolve returns a local path for src. Local paths are taken relative to
// pwd and must exist. Remote sources are downloaded into cacheDir, keyed by
// source, and the cached file is reused on later calls.
func Resolve(ctx context.Context, src, pwd, cacheDir string) (string, error) {
	if src == "" {
		return "", ErrEmptySource
	}

	if !IsRemote(src) {
		local := strings.TrimPrefix(src, "file://")
		if !filepath.IsAbs(local) {
			local = filepath.Join(pwd, local)
		}
		if _, err := os.Stat(local); err != nil {
			return "", fmt.Errorf("%w: %s", ErrNotFound, local)
		}
		return local, nil
	}

	dst := filepath.Join(cacheDir, CacheName(src))
	if _, err := os.Stat(dst); err == nil {
		logger.Debug("using cached source", zap.String("src", src), zap.String("path", dst))
		return dst, nil
	}

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return "", fmt.Errorf("creating cache dir: %w", err)
	}

	logger.Info("downloading source", zap.String("src", src))
	client := &getter.Client{
		Ctx:  ctx,
		Src:  src,
		Dst:  dst,
		Pwd:  pwd,
		Mode: getter.ClientModeFile,
	}
	if err := client.Get(); err != nil {
		return "", fmt.Errorf("fetching %s: %w", src, err)
	}
	return dst, nil
}

// Join locates rel next to the remote source base. rel is returned unchanged
// when it is absolute or remote itself. A go-getter subdirectory ("//dir")
// in base is kept and rel is joined inside it; otherwise rel replaces the
// last element of the URL path and the query is dropped. Subdirectory
// sources keep their query, which selects the repository revision.
func Join(base, rel string) string {
	if rel == "" || IsRemote(rel) || filepath.IsAbs(rel) || path.IsAbs(filepath.ToSlash(rel)) {
		return rel
	}
	rel = filepath.ToSlash(rel)

	forced := ""
	if i := strings.Index(base, "::"); i >= 0 {
		forced, base = base[:i+2], base[i+2:]
	}

	if dir, sub := getter.SourceDirSubdir(base); sub != "" {
		query := ""
		if i := strings.Index(dir, "?"); i >= 0 {
			dir, query = dir[:i], dir[i:]
		}
		return forced + dir + "//" + path.Join(path.Dir(sub), rel) + query
	}

	u, err := url.Parse(base)
	if err != nil {
		return forced + path.Join(path.Dir(base), rel)
	}
	u.Path = path.Join(path.Dir(u.Path), rel)
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return forced + u.String()
}

// CacheName returns the file name a remote source is cached under: a short
// hash of the source followed by its base name.
func CacheName(src string) string {
	sum := sha256.Sum256([]byte(src))
	prefix := hex.EncodeToString(sum[:8])

	base := src
	if i := strings.LastIndex(base, "::"); i >= 0 {
		base = base[i+2:]
	}
	if u, err := url.Parse(base); err == nil && u.Path != "" {
		base = u.Path
	}
	base = path.Base(strings.TrimSuffix(base, "/"))
	if base == "." || base == "/" || base == "" {
		return prefix
	}
	return prefix + "-" + base
}
