// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/charmbracelet/log"

	"github.com/conda-incubator/ensureconda/pkg/platform"
)

const (
	// redownloadWhenOlder bounds how long an installed executable is
	// trusted before it is refreshed from the remote source.
	redownloadWhenOlder = 24 * time.Hour

	// negativeAgeTolerance guards against clock skew: a modification
	// time further in the future than this is treated as invalid and
	// triggers a redownload.
	negativeAgeTolerance = -60 * time.Second

	// defaultChannel is the Anaconda channel conda-standalone is
	// fetched from unless overridden.
	defaultChannel = "anaconda"

	defaultAnacondaBaseURL   = "https://api.anaconda.org"
	defaultMicromambaBaseURL = "https://micro.mamba.pm"
)

var (
	// ErrNoCandidates indicates the remote listing had no package for
	// the current platform.
	ErrNoCandidates = errors.New("no matching packages found")

	// ErrRetriesExhausted indicates a download kept failing with
	// retryable errors until the attempt budget ran out.
	ErrRetriesExhausted = errors.New("retries exhausted")

	// ErrMemberNotFound indicates the downloaded archive did not
	// contain the expected executable member.
	ErrMemberNotFound = errors.New("executable not found in archive")

	// ErrReplaceFailed indicates an existing executable could not be
	// removed to make room for its replacement.
	ErrReplaceFailed = errors.New("could not replace existing executable")
)

type (
	// Installer acquires micromamba and conda-standalone into the
	// managed cache directory.
	Installer struct {
		dataDir           string
		channel           string
		httpClient        *http.Client
		anacondaBaseURL   string
		micromambaBaseURL string
		newBackOff        func() backoff.BackOff
		logger            *log.Logger
	}

	// Option configures an Installer during construction.
	Option func(*Installer)
)

// WithChannel overrides the Anaconda channel for conda-standalone.
func WithChannel(channel string) Option {
	return func(inst *Installer) {
		if channel != "" {
			inst.channel = channel
		}
	}
}

// WithHTTPClient sets a custom HTTP client, useful for tests or proxy
// configurations.
func WithHTTPClient(c *http.Client) Option {
	return func(inst *Installer) {
		inst.httpClient = c
	}
}

// WithAnacondaBaseURL overrides the Anaconda API base URL, primarily for
// test servers.
func WithAnacondaBaseURL(base string) Option {
	return func(inst *Installer) {
		inst.anacondaBaseURL = strings.TrimRight(base, "/")
	}
}

// WithMicromambaBaseURL overrides the micromamba release base URL,
// primarily for test servers.
func WithMicromambaBaseURL(base string) Option {
	return func(inst *Installer) {
		inst.micromambaBaseURL = strings.TrimRight(base, "/")
	}
}

// WithBackOff overrides the retry wait policy used between download
// attempts. The factory is invoked once per download.
func WithBackOff(factory func() backoff.BackOff) Option {
	return func(inst *Installer) {
		inst.newBackOff = factory
	}
}

// WithLogger overrides the logger used for download and lock notices.
func WithLogger(l *log.Logger) Option {
	return func(inst *Installer) {
		inst.logger = l
	}
}

// New creates an Installer that manages dataDir.
func New(dataDir string, opts ...Option) *Installer {
	inst := &Installer{
		dataDir:           dataDir,
		channel:           defaultChannel,
		httpClient:        http.DefaultClient,
		anacondaBaseURL:   defaultAnacondaBaseURL,
		micromambaBaseURL: defaultMicromambaBaseURL,
		newBackOff:        newExpFloorBackOff,
		logger:            log.Default(),
	}
	for _, opt := range opts {
		opt(inst)
	}
	return inst
}

// Micromamba ensures a fresh micromamba executable is present in the
// managed cache directory and returns its path. The whole sequence runs
// under a cross-process lock; concurrent callers converge on a single
// download.
func (inst *Installer) Micromamba(ctx context.Context) (string, error) {
	subdir, err := platform.Subdir()
	if err != nil {
		return "", err
	}
	target := inst.targetPath("micromamba")

	release, err := inst.lockInstall(ctx, "micromamba")
	if err != nil {
		return "", err
	}
	defer release()

	if inst.isFresh(target) {
		return target, nil
	}

	url := fmt.Sprintf("%s/api/micromamba/%s/latest", inst.micromambaBaseURL, subdir)
	inst.logger.Info("downloading micromamba", "url", url)
	body, err := inst.fetchWithRetry(ctx, url)
	if err != nil {
		return "", err
	}
	defer body.Close()

	member := "bin/micromamba"
	if platform.IsWindows() {
		member = "Library/bin/micromamba.exe"
	}
	data, err := extractArchiveMember(url, body, member)
	if err != nil {
		return "", fmt.Errorf("extracting micromamba from %s: %w", url, err)
	}
	return inst.installExecutable(ctx, target, data)
}

// CondaStandalone ensures a fresh conda-standalone executable is present
// in the managed cache directory and returns its path. The newest
// package for the current platform is chosen from the channel listing,
// ordered by (version, build number, timestamp).
func (inst *Installer) CondaStandalone(ctx context.Context) (string, error) {
	subdir, err := platform.Subdir()
	if err != nil {
		return "", err
	}
	target := inst.targetPath("conda_standalone")

	release, err := inst.lockInstall(ctx, "conda_exe")
	if err != nil {
		return "", err
	}
	defer release()

	if inst.isFresh(target) {
		return target, nil
	}

	candidates, err := inst.condaStandaloneCandidates(ctx, subdir)
	if err != nil {
		return "", err
	}
	chosen := candidates[len(candidates)-1]
	url := chosen.DownloadURL
	// The Anaconda API reports scheme-relative download URLs.
	if strings.HasPrefix(url, "//") {
		url = "https:" + url
	}

	inst.logger.Info("downloading conda-standalone",
		"version", chosen.Version, "build", chosen.Build, "url", url)
	body, err := inst.fetchWithRetry(ctx, url)
	if err != nil {
		return "", err
	}
	defer body.Close()

	data, err := extractArchiveMember(url, body, "standalone_conda/conda.exe")
	if err != nil {
		return "", fmt.Errorf("extracting conda-standalone from %s: %w", url, err)
	}
	return inst.installExecutable(ctx, target, data)
}

// targetPath returns the canonical install path for a logical executable
// name.
func (inst *Installer) targetPath(name string) string {
	return filepath.Join(inst.dataDir, name+platform.ExeSuffix())
}

// lockInstall creates the managed cache directory if needed and takes
// the install lock for the named pipeline.
func (inst *Installer) lockInstall(ctx context.Context, name string) (func(), error) {
	if err := os.MkdirAll(inst.dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory %s: %w", inst.dataDir, err)
	}
	lockPath := filepath.Join(inst.dataDir, name+"_install.lock")
	return inst.acquireLock(ctx, lockPath, "downloading "+name)
}

// isFresh reports whether target exists with a modification age inside
// the trust window. Callers must hold the install lock.
func (inst *Installer) isFresh(target string) bool {
	st, err := os.Stat(target)
	if err != nil {
		return false
	}
	age := time.Since(st.ModTime())
	return age < redownloadWhenOlder && age > negativeAgeTolerance
}

// installExecutable writes data to a uniquely named temporary sibling,
// marks it executable, and atomically renames it over target. A reader
// of target at any instant sees either the prior complete file or the
// new complete file.
func (inst *Installer) installExecutable(ctx context.Context, target string, data []byte) (string, error) {
	release, err := inst.acquireLock(ctx, target+".lock", "file write ("+filepath.Base(target)+")")
	if err != nil {
		return "", err
	}
	defer release()

	tmp, err := os.CreateTemp(inst.dataDir, filepath.Base(target)+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file in %s: %w", inst.dataDir, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("closing %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o755); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("marking %s executable: %w", tmpName, err)
	}

	// Windows cannot rename over an existing file; unlink first and
	// surface a replace failure when the old executable is still in use.
	if platform.IsWindows() {
		if _, statErr := os.Stat(target); statErr == nil {
			if rmErr := os.Remove(target); rmErr != nil {
				os.Remove(tmpName)
				return "", fmt.Errorf("%w: %s: %v", ErrReplaceFailed, target, rmErr)
			}
		}
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("installing %s: %w", target, err)
	}
	return target, nil
}
