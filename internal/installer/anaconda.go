// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"

	"github.com/conda-incubator/ensureconda/internal/version"
)

const (
	// condaStandalonePackage is the Anaconda package name queried for
	// standalone builds.
	condaStandalonePackage = "conda-standalone"

	// onedirMarker tags a known-broken packaging variant that must be
	// excluded from candidate selection.
	// <https://github.com/conda/conda-standalone/issues/182>
	onedirMarker = "_onedir_"

	// maxListingBytes bounds the package listing response size.
	maxListingBytes = 10 << 20
)

// validChannel restricts channel names to alphanumerics, hyphens, and
// underscores; the channel is interpolated into the listing URL.
var validChannel = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

type (
	// PackageCandidate is one installable remote archive from a channel
	// listing.
	PackageCandidate struct {
		Version     string
		Build       string
		BuildNumber int64
		Timestamp   int64
		Subdir      string
		DownloadURL string
	}

	// anacondaFile is the JSON wire format of one entry in the Anaconda
	// API files listing.
	anacondaFile struct {
		Version     string        `json:"version"`
		Attrs       anacondaAttrs `json:"attrs"`
		DownloadURL string        `json:"download_url"`
	}

	// anacondaAttrs is the nested attrs object of an Anaconda API entry.
	anacondaAttrs struct {
		Subdir      string `json:"subdir"`
		Build       string `json:"build"`
		BuildNumber int64  `json:"build_number"`
		Timestamp   int64  `json:"timestamp"`
	}
)

// condaStandaloneCandidates fetches the channel listing and returns the
// candidates for subdir sorted ascending by (version, build number,
// timestamp); the best candidate is last. Returns ErrNoCandidates when
// nothing matches.
func (inst *Installer) condaStandaloneCandidates(ctx context.Context, subdir string) ([]PackageCandidate, error) {
	if !validChannel.MatchString(inst.channel) {
		return nil, fmt.Errorf("invalid channel name %q: channel names must be alphanumeric and may contain hyphens and underscores", inst.channel)
	}

	url := fmt.Sprintf("%s/package/%s/%s/files", inst.anacondaBaseURL, inst.channel, condaStandalonePackage)
	body, err := inst.fetchWithRetry(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var files []anacondaFile
	if err := json.NewDecoder(io.LimitReader(body, maxListingBytes)).Decode(&files); err != nil {
		return nil, fmt.Errorf("decoding package listing from %s: %w", url, err)
	}

	var candidates []PackageCandidate
	for _, f := range files {
		if f.Attrs.Subdir != subdir || strings.Contains(f.Attrs.Build, onedirMarker) {
			continue
		}
		candidates = append(candidates, PackageCandidate{
			Version:     f.Version,
			Build:       f.Attrs.Build,
			BuildNumber: f.Attrs.BuildNumber,
			Timestamp:   f.Attrs.Timestamp,
			Subdir:      f.Attrs.Subdir,
			DownloadURL: f.DownloadURL,
		})
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %s/%s for %s", ErrNoCandidates, inst.channel, condaStandalonePackage, subdir)
	}

	slices.SortFunc(candidates, comparePackageCandidates)
	return candidates, nil
}

// comparePackageCandidates orders candidates by parsed version, then
// build number, then timestamp. Unparsable versions compare as 0.0.0,
// keeping the order total.
func comparePackageCandidates(a, b PackageCandidate) int {
	if c := version.FromString(a.Version).Compare(version.FromString(b.Version)); c != 0 {
		return c
	}
	if c := cmp.Compare(a.BuildNumber, b.BuildNumber); c != 0 {
		return c
	}
	return cmp.Compare(a.Timestamp, b.Timestamp)
}
