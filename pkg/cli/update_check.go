package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cli/go-gh/v2/pkg/api"
	"golang.org/x/mod/semver"

	"github.com/wfgate/gh-wfgate/pkg/console"
	"github.com/wfgate/gh-wfgate/pkg/logger"
)

var updateCheckLog = logger.New("cli:update_check")

// releaseRepoSlug is the repository queried for extension releases.
const releaseRepoSlug = "wfgate/gh-wfgate"

// updateCheckTimeout bounds the release lookup so a slow network never
// delays command exit noticeably.
const updateCheckTimeout = 3 * time.Second

// Release is the subset of the GitHub release payload the update check reads.
type Release struct {
	TagName string `json:"tag_name"`
}

// CheckForUpdatesAsync looks up the latest release in the background and
// prints an upgrade notice to stderr when a newer tagged release exists.
// Every failure is silent: an update notice is never worth disturbing a
// validation run. Development builds skip the check entirely.
func CheckForUpdatesAsync(ctx context.Context, disabled bool, verbose bool) {
	if disabled {
		updateCheckLog.Print("Update check disabled by flag")
		return
	}

	current := GetVersion()
	if !isReleasedVersion(current) {
		updateCheckLog.Printf("Not a released version (%s), skipping update check", current)
		if verbose {
			fmt.Fprintln(os.Stderr, console.FormatVerboseMessage("Skipping update check (development build)"))
		}
		return
	}

	select {
	case <-ctx.Done():
		return
	default:
	}

	go func() {
		latest, err := getLatestReleaseVersion()
		if err != nil {
			updateCheckLog.Printf("Update check failed (silently ignoring): %v", err)
			if verbose {
				fmt.Fprintln(os.Stderr, console.FormatVerboseMessage(fmt.Sprintf("Could not check for updates: %v", err)))
			}
			return
		}
		if latest == "" || !isNewerVersion(latest, current) {
			updateCheckLog.Printf("No newer release (latest: %s, current: %s)", latest, current)
			return
		}

		fmt.Fprintln(os.Stderr, console.FormatWarningMessage(fmt.Sprintf(
			"A newer version of gh-wfgate is available: %s (current: %s)", latest, current)))
		fmt.Fprintln(os.Stderr, console.FormatInfoMessage(
			"Run 'gh extension upgrade "+releaseRepoSlug+"' to update"))
		fmt.Fprintln(os.Stderr, console.FormatLocationMessage(
			"https://github.com/"+releaseRepoSlug+"/releases/tag/"+latest))
	}()
}

// getLatestReleaseVersion queries the GitHub API for the latest release tag
func getLatestReleaseVersion() (string, error) {
	updateCheckLog.Print("Querying GitHub API for latest release...")

	client, err := api.NewRESTClient(api.ClientOptions{Timeout: updateCheckTimeout})
	if err != nil {
		return "", fmt.Errorf("failed to create GitHub client: %w", err)
	}

	var release Release
	if err := client.Get(fmt.Sprintf("repos/%s/releases/latest", releaseRepoSlug), &release); err != nil {
		return "", fmt.Errorf("failed to query latest release: %w", err)
	}

	updateCheckLog.Printf("Latest release: %s", release.TagName)
	return release.TagName, nil
}

// isNewerVersion reports whether candidate is a strictly newer semantic
// version than current. Non-semver inputs compare as not newer.
func isNewerVersion(candidate, current string) bool {
	c := ensureVersionPrefix(candidate)
	cur := ensureVersionPrefix(current)
	if !semver.IsValid(c) || !semver.IsValid(cur) {
		return false
	}
	return semver.Compare(c, cur) > 0
}

// ensureVersionPrefix normalizes a version string to the "v" prefixed form
// the semver package requires.
func ensureVersionPrefix(v string) string {
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}
