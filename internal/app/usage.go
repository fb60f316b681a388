package app

import (
	"context"
	"flag"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/google/go-github/v45/github"
)

// Version, Owner and Repo are set at compile time. Owner and Repo name the
// GitHub repository whose latest release -u compares against.
var (
	Version = ""
	Owner   = "pouriyajamshidi"
	Repo    = "hostping"
)

var releaseTag = regexp.MustCompile(`^v?(\d+\.\d+\.\d+)$`)

// PrintUsage prints how hostping should be run
func PrintUsage(w io.Writer, executableName string) {
	fs, _ := newFlagSet()

	fmt.Fprintf(w, "\nHOSTPING version %s\n\n", Version)
	fmt.Fprintf(w, "Try running %s like:\n", executableName)
	fmt.Fprintf(w, "%s [flags] <hostname/ip>. For example:\n", executableName)
	fmt.Fprintf(w, "%s -c 3 www.example.com\n", executableName)
	fmt.Fprintf(w, "\n[optional flags]\n")

	fs.VisitAll(func(f *flag.Flag) {
		flagName := f.Name
		if len(f.Name) > 1 {
			flagName = "-" + flagName
		}

		fmt.Fprintf(w, "  -%s : %s\n", flagName, f.Usage)
	})
}

// compareVersions compares dotted numeric versions component by component.
// Missing or malformed components count as 0, and a version that is a
// prefix of the other is the older one.
func compareVersions(v1, v2 string) int {
	return slices.Compare(versionParts(v1), versionParts(v2))
}

func versionParts(v string) []int {
	fields := strings.Split(v, ".")
	parts := make([]int, len(fields))
	for i, f := range fields {
		parts[i], _ = strconv.Atoi(f)
	}
	return parts
}

// PrintVersion displays the version
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "HOSTPING version %s\n", Version)
}

// CheckForUpdates checks for newer versions of hostping and returns update message
func CheckForUpdates(ctx context.Context) (string, error) {
	// unauthenticated requests from the same IP are limited to 60 per hour
	return checkForUpdates(ctx, github.NewClient(nil))
}

func checkForUpdates(ctx context.Context, c *github.Client) (string, error) {
	latestRelease, _, err := c.Repositories.GetLatestRelease(ctx, Owner, Repo)
	if err != nil {
		return "", fmt.Errorf("check for updates: %w", err)
	}

	latestTagName := latestRelease.GetTagName()
	latestVersion := releaseTag.FindStringSubmatch(latestTagName)

	if len(latestVersion) == 0 {
		return "", fmt.Errorf("version name does not match expected format: %s", latestTagName)
	}

	switch compareVersions(Version, latestVersion[1]) {
	case -1:
		return fmt.Sprintf("Found newer version %s\nPlease update HOSTPING from the URL below:\nhttps://github.com/%s/%s/releases/tag/%s",
			latestVersion[1], Owner, Repo, latestTagName), nil
	case 1:
		return fmt.Sprintf("Current version %s is newer than the latest release %s",
			Version, latestVersion[1]), nil
	default:
		return fmt.Sprintf("HOSTPING is on the latest version: %s", Version), nil
	}
}
