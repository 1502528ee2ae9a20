package downloader

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/datallboy/gocast/internal/domain"
)

var badChars = regexp.MustCompile(`[\\/:*?"<>|\x00-\x1f]`)

// Targets numbers items oldest first, assuming the feed lists newest first,
// and derives each local filename. Items without a usable enclosure keep
// their ordinal but produce an error instead of a target.
func Targets(items []domain.FeedItem) ([]domain.DownloadTarget, []error) {
	targets := make([]domain.DownloadTarget, 0, len(items))
	var errs []error

	for i := range items {
		item := items[len(items)-1-i]
		ordinal := i + 1

		t, err := NewTarget(ordinal, item)
		if err != nil {
			errs = append(errs, fmt.Errorf("item %03d %q: %w", ordinal, item.Title, err))
			continue
		}
		targets = append(targets, t)
	}

	return targets, errs
}

// NewTarget derives the download target for item at the given ordinal
func NewTarget(ordinal int, item domain.FeedItem) (domain.DownloadTarget, error) {
	downloadURL, err := item.DownloadURL()
	if err != nil {
		return domain.DownloadTarget{}, err
	}

	ext, err := Extension(downloadURL)
	if err != nil {
		return domain.DownloadTarget{}, err
	}

	return domain.DownloadTarget{
		Ordinal:  ordinal,
		Title:    item.Title,
		URL:      downloadURL,
		Filename: fmt.Sprintf("%03d %s%s", ordinal, sanitizeTitle(item.Title), ext),
	}, nil
}

// Extension returns the file extension of the url's path, ignoring any
// query string or fragment.
func Extension(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid enclosure url: %w", err)
	}
	return path.Ext(u.Path), nil
}

// sanitizeTitle replaces characters that are illegal in filenames on common
// platforms. Titles that are already safe pass through untouched.
func sanitizeTitle(title string) string {
	return strings.TrimSpace(badChars.ReplaceAllString(title, "_"))
}
