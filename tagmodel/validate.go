package tagmodel

import (
	"regexp"
	"strconv"
	"strings"
)

var isrcPattern = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{3}\d{7}$`)

var validPictureMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/bmp":  true,
	"-->":        true, // MP4/FLAC convention for a URL-linked picture
}

// ValidateProperties runs the per-format-agnostic constraint checks spec
// §4.C/§4.N name explicitly. Format-specific Tag implementations call this
// from their own Validate and may append further Errors/Warns of their own.
func ValidateProperties(p *Properties) []Issue {
	var issues []Issue

	if p.Isrc != "" && !isrcPattern.MatchString(p.Isrc) {
		issues = append(issues, Issue{Field: "Isrc", Severity: SeverityError,
			Message: "ISRC must match [A-Z]{2}[A-Z0-9]{3}\\d{7}"})
	}

	if p.Year != 0 && (p.Year < 1000 || p.Year > 9999) {
		issues = append(issues, Issue{Field: "Year", Severity: SeverityError,
			Message: "year must be a numeric 4-digit value"})
	}

	if p.TotalTracks != 0 && p.Track > p.TotalTracks {
		issues = append(issues, Issue{Field: "Track", Severity: SeverityError,
			Message: "Track exceeds TotalTracks"})
	}

	if p.TotalDiscs != 0 && p.DiscNumber > p.TotalDiscs {
		issues = append(issues, Issue{Field: "DiscNumber", Severity: SeverityError,
			Message: "DiscNumber exceeds TotalDiscs"})
	}

	for i, pic := range p.Pictures {
		if pic.MIME != "" && !validPictureMIME[strings.ToLower(pic.MIME)] {
			issues = append(issues, Issue{Field: "Pictures", Severity: SeverityError,
				Message: "invalid picture MIME type at index " + strconv.Itoa(i) + ": " + pic.MIME})
		}
		if len(pic.Description) > 64 {
			issues = append(issues, Issue{Field: "Pictures", Severity: SeverityWarn,
				Message: "picture description exceeds 64 characters at index " + strconv.Itoa(i)})
		}
	}

	for _, f := range []struct{ name, val string }{
		{"Title", p.Title}, {"Artist", p.Artist}, {"Album", p.Album}, {"Comment", p.Comment},
	} {
		if f.val != strings.TrimSpace(f.val) {
			issues = append(issues, Issue{Field: f.name, Severity: SeverityWarn,
				Message: "leading/trailing whitespace in text field"})
		}
	}

	if CoverArt(p.Pictures) != nil && p.Title == "" && p.Artist == "" {
		issues = append(issues, Issue{Field: "Pictures", Severity: SeverityWarn,
			Message: "cover art present but no conventional Title/Artist fields set"})
	}

	return issues
}
