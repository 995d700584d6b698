package tube

import "strings"

// SelectTrack returns the track to download for the given language
// preferences, and false when the catalog is empty.
//
// Language tags match by prefix, so "en" takes "en", "en-US" and "en-GB".
// The first tag with any match decides: within its matches a manual track
// beats a speech recognition one, earlier beats later. When no tag matches
// anything, or no tags were given, the first track of the catalog is
// returned as-is; a wrong-language manual track is not worth preferring over
// whatever the uploader put first.
func SelectTrack(tracks []Track, langs []string) (Track, bool) {
	if len(tracks) == 0 {
		return Track{}, false
	}

	for _, lang := range langs {
		first := -1
		for i, t := range tracks {
			if !strings.HasPrefix(t.LanguageCode, lang) {
				continue
			}

			if !t.Auto {
				return t, true
			}
			if first == -1 {
				first = i
			}
		}

		if first >= 0 {
			return tracks[first], true
		}
	}

	return tracks[0], true
}
