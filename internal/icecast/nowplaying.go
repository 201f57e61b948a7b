package icecast

import "strings"

const songSeparator = " - "

// NowPlaying is a raw song string split into artist and track.
type NowPlaying struct {
	Artist string
	Track  string
}

// ParseNowPlaying splits "Artist - Track". Without a separator the whole
// string is the track. Only the first separator splits; later ones stay in
// the track name.
func ParseNowPlaying(raw string) NowPlaying {
	if raw == "" {
		return NowPlaying{}
	}
	artist, track, found := strings.Cut(raw, songSeparator)
	if !found {
		return NowPlaying{Track: strings.TrimSpace(raw)}
	}
	return NowPlaying{
		Artist: strings.TrimSpace(artist),
		Track:  strings.TrimSpace(track),
	}
}

// DisplayTitle is the headline title: the track, or the raw string when no
// track could be parsed.
func (n NowPlaying) DisplayTitle(raw string) string {
	if n.Track != "" {
		return n.Track
	}
	return raw
}

// DisplayArtist is the artist line, with a placeholder when unknown.
func (n NowPlaying) DisplayArtist() string {
	if n.Artist != "" {
		return n.Artist
	}
	return "Unknown Artist"
}

// Activity is the compact ticker line shown under the title.
func (n NowPlaying) Activity() string {
	if n.Artist != "" {
		return "— " + n.Artist + " — " + n.Track
	}
	return "— " + n.Track
}
