package media

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const maxPlaylistSize = 64 << 10

// ResolveStream turns a station URL into a playable stream URL. Links to
// .m3u/.m3u8/.pls playlists are fetched and their first http(s) entry is
// returned; any other URL comes back unchanged.
func ResolveStream(ctx context.Context, client *http.Client, rawURL string) (string, error) {
	ext := urlExt(rawURL)
	if !IsPlaylistExt(ext) {
		return rawURL, nil
	}
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("building playlist request: %w", err)
	}
	req.Header.Set("User-Agent", "afters")
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching playlist: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching playlist: unexpected status %s", resp.Status)
	}

	entries := ParsePlaylist(ext, io.LimitReader(resp.Body, maxPlaylistSize))
	if len(entries) == 0 {
		return "", fmt.Errorf("playlist %s has no stream entries", rawURL)
	}
	return entries[0], nil
}

// ParsePlaylist returns the http(s) entries of an M3U or PLS playlist in
// order. ext selects the format.
func ParsePlaylist(ext string, r io.Reader) []string {
	scanner := bufio.NewScanner(r)
	var entries []string
	if strings.ToLower(ext) == ".pls" {
		entries = parsePLS(scanner)
	} else {
		entries = parseM3U(scanner)
	}

	out := entries[:0]
	for _, e := range entries {
		e = strings.Trim(e, "\"")
		lower := strings.ToLower(e)
		if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
			out = append(out, e)
		}
	}
	return out
}

func parseM3U(scanner *bufio.Scanner) []string {
	entries := make([]string, 0)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\uFEFF"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, line)
	}
	return entries
}

func parsePLS(scanner *bufio.Scanner) []string {
	entries := make([]string, 0)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		eq := strings.Index(line, "=")
		if eq <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:eq])
		val := strings.TrimSpace(line[eq+1:])
		if val == "" || !isPLSFileKey(key) {
			continue
		}

		entries = append(entries, val)
	}
	return entries
}

func isPLSFileKey(key string) bool {
	if len(key) < len("File") || !strings.EqualFold(key[:len("File")], "File") {
		return false
	}
	rest := key[len("File"):]
	if rest == "" {
		return false
	}
	for i := 0; i < len(rest); i++ {
		if rest[i] < '0' || rest[i] > '9' {
			return false
		}
	}
	return true
}
