package device

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path"
	"regexp"
	"strings"
	"unicode"
)

// Marker file names, matched case-insensitively on the board's drive.
const (
	DAPLinkHtmName     = "mbed.htm"
	DAPLinkDetailsName = "details.txt"
)

// JLinkMarkerNames are probed in order; the first present file wins.
var JLinkMarkerNames = []string{"Board.html", "User Guide.html", "Segger.html"}

var (
	// Current firmware uses ?code=, very old images used ?auth=.
	htmIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\?code=([a-fA-F0-9]+)`),
		regexp.MustCompile(`\?auth=([a-fA-F0-9]+)`),
	}
	htmVersionPatterns = []*regexp.Regexp{
		// <!-- Version: 0200 Build: Mar 26 2014 13:22:20 -->
		regexp.MustCompile(`^<!-- Version: (\d+) Build: ([\d\w: ]+) -->`),
		// <!-- Version: 0219 Build: Feb  2 2016 15:20:54 Git Commit SHA: ...
		regexp.MustCompile(`^<!-- Version: (\d+) Build: ([\d\w: ]+) Git Commit SHA`),
		// <!-- Version: 0.14.3. build 471 -->
		regexp.MustCompile(`^<!-- Version: ([\d+\.]+)\. build (\d+) -->`),
	}
	redirectPattern = regexp.MustCompile(`(?i)url=([\w:/\\?.=&%#~+\-]+)`)
)

const (
	detailsPrefix   = "daplink_"
	legacyVersion   = "daplink_interface_version"
	stableVersion   = "daplink_version"
	htmVersionField = "daplink_htm_version"
	htmBuildField   = "daplink_htm_build"
)

// htmInfo is what an mbed.htm redirect page reveals.
type htmInfo struct {
	TargetID string
	Version  string
	Build    string
}

func parseHtmFile(p string) (htmInfo, error) {
	f, err := os.Open(p)
	if err != nil {
		return htmInfo{}, err
	}
	defer f.Close()
	return parseHtm(f)
}

func parseHtm(r io.Reader) (htmInfo, error) {
	var info htmInfo
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		for _, re := range htmIDPatterns {
			if m := re.FindStringSubmatch(line); m != nil {
				info.TargetID = m[1]
				break
			}
		}
		for _, re := range htmVersionPatterns {
			if m := re.FindStringSubmatch(line); m != nil {
				info.Version = strings.TrimSpace(m[1])
				info.Build = strings.TrimSpace(m[2])
				break
			}
		}
	}
	return info, scanner.Err()
}

// detailsResult holds parsed details.txt pairs plus the count of lines
// that could not be understood.
type detailsResult struct {
	Fields   map[string]string
	BadLines int
}

func parseDetailsFile(p string) (detailsResult, error) {
	f, err := os.Open(p)
	if err != nil {
		return detailsResult{}, err
	}
	defer f.Close()
	return parseDetails(f), nil
}

// parseDetails reads "Key: value" lines. Lines starting with '#' and blank
// lines are skipped; malformed lines are counted and skipped. A read error
// part way through counts as one more bad line.
func parseDetails(r io.Reader) detailsResult {
	res := detailsResult{Fields: map[string]string{}}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRightFunc(scanner.Text(), unicode.IsSpace)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			res.BadLines++
			continue
		}
		res.Fields[detailsKey(key)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		res.BadLines++
	}

	if v, ok := res.Fields[legacyVersion]; ok {
		if _, have := res.Fields[stableVersion]; !have {
			res.Fields[stableVersion] = v
		}
	}
	return res
}

func detailsKey(key string) string {
	return detailsPrefix + strings.ReplaceAll(strings.ToLower(key), " ", "_")
}

var errNoRedirect = errors.New("no redirect url")

func parseRedirectFile(p string) (string, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}
	return parseRedirect(string(data))
}

func parseRedirect(contents string) (string, error) {
	m := redirectPattern.FindStringSubmatch(contents)
	if m == nil {
		return "", errNoRedirect
	}
	return strings.TrimSpace(m[1]), nil
}

// urlModel returns the last path segment of a vendor URL, the part that
// names the board model.
func urlModel(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	url = strings.TrimRight(strings.ReplaceAll(url, "\\", "/"), "/")
	return path.Base(url)
}

// matchModel picks the known platform name that the URL model ends with.
// Punctuation and case are ignored; the longest match wins.
func matchModel(model string, names []string) (string, bool) {
	norm := normalizeModel(model)
	if norm == "" {
		return "", false
	}
	best, bestLen := "", 0
	for _, name := range names {
		n := normalizeModel(name)
		if n == "" || !strings.HasSuffix(norm, n) {
			continue
		}
		if len(n) > bestLen || (len(n) == bestLen && name < best) {
			best, bestLen = name, len(n)
		}
	}
	return best, bestLen > 0
}

func normalizeModel(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// indexFiles maps lower-cased directory entry names to their real names.
func indexFiles(names []string) map[string]string {
	out := make(map[string]string, len(names))
	for _, name := range names {
		lower := strings.ToLower(name)
		if _, dup := out[lower]; !dup {
			out[lower] = name
		}
	}
	return out
}

func lookupFile(files map[string]string, name string) (string, bool) {
	actual, ok := files[strings.ToLower(name)]
	return actual, ok
}
