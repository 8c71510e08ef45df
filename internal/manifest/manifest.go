package manifest

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	commentPrefixConstant             = "#"
	entryHeaderSuffixConstant         = ":"
	versionSeparatorConstant          = ":"
	manifestReadErrorTemplateConstant = "failed to read manifest %s: %w"
	manifestScanErrorTemplateConstant = "failed to scan manifest: %w"
	fileSystemMissingMessageConstant  = "manifest file system not configured"
)

var (
	entryHeaderPattern = regexp.MustCompile(`^\s{2}[^:]+:$`)
	versionLinePattern = regexp.MustCompile(`^\s{4}version:`)
)

// ErrFileReaderNotConfigured indicates Load received no file reader.
var ErrFileReaderNotConfigured = errors.New(fileSystemMissingMessageConstant)

// Entry pairs a repository name with its declared version.
type Entry struct {
	Name    string
	Version string
}

// Versioned reports whether the entry declares a non-empty version.
func (entry Entry) Versioned() bool {
	return len(entry.Version) > 0
}

// Manifest maps repository names to pinned versions, remembering the order in which names first appeared.
type Manifest struct {
	names    []string
	versions map[string]string
}

// FileReader reads manifest content from storage.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

// Load reads and parses the manifest at path.
func Load(fileReader FileReader, path string) (Manifest, error) {
	if fileReader == nil {
		return Manifest{}, fmt.Errorf(manifestReadErrorTemplateConstant, path, ErrFileReaderNotConfigured)
	}
	content, readError := fileReader.ReadFile(path)
	if readError != nil {
		return Manifest{}, fmt.Errorf(manifestReadErrorTemplateConstant, path, readError)
	}
	return Parse(content)
}

// Parse extracts entries from manifest content.
//
// A repeated header resets the entry's version and a repeated version line
// overwrites the previous one, so the last declaration wins while the entry
// keeps the position of its first header.
func Parse(content []byte) (Manifest, error) {
	parsed := newManifest()
	currentName := ""
	entryOpen := false

	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), len(content)+1)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmedLine := strings.TrimSpace(line)
		if len(trimmedLine) == 0 || strings.HasPrefix(trimmedLine, commentPrefixConstant) {
			continue
		}

		// Deeper indentation still opens an entry; a header without a name closes the open one.
		if entryHeaderPattern.MatchString(line) {
			currentName = strings.TrimSuffix(trimmedLine, entryHeaderSuffixConstant)
			entryOpen = len(currentName) > 0
			if entryOpen {
				parsed.set(currentName, "")
			}
			continue
		}

		if entryOpen && versionLinePattern.MatchString(line) {
			_, version, _ := strings.Cut(line, versionSeparatorConstant)
			parsed.set(currentName, strings.TrimSpace(version))
		}
	}
	if scanError := scanner.Err(); scanError != nil {
		return Manifest{}, fmt.Errorf(manifestScanErrorTemplateConstant, scanError)
	}

	return parsed, nil
}

func newManifest() Manifest {
	return Manifest{versions: make(map[string]string)}
}

func (manifest *Manifest) set(name string, version string) {
	if _, exists := manifest.versions[name]; !exists {
		manifest.names = append(manifest.names, name)
	}
	manifest.versions[name] = version
}

// Entries returns every entry in first-seen order, including entries without a version.
func (manifest Manifest) Entries() []Entry {
	entries := make([]Entry, 0, len(manifest.names))
	for _, name := range manifest.names {
		entries = append(entries, Entry{Name: name, Version: manifest.versions[name]})
	}
	return entries
}

// Lookup returns the entry for name.
func (manifest Manifest) Lookup(name string) (Entry, bool) {
	version, exists := manifest.versions[name]
	if !exists {
		return Entry{}, false
	}
	return Entry{Name: name, Version: version}, true
}

// Len reports the number of distinct entry names.
func (manifest Manifest) Len() int {
	return len(manifest.names)
}
