package manifest_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/pincheck/internal/manifest"
)

const testReposManifestConstant = `repositories:
  ament/ament_cmake:
    type: git
    url: https://github.com/ament/ament_cmake.git
    version: rolling
  # pinned to a release tag
  eProsima/Fast-DDS:
    type: git
    url: https://github.com/eProsima/Fast-DDS.git
    version: v2.14.1

  ros2/rcl:
    type: git
    url: https://github.com/ros2/rcl.git
    version:   abcdef0123456789
  ros2/unversioned:
    type: git
    url: https://github.com/ros2/unversioned.git
`

type stubFileReader struct {
	content []byte
	err     error
	paths   []string
}

func (reader *stubFileReader) ReadFile(path string) ([]byte, error) {
	reader.paths = append(reader.paths, path)
	return reader.content, reader.err
}

func TestParseExtractsEntriesInOrder(t *testing.T) {
	parsed, parseError := manifest.Parse([]byte(testReposManifestConstant))
	require.NoError(t, parseError)

	require.Equal(t, []manifest.Entry{
		{Name: "ament/ament_cmake", Version: "rolling"},
		{Name: "eProsima/Fast-DDS", Version: "v2.14.1"},
		{Name: "ros2/rcl", Version: "abcdef0123456789"},
		{Name: "ros2/unversioned", Version: ""},
	}, parsed.Entries())
	require.Equal(t, 4, parsed.Len())

	entry, found := parsed.Lookup("ros2/unversioned")
	require.True(t, found)
	require.False(t, entry.Versioned())

	_, found = parsed.Lookup("repositories")
	require.False(t, found)
}

func TestParseIndentationContract(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected []manifest.Entry
	}{
		{
			name:     "header_with_three_spaces_opens_entry",
			content:  "   pkg_a:\n    version: main\n",
			expected: []manifest.Entry{{Name: "pkg_a", Version: "main"}},
		},
		{
			name:     "deeper_header_takes_following_version",
			content:  "  pkg_a:\n    type: git\n   pkg_b:\n    version: x\n",
			expected: []manifest.Entry{{Name: "pkg_a", Version: ""}, {Name: "pkg_b", Version: "x"}},
		},
		{
			name:     "unnamed_header_closes_open_entry",
			content:  "  pkg_a:\n   :\n    version: main\n",
			expected: []manifest.Entry{{Name: "pkg_a", Version: ""}},
		},
		{
			name:     "header_with_one_space_ignored",
			content:  " pkg_a:\n    version: main\n",
			expected: []manifest.Entry{},
		},
		{
			name:     "version_with_six_spaces_ignored",
			content:  "  pkg_a:\n      version: main\n",
			expected: []manifest.Entry{{Name: "pkg_a", Version: ""}},
		},
		{
			name:     "version_before_any_header_ignored",
			content:  "    version: main\n  pkg_a:\n",
			expected: []manifest.Entry{{Name: "pkg_a", Version: ""}},
		},
		{
			name:     "header_with_trailing_text_ignored",
			content:  "  pkg_a: inline\n    version: main\n",
			expected: []manifest.Entry{},
		},
		{
			name:     "version_keeps_text_after_first_colon",
			content:  "  pkg_a:\n    version: release:2024\n",
			expected: []manifest.Entry{{Name: "pkg_a", Version: "release:2024"}},
		},
		{
			name:     "indented_comment_skipped",
			content:  "  pkg_a:\n    # version: develop\n    version: main\n",
			expected: []manifest.Entry{{Name: "pkg_a", Version: "main"}},
		},
		{
			name:     "carriage_returns_tolerated",
			content:  "  pkg_a:\r\n    version: main\r\n",
			expected: []manifest.Entry{{Name: "pkg_a", Version: "main"}},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			parsed, parseError := manifest.Parse([]byte(testCase.content))
			require.NoError(t, parseError)
			require.Equal(t, testCase.expected, parsed.Entries())
		})
	}
}

func TestParseDuplicateNamesLastWins(t *testing.T) {
	content := "  pkg_a:\n    version: main\n  pkg_b:\n    version: develop\n  pkg_a:\n    version: humble\n"

	parsed, parseError := manifest.Parse([]byte(content))
	require.NoError(t, parseError)
	require.Equal(t, []manifest.Entry{
		{Name: "pkg_a", Version: "humble"},
		{Name: "pkg_b", Version: "develop"},
	}, parsed.Entries())
}

func TestParseDuplicateHeaderWithoutVersionResetsEntry(t *testing.T) {
	content := "  pkg_a:\n    version: main\n  pkg_a:\n"

	parsed, parseError := manifest.Parse([]byte(content))
	require.NoError(t, parseError)

	entry, found := parsed.Lookup("pkg_a")
	require.True(t, found)
	require.Empty(t, entry.Version)
}

func TestLoadReadsThroughFileReader(t *testing.T) {
	reader := &stubFileReader{content: []byte("  pkg_a:\n    version: main\n")}

	parsed, loadError := manifest.Load(reader, "/workspace/ros2.repos")
	require.NoError(t, loadError)
	require.Equal(t, []string{"/workspace/ros2.repos"}, reader.paths)
	require.Equal(t, []manifest.Entry{{Name: "pkg_a", Version: "main"}}, parsed.Entries())
}

func TestLoadWrapsReadErrors(t *testing.T) {
	readFailure := errors.New("permission denied")
	reader := &stubFileReader{err: readFailure}

	_, loadError := manifest.Load(reader, "/workspace/ros2.repos")
	require.ErrorIs(t, loadError, readFailure)

	_, loadError = manifest.Load(nil, "/workspace/ros2.repos")
	require.ErrorIs(t, loadError, manifest.ErrFileReaderNotConfigured)
}
