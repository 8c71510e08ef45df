package utils

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	workingDirectorySearchPathConstant = "."
	tildeSymbolConstant                = "~"
)

// DirectoryProvider resolves a well-known directory such as the user's home.
type DirectoryProvider func() (string, error)

// ConfigurationSearchPathResolver orders the directories searched for a configuration file.
type ConfigurationSearchPathResolver struct {
	HomeDirectoryProvider              DirectoryProvider
	UserConfigurationDirectoryProvider DirectoryProvider
}

// NewConfigurationSearchPathResolver constructs a resolver backed by the operating system lookups.
func NewConfigurationSearchPathResolver() ConfigurationSearchPathResolver {
	return ConfigurationSearchPathResolver{
		HomeDirectoryProvider:              os.UserHomeDir,
		UserConfigurationDirectoryProvider: os.UserConfigDir,
	}
}

// Resolve returns the entries of environmentSearchPath (a filepath.ListSeparator separated list, ~ expanded),
// then the working directory, then applicationDirectoryName under the user configuration directory.
func (resolver ConfigurationSearchPathResolver) Resolve(environmentSearchPath string, applicationDirectoryName string) []string {
	searchPaths := make([]string, 0, 4)
	for _, candidatePath := range filepath.SplitList(environmentSearchPath) {
		trimmedPath := strings.TrimSpace(candidatePath)
		if len(trimmedPath) == 0 {
			continue
		}
		searchPaths = append(searchPaths, resolver.expandHomeDirectory(trimmedPath))
	}

	searchPaths = append(searchPaths, workingDirectorySearchPathConstant)

	if resolver.UserConfigurationDirectoryProvider != nil {
		if userConfigurationDirectory, lookupError := resolver.UserConfigurationDirectoryProvider(); lookupError == nil && len(userConfigurationDirectory) > 0 {
			searchPaths = append(searchPaths, filepath.Join(userConfigurationDirectory, applicationDirectoryName))
		}
	}

	return searchPaths
}

func (resolver ConfigurationSearchPathResolver) expandHomeDirectory(candidatePath string) string {
	if !strings.HasPrefix(candidatePath, tildeSymbolConstant) || resolver.HomeDirectoryProvider == nil {
		return candidatePath
	}

	remainder := strings.TrimPrefix(candidatePath, tildeSymbolConstant)
	if len(remainder) > 0 && remainder[0] != '/' && remainder[0] != os.PathSeparator {
		// ~otheruser is left alone.
		return candidatePath
	}

	homeDirectory, lookupError := resolver.HomeDirectoryProvider()
	if lookupError != nil || len(homeDirectory) == 0 {
		return candidatePath
	}
	return filepath.Join(homeDirectory, remainder)
}
