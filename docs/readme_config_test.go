package docs_test

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/pincheck/cmd/cli"
	"github.com/temirov/pincheck/internal/repos/dependencies"
	"github.com/temirov/pincheck/internal/utils"
	"github.com/temirov/pincheck/internal/verify"
)

const (
	readmeFileNameConstant           = "README.md"
	yamlFenceStartConstant           = "```yaml"
	yamlFenceEndConstant             = "```"
	configHeaderMarkerConstant       = "# pincheck.yaml"
	configurationFileNameConstant    = "pincheck.yaml"
	parentDirectoryReferenceConstant = ".."
	missingHeaderMessageConstant     = "README example missing config header marker"
	missingStartFenceMessageConstant = "README example missing yaml fence start"
	missingEndFenceMessageConstant   = "README example missing yaml fence end"
)

func readReadmeConfigurationSnippet(testInstance *testing.T) string {
	testInstance.Helper()

	workingDirectory, workingDirectoryError := os.Getwd()
	require.NoError(testInstance, workingDirectoryError)

	readmePath := filepath.Join(workingDirectory, parentDirectoryReferenceConstant, readmeFileNameConstant)
	contentBytes, readError := os.ReadFile(readmePath)
	require.NoError(testInstance, readError)

	contentText := string(contentBytes)
	headerIndex := strings.Index(contentText, configHeaderMarkerConstant)
	require.NotEqual(testInstance, -1, headerIndex, missingHeaderMessageConstant)

	fenceStartIndex := strings.LastIndex(contentText[:headerIndex], yamlFenceStartConstant)
	require.NotEqual(testInstance, -1, fenceStartIndex, missingStartFenceMessageConstant)

	remainingText := contentText[headerIndex:]
	fenceEndRelativeIndex := strings.Index(remainingText, yamlFenceEndConstant)
	require.NotEqual(testInstance, -1, fenceEndRelativeIndex, missingEndFenceMessageConstant)
	fenceEndIndex := headerIndex + fenceEndRelativeIndex

	return strings.TrimSpace(contentText[fenceStartIndex+len(yamlFenceStartConstant) : fenceEndIndex])
}

func flattenConfigurationKeys(prefix string, document map[string]any) []string {
	var keys []string
	for key, value := range document {
		qualifiedKey := key
		if len(prefix) > 0 {
			qualifiedKey = prefix + "." + key
		}
		if nested, isMap := value.(map[string]any); isMap {
			keys = append(keys, flattenConfigurationKeys(qualifiedKey, nested)...)
			continue
		}
		keys = append(keys, qualifiedKey)
	}
	sort.Strings(keys)
	return keys
}

func TestReadmeConfigurationDocumentsEveryEmbeddedKey(testInstance *testing.T) {
	snippetContent := readReadmeConfigurationSnippet(testInstance)
	embeddedContent, _ := cli.EmbeddedDefaultConfiguration()

	var snippetDocument map[string]any
	require.NoError(testInstance, yaml.Unmarshal([]byte(snippetContent), &snippetDocument))

	var embeddedDocument map[string]any
	require.NoError(testInstance, yaml.Unmarshal(embeddedContent, &embeddedDocument))

	require.Equal(testInstance, flattenConfigurationKeys("", embeddedDocument), flattenConfigurationKeys("", snippetDocument))
}

func TestReadmeConfigurationLoads(testInstance *testing.T) {
	snippetContent := readReadmeConfigurationSnippet(testInstance)

	configurationDirectory := testInstance.TempDir()
	require.NoError(testInstance, os.WriteFile(filepath.Join(configurationDirectory, configurationFileNameConstant), []byte(snippetContent), 0o600))

	configurationLoader := utils.NewConfigurationLoader("pincheck", "yaml", "PINCHECKDOCS", []string{configurationDirectory})
	configurationLoader.SetEmbeddedConfiguration(cli.EmbeddedDefaultConfiguration())

	var configuration cli.ApplicationConfiguration
	_, loadError := configurationLoader.LoadConfiguration(cli.DefaultConfigurationValues(), &configuration)
	require.NoError(testInstance, loadError)

	_, loggerError := utils.NewLoggerFactory().CreateLogger(utils.LogLevel(configuration.Common.LogLevel), utils.LogFormat(configuration.Common.LogFormat))
	require.NoError(testInstance, loggerError)

	require.Contains(testInstance, []string{dependencies.InspectorBackendGit, dependencies.InspectorBackendGoGit}, configuration.Verification.Inspector)
	require.Equal(testInstance, 10*time.Second, configuration.Verification.QueryTimeout)
	require.Equal(testInstance, 4, configuration.Verification.Workers)

	_, rendererError := verify.ResolveRenderer(configuration.Verification.ReportFormat)
	require.NoError(testInstance, rendererError)
}
