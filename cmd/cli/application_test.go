package cli

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/pincheck/internal/gitrepo/gitrepotest"
	"github.com/temirov/pincheck/internal/inspect/inspecttest"
	"github.com/temirov/pincheck/internal/repos/dependencies"
)

const (
	testManifestRelativePathConstant    = "ros2/ros2.repos"
	testSourceRelativePathConstant      = "ros2/src"
	testInspectorEnvironmentConstant    = "PINCHECK_VERIFICATION_INSPECTOR"
	testReportFormatEnvironmentConstant = "PINCHECK_VERIFICATION_REPORT_FORMAT"
	testWorkersEnvironmentConstant      = "PINCHECK_VERIFICATION_WORKERS"
	testLogLevelEnvironmentConstant     = "PINCHECK_COMMON_LOG_LEVEL"
	testSuccessOutputConstant           = "OK: all repos match ros2.repos versions\n"
)

type applicationWorkspace struct {
	root         string
	manifestPath string
	sourceRoot   string
}

// newApplicationWorkspace isolates configuration lookup and changes into a fresh workspace directory.
func newApplicationWorkspace(testInstance *testing.T, manifestContent string) applicationWorkspace {
	testInstance.Helper()

	homeDirectory := testInstance.TempDir()
	testInstance.Setenv("HOME", homeDirectory)
	testInstance.Setenv("XDG_CONFIG_HOME", filepath.Join(homeDirectory, ".config"))
	testInstance.Setenv(configurationSearchPathEnvironmentNameConstant, "")

	root, resolveError := filepath.EvalSymlinks(testInstance.TempDir())
	require.NoError(testInstance, resolveError)
	testInstance.Chdir(root)

	workspace := applicationWorkspace{
		root:         root,
		manifestPath: filepath.Join(root, testManifestRelativePathConstant),
		sourceRoot:   filepath.Join(root, testSourceRelativePathConstant),
	}
	require.NoError(testInstance, os.MkdirAll(workspace.sourceRoot, 0o755))
	require.NoError(testInstance, os.WriteFile(workspace.manifestPath, []byte(manifestContent), 0o600))
	return workspace
}

func (workspace applicationWorkspace) checkoutPath(name string) string {
	return filepath.Join(workspace.sourceRoot, name)
}

func runApplication(testInstance *testing.T, application *Application, arguments ...string) (string, error) {
	testInstance.Helper()

	var output bytes.Buffer
	application.rootCommand.SetOut(&output)
	application.rootCommand.SetErr(&output)
	application.rootCommand.SetArgs(arguments)
	executionError := application.Execute()
	return output.String(), executionError
}

func requireExitStatus(testInstance *testing.T, executionError error, expectedCode int) {
	testInstance.Helper()

	var exitStatusError ExitStatusError
	require.ErrorAs(testInstance, executionError, &exitStatusError)
	require.Equal(testInstance, expectedCode, exitStatusError.Code)
}

func TestApplicationFlagDefaults(testInstance *testing.T) {
	application := NewApplication()

	reposFlag := application.rootCommand.Flags().Lookup(reposFlagNameConstant)
	require.NotNil(testInstance, reposFlag)
	require.Equal(testInstance, "ros2/ros2.repos", reposFlag.DefValue)

	sourceFlag := application.rootCommand.Flags().Lookup(sourceFlagNameConstant)
	require.NotNil(testInstance, sourceFlag)
	require.Equal(testInstance, "ros2/src", sourceFlag.DefValue)
}

func TestApplicationVerifiesGoGitCheckouts(testInstance *testing.T) {
	workspace := newApplicationWorkspace(testInstance, "")
	testInstance.Setenv(testInspectorEnvironmentConstant, dependencies.InspectorBackendGoGit)

	gitrepotest.InitRepository(testInstance, workspace.checkoutPath("pkg_a"))

	pinnedByHash := gitrepotest.InitRepository(testInstance, workspace.checkoutPath("pkg_c"))
	pinnedHashPrefix := pinnedByHash.Head(testInstance)[:16]

	pinnedByTag := gitrepotest.InitRepository(testInstance, workspace.checkoutPath("pkg_d"))
	releaseCommit := pinnedByTag.Head(testInstance)
	pinnedByTag.TagAnnotated(testInstance, "1.0.0")
	pinnedByTag.Commit(testInstance, "post release")
	pinnedByTag.Detach(testInstance, releaseCommit)

	manifestContent := "repositories:\n" +
		"  pkg_a:\n    type: git\n    version: main\n" +
		"  pkg_c:\n    version: " + pinnedHashPrefix + "\n" +
		"  pkg_d:\n    version: 1.0.0\n" +
		"  pkg_notes:\n    type: git\n"
	require.NoError(testInstance, os.WriteFile(workspace.manifestPath, []byte(manifestContent), 0o600))

	output, executionError := runApplication(testInstance, NewApplication())
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, testSuccessOutputConstant, output)
}

func TestApplicationReportsFailures(testInstance *testing.T) {
	manifestContent := "repositories:\n" +
		"  pkg_b:\n    version: develop\n" +
		"  pkg_d:\n    version: v1.0.0\n" +
		"  pkg_e:\n    version: main\n"

	for _, workerCount := range []string{"1", "3"} {
		testInstance.Run("workers_"+workerCount, func(testInstance *testing.T) {
			workspace := newApplicationWorkspace(testInstance, manifestContent)
			testInstance.Setenv(testWorkersEnvironmentConstant, workerCount)
			require.NoError(testInstance, os.MkdirAll(filepath.Join(workspace.checkoutPath("pkg_b"), ".git"), 0o755))
			require.NoError(testInstance, os.MkdirAll(filepath.Join(workspace.checkoutPath("pkg_d"), ".git"), 0o755))

			application := NewApplication()
			application.revisionQuerier = inspecttest.NewStaticRevisionQuerier(map[string]inspecttest.CheckoutState{
				workspace.checkoutPath("pkg_b"): {SymbolicReference: "main", CommitHash: "0123456789abcdef0123456789abcdef01234567"},
				workspace.checkoutPath("pkg_d"): {SymbolicReference: "HEAD", CommitHash: "fedcba9876543210fedcba9876543210fedcba98", ExactTag: "v1.0.1"},
			})

			output, executionError := runApplication(testInstance, application)
			requireExitStatus(testInstance, executionError, 1)
			require.Equal(testInstance,
				"MISMATCH\n - pkg_b expected develop got branch main\n\n"+
					"UNKNOWN\n - pkg_d expected v1.0.0 got detached HEAD fedcba987654\n\n"+
					"MISSING\n - pkg_e expected main got missing path\n\n",
				output,
			)
		})
	}
}

func TestApplicationPreconditionFailures(testInstance *testing.T) {
	testCases := []struct {
		name           string
		argumentsFor   func(applicationWorkspace) []string
		expectedOutput func(applicationWorkspace) string
	}{
		{
			name: "manifest_missing",
			argumentsFor: func(workspace applicationWorkspace) []string {
				return []string{"--repos", "absent.repos", "--src", workspace.sourceRoot}
			},
			expectedOutput: func(workspace applicationWorkspace) string {
				return "ERROR: repos file not found: " + filepath.Join(workspace.root, "absent.repos") + "\n"
			},
		},
		{
			name: "source_root_missing",
			argumentsFor: func(workspace applicationWorkspace) []string {
				return []string{"--src", "absent_src"}
			},
			expectedOutput: func(workspace applicationWorkspace) string {
				return "ERROR: source root not found: " + filepath.Join(workspace.root, "absent_src") + "\n"
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			workspace := newApplicationWorkspace(testInstance, "repositories:\n  pkg_a:\n    version: main\n")
			querier := inspecttest.NewStaticRevisionQuerier(nil)
			application := NewApplication()
			application.revisionQuerier = querier

			output, executionError := runApplication(testInstance, application, testCase.argumentsFor(workspace)...)
			requireExitStatus(testInstance, executionError, 2)
			require.Equal(testInstance, testCase.expectedOutput(workspace), output)
			require.Zero(testInstance, querier.QueryCount())
		})
	}
}

func TestApplicationRendersYAMLReport(testInstance *testing.T) {
	workspace := newApplicationWorkspace(testInstance, "repositories:\n  pkg_e:\n    version: main\n")
	configurationDirectory := testInstance.TempDir()
	require.NoError(testInstance, os.WriteFile(
		filepath.Join(configurationDirectory, "pincheck.yaml"),
		[]byte("verification:\n  report_format: yaml\n"),
		0o600,
	))
	testInstance.Setenv(configurationSearchPathEnvironmentNameConstant, configurationDirectory)

	application := NewApplication()
	application.revisionQuerier = inspecttest.NewStaticRevisionQuerier(nil)

	output, executionError := runApplication(testInstance, application, "--repos", workspace.manifestPath, "--src", workspace.sourceRoot)
	requireExitStatus(testInstance, executionError, 1)

	var document struct {
		Status  string `yaml:"status"`
		Missing []struct {
			Name     string `yaml:"name"`
			Expected string `yaml:"expected"`
			Got      string `yaml:"got"`
		} `yaml:"missing"`
	}
	require.NoError(testInstance, yaml.Unmarshal([]byte(output), &document))
	require.Equal(testInstance, "failed", document.Status)
	require.Len(testInstance, document.Missing, 1)
	require.Equal(testInstance, "pkg_e", document.Missing[0].Name)
	require.Equal(testInstance, "missing path", document.Missing[0].Got)
}

func TestApplicationRejectsInvalidInvocations(testInstance *testing.T) {
	testCases := []struct {
		name        string
		environment map[string]string
		arguments   []string
	}{
		{
			name:      "positional_argument",
			arguments: []string{"extra"},
		},
		{
			name:      "unknown_flag",
			arguments: []string{"--fetch"},
		},
		{
			name:        "unsupported_inspector",
			environment: map[string]string{testInspectorEnvironmentConstant: "libgit2"},
		},
		{
			name:        "unsupported_report_format",
			environment: map[string]string{testReportFormatEnvironmentConstant: "csv"},
		},
		{
			name:        "unsupported_log_level",
			environment: map[string]string{testLogLevelEnvironmentConstant: "verbose"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			newApplicationWorkspace(testInstance, "repositories:\n  pkg_a:\n    version: main\n")
			for environmentName, environmentValue := range testCase.environment {
				testInstance.Setenv(environmentName, environmentValue)
			}

			_, executionError := runApplication(testInstance, NewApplication(), testCase.arguments...)
			require.Error(testInstance, executionError)

			var exitStatusError ExitStatusError
			require.NotErrorAs(testInstance, executionError, &exitStatusError)
		})
	}
}

func TestApplicationVerifiesWithGitExecutable(testInstance *testing.T) {
	if _, lookupError := exec.LookPath("git"); lookupError != nil {
		testInstance.Skip("git executable not available")
	}

	workspace := newApplicationWorkspace(testInstance, "repositories:\n  pkg_a:\n    version: main\n  pkg_d:\n    version: 2.0.0\n")
	gitrepotest.InitRepository(testInstance, workspace.checkoutPath("pkg_a"))
	tagged := gitrepotest.InitRepository(testInstance, workspace.checkoutPath("pkg_d"))
	tagged.TagLightweight(testInstance, "2.0.0")
	tagged.Detach(testInstance, tagged.Head(testInstance))

	output, executionError := runApplication(testInstance, NewApplication())
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, testSuccessOutputConstant, output)
}
