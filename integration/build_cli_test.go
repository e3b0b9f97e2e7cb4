package integration_test

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestBuildCLIFromRepositoryRoot(t *testing.T) {
	workingDirectory, workingDirectoryErr := os.Getwd()
	if workingDirectoryErr != nil {
		t.Fatalf("failed to get working directory: %v", workingDirectoryErr)
	}

	repositoryRoot := filepath.Dir(workingDirectory)
	temporaryBinaryDirectory := t.TempDir()
	temporaryBinaryPath := filepath.Join(temporaryBinaryDirectory, "spoolerfix")

	buildCommand := exec.Command("go", "build", "-o", temporaryBinaryPath, "./cmd/spoolerfix")
	buildCommand.Dir = repositoryRoot

	commandOutput, buildErr := buildCommand.CombinedOutput()
	if buildErr != nil {
		t.Fatalf("go build failed: %v\n%s", buildErr, string(commandOutput))
	}

	_, binaryStatErr := os.Stat(temporaryBinaryPath)
	if binaryStatErr != nil {
		t.Fatalf("expected binary at %s: %v", temporaryBinaryPath, binaryStatErr)
	}
}

func TestSeedAndShowAgainstTemporaryDatabase(t *testing.T) {
	if testing.Short() {
		t.Skip("builds and runs the binary")
	}

	workingDirectory, workingDirectoryErr := os.Getwd()
	if workingDirectoryErr != nil {
		t.Fatalf("failed to get working directory: %v", workingDirectoryErr)
	}
	repositoryRoot := filepath.Dir(workingDirectory)
	temporaryDirectory := t.TempDir()
	binaryPath := filepath.Join(temporaryDirectory, "spoolerfix")

	buildCommand := exec.Command("go", "build", "-o", binaryPath, "./cmd/spoolerfix")
	buildCommand.Dir = repositoryRoot
	if buildOutput, buildErr := buildCommand.CombinedOutput(); buildErr != nil {
		t.Fatalf("go build failed: %v\n%s", buildErr, string(buildOutput))
	}

	environment := append(os.Environ(),
		"DATABASE_PATH="+filepath.Join(temporaryDirectory, "spool.db"),
		"RANDOM_SEED=99",
		"LOG_LEVEL=INFO",
		"SPOOLER_CONFIG_PATH=",
	)

	seedCommand := exec.Command(binaryPath, "seed", "--emails", "2", "--attachments", "1")
	seedCommand.Dir = temporaryDirectory
	seedCommand.Env = environment
	seedOutput, seedErr := seedCommand.Output()
	if seedErr != nil {
		t.Fatalf("seed failed: %v\n%s", seedErr, commandStderr(seedErr))
	}
	lines := strings.Split(strings.TrimSpace(string(seedOutput)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected summary and two ids on stdout, got %q", string(seedOutput))
	}
	for _, line := range lines[1:] {
		if _, parseErr := uuid.Parse(line); parseErr != nil {
			t.Fatalf("expected an email id per line, got %q", line)
		}
	}

	showCommand := exec.Command(binaryPath, "show", lines[1])
	showCommand.Dir = temporaryDirectory
	showCommand.Env = environment
	showOutput, showErr := showCommand.Output()
	if showErr != nil {
		t.Fatalf("show failed: %v\n%s", showErr, commandStderr(showErr))
	}
	if !strings.Contains(string(showOutput), lines[1]) {
		t.Fatalf("expected show output to include email id, got %s", string(showOutput))
	}
}

func commandStderr(err error) string {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return string(exitErr.Stderr)
	}
	return ""
}
