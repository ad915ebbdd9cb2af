package dash_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/datadash-io/datadash/pkg/dashsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for datadash end-to-end tests.
 * This includes container setup, service operations, and assertions.
 */

const (
	testImageName = "datadash-test:latest"

	adminEmail    = "admin@example.com"
	adminPassword = "Admin123!"
)

// TestMain builds the Docker image once before all tests and cleans it up
// after all tests complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building datadash Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up datadash Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/datadash/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // Image might not exist
}

// setupContainer starts the service in a container and returns the base URL.
// The container seeds an admin account and runs with generous rate limits so
// rapid test requests do not trip the production defaults.
func setupContainer(t *testing.T) (string, func()) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env: map[string]string{
			"DASH_DATABASE_FILE":  "/tmp/datadash.db",
			"DASH_UPLOAD_DIR":     "/tmp/uploads",
			"DASH_ISSUER":         "datadash-e2e",
			"DASH_ADMIN_EMAIL":    adminEmail,
			"DASH_ADMIN_PASSWORD": adminPassword,
			"ENV":                 "test",
			"LOG_LEVEL":           "info",
			"LOG_FORMAT":          "json",
			// Relaxed limits; tests make many rapid requests that would
			// otherwise hit the strict production defaults.
			"RATELIMIT_STRICT_REQUESTS":   "1000",
			"RATELIMIT_STRICT_BURST":      "1000",
			"RATELIMIT_MODERATE_REQUESTS": "1000",
			"RATELIMIT_MODERATE_BURST":    "1000",
		},
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%s", host, mappedPort.Port())

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return baseURL, cleanup
}

// adminSession logs in as the seeded admin.
func adminSession(t *testing.T, client *dashsdk.SDKClient) *dashsdk.Session {
	t.Helper()

	session, err := client.Login(t.Context(), adminEmail, adminPassword)
	require.NoError(t, err)
	require.Equal(t, "admin", session.User.Role)
	return session
}

// signupAndLogin registers a fresh user and returns its session.
func signupAndLogin(t *testing.T, client *dashsdk.SDKClient, email, password string) *dashsdk.Session {
	t.Helper()

	require.NoError(t, client.Signup(t.Context(), email, password))
	session, err := client.Login(t.Context(), email, password)
	require.NoError(t, err)
	return session
}

// assertAPIError checks that err is an APIError with the given status.
func assertAPIError(t *testing.T, err error, statusCode int) {
	t.Helper()

	require.Error(t, err)
	apiErr, ok := err.(*dashsdk.APIError)
	require.True(t, ok, "expected APIError, got: %v", err)
	require.Equal(t, statusCode, apiErr.StatusCode)
}
