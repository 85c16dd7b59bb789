//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/meigma/upack"
)

// --- Registry Container Setup ---

var (
	registryOnce sync.Once
	registryAddr string
	registryErr  error
)

// getRegistry returns the shared registry address, starting the container if needed.
// The container is shared across all tests for performance.
func getRegistry(tb testing.TB) string {
	tb.Helper()

	if os.Getenv("SKIP_DOCKER_TESTS") == "1" {
		tb.Skip("SKIP_DOCKER_TESTS is set")
	}

	registryOnce.Do(func() {
		ctx := context.Background()
		registryAddr, registryErr = startRegistryContainer(ctx)
	})

	if registryErr != nil {
		tb.Fatalf("start registry container: %v", registryErr)
	}

	return registryAddr
}

// startRegistryContainer starts a registry:2 container and returns the host:port address.
func startRegistryContainer(ctx context.Context) (string, error) {
	req := testcontainers.ContainerRequest{
		Image:        "registry:2",
		ExposedPorts: []string{"5000/tcp"},
		WaitingFor:   wait.ForHTTP("/v2/").WithPort("5000/tcp").WithStatusCodeMatcher(isOKStatus),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", fmt.Errorf("start registry container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve registry host: %w", err)
	}

	port, err := container.MappedPort(ctx, "5000/tcp")
	if err != nil {
		return "", fmt.Errorf("resolve registry port: %w", err)
	}

	return fmt.Sprintf("%s:%s", host, port.Port()), nil
}

func isOKStatus(status int) bool {
	return status >= 200 && status < 300
}

// --- Test Client Factory ---

// newTestClient creates a client configured for the local test registry.
func newTestClient(tb testing.TB, opts ...upack.ClientOption) *upack.Client {
	tb.Helper()

	allOpts := append([]upack.ClientOption{upack.WithPlainHTTP(true)}, opts...)

	client, err := upack.NewClient(allOpts...)
	require.NoError(tb, err, "create test client")

	return client
}

// --- Test Reference Helpers ---

// testRef generates a unique reference for a test to avoid collisions.
func testRef(registryAddr, testName string) string {
	return fmt.Sprintf("%s/test/%s:latest", registryAddr, strings.ToLower(testName))
}

// testRefWithTag generates a reference with a specific tag.
func testRefWithTag(registryAddr, testName, tag string) string {
	return fmt.Sprintf("%s/test/%s:%s", registryAddr, strings.ToLower(testName), tag)
}

// --- Test Fixtures ---

const (
	guidScene    = "11111111111111111111111111111111"
	guidPrefab   = "22222222222222222222222222222222"
	guidMaterial = "33333333333333333333333333333333"
	guidTexture  = "44444444444444444444444444444444"
)

// metaFor builds a minimal metadata sidecar declaring guid.
func metaFor(guid string) string {
	return "fileFormatVersion: 2\nguid: " + guid + "\n"
}

// refLine builds an asset body line referencing guid.
func refLine(fileID int, guid string) string {
	return fmt.Sprintf("  m_Target: {fileID: %d, guid: %s, type: 2}\n", fileID, guid)
}

// writeProject writes a project tree where a scene pulls in a prefab,
// the prefab pulls in a material, and the material pulls in a texture.
func writeProject(tb testing.TB) string {
	tb.Helper()

	files := map[string]string{
		"Assets/Scenes/Main.scene":          "Scene:\n" + refLine(100, guidPrefab),
		"Assets/Scenes/Main.scene.meta":     metaFor(guidScene),
		"Assets/Prefabs/Player.prefab":      "Prefab:\n" + refLine(200, guidMaterial),
		"Assets/Prefabs/Player.prefab.meta": metaFor(guidPrefab),
		"Assets/Materials/Player.mat":       "Material:\n" + refLine(300, guidTexture),
		"Assets/Materials/Player.mat.meta":  metaFor(guidMaterial),
		"Assets/Textures/player.png":        string([]byte{0x89, 'P', 'N', 'G', 0x00, 0x01, 0x02}),
		"Assets/Textures/player.png.meta":   metaFor(guidTexture),
	}

	root := tb.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(tb, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(tb, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}
