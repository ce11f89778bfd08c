//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cloo-solutions/chavis/internal/api/handlers"
	"github.com/cloo-solutions/chavis/internal/domain"
	"github.com/cloo-solutions/chavis/internal/repository"
	"github.com/cloo-solutions/chavis/internal/server"
	"github.com/cloo-solutions/chavis/internal/service"
	"github.com/cloo-solutions/chavis/internal/storage"
	"github.com/cloo-solutions/chavis/internal/testutil"
	"github.com/cloo-solutions/chavis/internal/vectorindex"
	"github.com/jackc/pgx/v5/pgxpool"
)

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	T            *testing.T
	Ctx          context.Context
	PostgresC    *testutil.PostgresContainer
	RustFSC      *testutil.RustFSContainer
	Pool         *pgxpool.Pool
	ServerURL    string
	ServerCloser func()
	Generator    *scriptedGenerator
	BinaryDir    string
	HTTPClient   *http.Client
}

// letterEmbedder embeds text as ASCII letter counts padded to the pgvector width.
type letterEmbedder struct{}

func (letterEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, 1536)
	vec[26] = 1
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' {
			vec[r-'a']++
		}
	}
	return vec, nil
}

// scriptedGenerator echoes the grounding context unless told to fail.
type scriptedGenerator struct {
	fail atomic.Bool
}

func (g *scriptedGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	if g.fail.Load() {
		return "", fmt.Errorf("model server unreachable")
	}
	return "generated: " + user, nil
}

// SetupE2EEnv starts Postgres with pgvector and serves the Postgres-backed stack.
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	pgC := testutil.NewPostgresContainer(ctx, t)
	pool := testutil.NewTestPool(ctx, t, pgC, "../../migrations")

	gen := &scriptedGenerator{}
	index := vectorindex.NewPGVector(pool, letterEmbedder{})
	serverURL, serverCloser := startServer(t,
		repository.NewKnowledgeRepository(pool),
		repository.NewUnansweredRepository(pool),
		index, gen)

	return &E2ETestEnv{
		T:            t,
		Ctx:          ctx,
		PostgresC:    pgC,
		Pool:         pool,
		ServerURL:    serverURL,
		ServerCloser: serverCloser,
		Generator:    gen,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// SetupS3Env starts RustFS and serves the blob-backed stack with the memory index.
func SetupS3Env(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	s3C := testutil.NewRustFSContainer(ctx, t)

	s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
		Endpoint:        s3C.Endpoint(),
		Region:          "us-east-1",
		AccessKeyID:     testutil.RustFSAccessKey,
		SecretAccessKey: testutil.RustFSSecretKey,
		Bucket:          "chavis-e2e",
		Prefix:          "office",
		UsePathStyle:    true,
	})
	if err != nil {
		t.Fatalf("failed to create S3 client: %v", err)
	}
	if err := s3Client.EnsureBucket(ctx); err != nil {
		t.Fatalf("failed to create bucket: %v", err)
	}

	gen := &scriptedGenerator{}
	serverURL, serverCloser := startServer(t,
		repository.NewBlobKnowledgeRepository(s3Client),
		repository.NewBlobUnansweredRepository(s3Client),
		vectorindex.NewMemory(letterEmbedder{}), gen)

	return &E2ETestEnv{
		T:            t,
		Ctx:          ctx,
		RustFSC:      s3C,
		ServerURL:    serverURL,
		ServerCloser: serverCloser,
		Generator:    gen,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	if e.ServerCloser != nil {
		e.ServerCloser()
	}
	if e.Pool != nil {
		e.Pool.Close()
	}
	if e.RustFSC != nil {
		e.RustFSC.Terminate(e.Ctx)
	}
	if e.PostgresC != nil {
		e.PostgresC.Terminate(e.Ctx)
	}
	if e.BinaryDir != "" {
		os.RemoveAll(e.BinaryDir)
	}
}

// BuildBinaries builds the chavis client binary
func (e *E2ETestEnv) BuildBinaries() {
	tmpDir, err := os.MkdirTemp("", "chavis-e2e-*")
	if err != nil {
		e.T.Fatalf("failed to create temp dir: %v", err)
	}
	e.BinaryDir = tmpDir

	cmd := exec.Command("go", "build", "-o", filepath.Join(tmpDir, "chavis"), "./cmd/chavis")
	cmd.Dir = "../.."
	if out, err := cmd.CombinedOutput(); err != nil {
		e.T.Fatalf("failed to build chavis: %v\n%s", err, out)
	}
}

// RunChavis runs the chavis CLI against the test server
func (e *E2ETestEnv) RunChavis(input string, args ...string) (string, error) {
	cmd := exec.Command(filepath.Join(e.BinaryDir, "chavis"), args...)
	cmd.Dir = e.BinaryDir
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}
	cmd.Env = append(os.Environ(), fmt.Sprintf("CHAVIS_API_URL=%s", e.ServerURL))
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// Do performs a JSON request and decodes a successful body into out.
// It returns the status code so tests can assert on error responses.
func (e *E2ETestEnv) Do(method, path string, body, out interface{}) (int, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, e.ServerURL+path, reqBody)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, err
	}

	if resp.StatusCode >= 400 || out == nil {
		return resp.StatusCode, nil
	}
	return resp.StatusCode, json.Unmarshal(respBody, out)
}

func startServer(t *testing.T, knowledgeRepo service.KnowledgeRepositoryInterface, unansweredRepo service.UnansweredRepositoryInterface, index service.VectorIndex, gen service.TextGenerator) (string, func()) {
	port, err := getFreePort()
	if err != nil {
		t.Fatalf("failed to get free port: %v", err)
	}

	knowledgeSvc := service.NewKnowledgeService(knowledgeRepo, index)
	unansweredSvc := service.NewUnansweredService(unansweredRepo)
	cascade := service.NewCascade(
		service.NewExactMatchResolver(knowledgeRepo),
		service.NewRAGResolver(index, gen, domain.DefaultRefusalMessage),
		unansweredSvc,
		domain.DefaultRefusalMessage,
	)

	router := server.NewRouter(server.RouterConfig{
		ChatHandler:       handlers.NewChatHandler(cascade),
		KnowledgeHandler:  handlers.NewKnowledgeHandler(knowledgeSvc),
		UnansweredHandler: handlers.NewUnansweredHandler(unansweredSvc),
		AdminHandler:      handlers.NewAdminHandler(service.NewProjectionService(knowledgeRepo, index)),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := fmt.Sprintf("http://localhost:%d", port)
	waitForServer(t, serverURL, 10*time.Second)

	return serverURL, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
}

func waitForServer(t *testing.T, url string, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("server did not start within %v", timeout)
}

func getFreePort() (int, error) {
	l, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
