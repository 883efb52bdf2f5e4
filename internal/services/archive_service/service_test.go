package archive_service

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/sunr3d/ds-archiver/internal/infra/dsapi"
	"github.com/sunr3d/ds-archiver/internal/infra/httpfetch"
	"github.com/sunr3d/ds-archiver/internal/interfaces/infra"
	"github.com/sunr3d/ds-archiver/mocks"
	"github.com/sunr3d/ds-archiver/models"
)

const testToken = "token"

func twoDossiers(baseURL string) *models.Demarche {
	return &models.Demarche{
		ID:     "RG-1",
		Number: 57091,
		Title:  "Subventions",
		Raw:    []byte(`{"demarche":{"number":57091}}`),
		Dossiers: []models.Dossier{
			{
				Number:     101,
				SummaryURL: baseURL + "/101.pdf",
				Champs:     []models.Field{scalar("nom", "Dupont"), attachmentAt(baseURL, "rib.pdf")},
			},
			{
				Number:     102,
				SummaryURL: baseURL + "/102.pdf",
				Champs:     []models.Field{container(attachmentAt(baseURL, "devis.pdf"))},
			},
		},
	}
}

func attachmentAt(baseURL, name string) models.AttachmentField {
	return models.AttachmentField{Label: "PJ", File: models.File{Filename: name, URL: baseURL + "/" + name}}
}

// keepArtifact копирует архив за пределы рабочей директории, которая будет удалена.
func keepArtifact(t *testing.T, dst string) (func(ctx context.Context, a *models.Artifact) error, *models.Artifact) {
	var got models.Artifact
	return func(ctx context.Context, a *models.Artifact) error {
		got = *a
		src, err := os.Open(a.Path)
		if err != nil {
			return err
		}
		defer src.Close()
		out, err := os.Create(dst)
		if err != nil {
			return err
		}
		defer out.Close()
		_, err = io.Copy(out, src)
		return err
	}, &got
}

func zipEntries(t *testing.T, path string) map[string]string {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	entries := make(map[string]string)
	for _, f := range r.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		entries[f.Name] = string(data)
	}
	return entries
}

func assertWorkspaceGone(t *testing.T, env *testEnv) {
	t.Helper()
	entries, err := os.ReadDir(env.baseDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "рабочая директория должна быть удалена")
	_, err = os.Stat(env.workspaces.lastWorkspace().Root)
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, int32(1), env.workspaces.released.Load(), "release вызывается ровно один раз")
}

func TestArchiveService_BuildArchive_AllSucceeded(t *testing.T) {
	client := mocks.NewDemarcheClient(t)
	client.On("FetchDemarche", mock.Anything, 57091, testToken).Return(twoDossiers("https://files.example"), nil)
	fetcher := &fakeFetcher{delay: 5 * time.Millisecond}
	env := newTestEnv(t, client, fetcher)

	zipPath := filepath.Join(t.TempDir(), "out.zip")
	deliver, artifact := keepArtifact(t, zipPath)

	run, err := env.svc.BuildArchive(context.Background(), models.BuildRequest{Number: 57091, Token: testToken}, deliver)

	require.NoError(t, err)
	assert.Equal(t, models.RunStateDone, run.State)
	assert.Equal(t, models.FailureNone, run.Failure)
	assert.Equal(t, models.DownloadStatusAllSucceeded, run.DownloadStatus)
	assert.Len(t, run.Files, 4)
	assert.Empty(t, run.Errors)
	assert.Equal(t, "57091.zip", artifact.Name)
	assert.Equal(t, run.ID, artifact.RunID)

	entries := zipEntries(t, zipPath)
	assert.Len(t, entries, 5)
	assert.Contains(t, entries, "57091/57091.json")
	assert.Contains(t, entries, "57091/101/101_resume.pdf")
	assert.Contains(t, entries, "57091/101/pieces_justificatives/rib.pdf")
	assert.Contains(t, entries, "57091/102/102_resume.pdf")
	assert.Contains(t, entries, "57091/102/pieces_justificatives/devis.pdf")
	assert.Equal(t, "content of https://files.example/rib.pdf", entries["57091/101/pieces_justificatives/rib.pdf"])

	assert.Equal(t, int32(1), env.packer.calls.Load())
	assert.Equal(t, int32(0), env.packer.inFlightAtPackage, "упаковка только после завершения всех загрузок")
	assert.Equal(t, int32(4), env.packer.completedAtStart)
	assertWorkspaceGone(t, env)

	stored, err := env.svc.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RunStateDone, stored.State)
}

func TestArchiveService_BuildArchive_Unauthorized(t *testing.T) {
	client := mocks.NewDemarcheClient(t)
	client.On("FetchDemarche", mock.Anything, 57091, testToken).
		Return(nil, dsapi.ErrUnauthorized)
	env := newTestEnv(t, client, &fakeFetcher{})
	delivered := false

	run, err := env.svc.BuildArchive(context.Background(), models.BuildRequest{Number: 57091, Token: testToken},
		func(ctx context.Context, a *models.Artifact) error {
			delivered = true
			return nil
		})

	assert.ErrorIs(t, err, ErrUnauthorized)
	require.NotNil(t, run)
	assert.Equal(t, models.RunStateFailed, run.State)
	assert.Equal(t, models.FailureUnauthorized, run.Failure)
	assert.False(t, delivered)
	assert.Equal(t, int32(0), env.workspaces.prepared.Load(), "директории не создаются")
	assert.Equal(t, int32(0), env.packer.calls.Load())
	assertWorkspaceGone(t, env)
}

func TestArchiveService_BuildArchive_UpstreamClassification(t *testing.T) {
	tests := []struct {
		name     string
		upstream error
		want     error
		kind     models.FailureKind
	}{
		{"not found", dsapi.ErrNotFound, ErrNotFound, models.FailureNotFound},
		{"unknown", dsapi.ErrUnknown, ErrUnknown, models.FailureUnknown},
		{"unclassified", errors.New("EOF"), ErrUnknown, models.FailureUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := mocks.NewDemarcheClient(t)
			client.On("FetchDemarche", mock.Anything, 1, testToken).Return(nil, tt.upstream)
			env := newTestEnv(t, client, &fakeFetcher{})

			run, err := env.svc.BuildArchive(context.Background(), models.BuildRequest{Number: 1, Token: testToken}, nil)

			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.kind, run.Failure)
			assertWorkspaceGone(t, env)
		})
	}
}

func TestArchiveService_BuildArchive_NilDemarche(t *testing.T) {
	client := mocks.NewDemarcheClient(t)
	client.On("FetchDemarche", mock.Anything, 1, testToken).Return(nil, nil)
	env := newTestEnv(t, client, &fakeFetcher{})

	run, err := env.svc.BuildArchive(context.Background(), models.BuildRequest{Number: 1, Token: testToken}, nil)

	assert.ErrorIs(t, err, ErrUnknown)
	assert.Equal(t, models.FailureUnknown, run.Failure)
	assertWorkspaceGone(t, env)
}

func TestArchiveService_BuildArchive_PartialFailure(t *testing.T) {
	base := "https://files.example"
	d := &models.Demarche{
		Number: 9,
		Dossiers: []models.Dossier{{
			Number: 1,
			Champs: []models.Field{
				attachmentAt(base, "a.pdf"),
				attachmentAt(base, "b.pdf"),
				attachmentAt(base, "c.pdf"),
			},
		}},
	}
	client := mocks.NewDemarcheClient(t)
	client.On("FetchDemarche", mock.Anything, 9, testToken).Return(d, nil)
	fetcher := &fakeFetcher{fail: map[string]error{base + "/b.pdf": errors.New("connection refused")}}
	env := newTestEnv(t, client, fetcher)
	zipPath := filepath.Join(t.TempDir(), "out.zip")
	deliver, artifact := keepArtifact(t, zipPath)

	run, err := env.svc.BuildArchive(context.Background(), models.BuildRequest{Number: 9, Token: testToken}, deliver)

	require.NoError(t, err)
	assert.Equal(t, models.RunStateDone, run.State)
	assert.Equal(t, models.DownloadStatusPartialFailure, run.DownloadStatus)
	assert.Equal(t, models.DownloadStatusPartialFailure, artifact.DownloadStatus)
	assert.Len(t, run.Files, 2)
	require.Len(t, run.Errors, 1)
	assert.Contains(t, run.Errors[0], "connection refused")

	entries := zipEntries(t, zipPath)
	assert.Contains(t, entries, "9/1/pieces_justificatives/a.pdf")
	assert.Contains(t, entries, "9/1/pieces_justificatives/c.pdf")
	assert.NotContains(t, entries, "9/1/pieces_justificatives/b.pdf")
	assert.Contains(t, entries["9/download_errors.json"], "b.pdf")
	assertWorkspaceGone(t, env)
}

func TestArchiveService_BuildArchive_TotalFailureStillPackaged(t *testing.T) {
	base := "https://files.example"
	d := &models.Demarche{Number: 9, Dossiers: []models.Dossier{{Number: 1, Champs: []models.Field{attachmentAt(base, "a.pdf")}}}}
	client := mocks.NewDemarcheClient(t)
	client.On("FetchDemarche", mock.Anything, 9, testToken).Return(d, nil)
	env := newTestEnv(t, client, &fakeFetcher{fail: map[string]error{base + "/a.pdf": errors.New("404")}})
	zipPath := filepath.Join(t.TempDir(), "out.zip")
	deliver, _ := keepArtifact(t, zipPath)

	run, err := env.svc.BuildArchive(context.Background(), models.BuildRequest{Number: 9, Token: testToken}, deliver)

	require.NoError(t, err)
	assert.Equal(t, models.DownloadStatusTotalFailure, run.DownloadStatus)
	entries := zipEntries(t, zipPath)
	assert.Contains(t, entries, "9/9.json")
	assert.Contains(t, entries, "9/download_errors.json")
	assertWorkspaceGone(t, env)
}

func TestArchiveService_BuildArchive_PackagingFailure(t *testing.T) {
	client := mocks.NewDemarcheClient(t)
	client.On("FetchDemarche", mock.Anything, 57091, testToken).Return(twoDossiers("https://files.example"), nil)
	env := newTestEnv(t, client, &fakeFetcher{})
	env.packer.err = &models.PackagingError{Path: "x.zip", Cause: errors.New("no space left on device")}
	delivered := false

	run, err := env.svc.BuildArchive(context.Background(), models.BuildRequest{Number: 57091, Token: testToken},
		func(ctx context.Context, a *models.Artifact) error {
			delivered = true
			return nil
		})

	assert.ErrorIs(t, err, ErrArchiveBuild)
	assert.Equal(t, models.RunStateFailed, run.State)
	assert.Equal(t, models.FailurePackaging, run.Failure)
	assert.False(t, delivered, "частичный архив не передается")
	assert.Equal(t, int32(1), env.packer.calls.Load())
	assertWorkspaceGone(t, env)
}

func TestArchiveService_BuildArchive_TransmitFailure(t *testing.T) {
	client := mocks.NewDemarcheClient(t)
	client.On("FetchDemarche", mock.Anything, 57091, testToken).Return(twoDossiers("https://files.example"), nil)
	env := newTestEnv(t, client, &fakeFetcher{})

	run, err := env.svc.BuildArchive(context.Background(), models.BuildRequest{Number: 57091, Token: testToken},
		func(ctx context.Context, a *models.Artifact) error {
			return errors.New("broken pipe")
		})

	assert.ErrorIs(t, err, ErrTransmitFailed)
	assert.Equal(t, models.FailureTransmit, run.Failure)
	assertWorkspaceGone(t, env)
}

func TestArchiveService_BuildArchive_CallerGone(t *testing.T) {
	client := mocks.NewDemarcheClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	client.On("FetchDemarche", mock.Anything, 57091, testToken).
		Return(func(context.Context, int, string) (*models.Demarche, error) {
			cancel()
			return twoDossiers("https://files.example"), nil
		})
	env := newTestEnv(t, client, &fakeFetcher{delay: time.Second})

	run, err := env.svc.BuildArchive(ctx, models.BuildRequest{Number: 57091, Token: testToken}, nil)

	assert.ErrorIs(t, err, ErrContextDone)
	assert.Equal(t, models.RunStateFailed, run.State)
	assert.Equal(t, models.FailureTransmit, run.Failure)
	assert.Equal(t, int32(0), env.packer.calls.Load())
	assertWorkspaceGone(t, env)
}

func TestArchiveService_BuildArchive_Validation(t *testing.T) {
	env := newTestEnv(t, mocks.NewDemarcheClient(t), &fakeFetcher{})

	_, err := env.svc.BuildArchive(context.Background(), models.BuildRequest{Number: 0, Token: testToken}, nil)
	assert.ErrorIs(t, err, ErrInvalidNumber)

	_, err = env.svc.BuildArchive(context.Background(), models.BuildRequest{Number: 1, Token: "  "}, nil)
	assert.ErrorIs(t, err, ErrTokenMissing)

	assert.Equal(t, int32(0), env.workspaces.released.Load())
}

func TestArchiveService_BuildArchive_ServerBusy(t *testing.T) {
	env := newTestEnv(t, mocks.NewDemarcheClient(t), &fakeFetcher{})
	ctx := context.Background()

	for i := 0; i < env.svc.cfg.MaxRunsInProcess; i++ {
		err := env.svc.repo.SaveRun(ctx, &models.Run{
			ID:        "busy-" + string(rune('a'+i)),
			State:     models.RunStateDownload,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		})
		require.NoError(t, err)
	}

	_, err := env.svc.BuildArchive(ctx, models.BuildRequest{Number: 1, Token: testToken}, nil)

	assert.Equal(t, ErrServerBusy, err)
}

func TestArchiveService_BuildArchive_EndToEndOverHTTP(t *testing.T) {
	files := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("bytes of " + r.URL.Path))
	}))
	defer files.Close()
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	d := &models.Demarche{
		Number: 5,
		Dossiers: []models.Dossier{{
			Number:     1,
			SummaryURL: files.URL + "/1.pdf",
			Champs: []models.Field{
				attachmentAt(files.URL, "a.pdf"),
				attachmentAt(files.URL, "b.pdf"),
				attachmentAt(deadURL, "c.pdf"),
			},
		}},
	}
	client := mocks.NewDemarcheClient(t)
	client.On("FetchDemarche", mock.Anything, 5, testToken).Return(d, nil)
	env := newTestEnv(t, client, httpfetch.New(zaptest.NewLogger(t), httpfetch.Options{}))
	zipPath := filepath.Join(t.TempDir(), "out.zip")
	deliver, _ := keepArtifact(t, zipPath)

	run, err := env.svc.BuildArchive(context.Background(), models.BuildRequest{Number: 5, Token: testToken}, deliver)

	require.NoError(t, err)
	assert.Equal(t, models.DownloadStatusPartialFailure, run.DownloadStatus)
	entries := zipEntries(t, zipPath)
	assert.Equal(t, "bytes of /a.pdf", entries["5/1/pieces_justificatives/a.pdf"])
	assert.Equal(t, "bytes of /b.pdf", entries["5/1/pieces_justificatives/b.pdf"])
	assert.Equal(t, "bytes of /1.pdf", entries["5/1/1_resume.pdf"])
	assert.NotContains(t, entries, "5/1/pieces_justificatives/c.pdf")
	assertWorkspaceGone(t, env)
}

func TestArchiveService_CheckDemarche(t *testing.T) {
	client := mocks.NewDemarcheClient(t)
	client.On("FetchSummary", mock.Anything, 57091, testToken).
		Return(&models.DemarcheSummary{Number: 57091, Title: "Subventions", DossierCount: 12}, nil)
	client.On("FetchSummary", mock.Anything, 404, testToken).Return(nil, dsapi.ErrNotFound)
	env := newTestEnv(t, client, &fakeFetcher{})

	s, err := env.svc.CheckDemarche(context.Background(), models.BuildRequest{Number: 57091, Token: testToken})
	require.NoError(t, err)
	assert.Equal(t, 12, s.DossierCount)

	_, err = env.svc.CheckDemarche(context.Background(), models.BuildRequest{Number: 404, Token: testToken})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestArchiveService_GetRun_NotFound(t *testing.T) {
	env := newTestEnv(t, mocks.NewDemarcheClient(t), &fakeFetcher{})

	_, err := env.svc.GetRun(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrRunGet)
}

func TestArchiveService_BuildArchive_RegistryLimit(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"limit reached", fmt.Errorf("%w: 3/3", infra.ErrRunLimitReached), ErrServerBusy},
		{"registry failure", errors.New("registry unavailable"), ErrRunSave},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewDatabase(t)
			repo.On("RegisterRun", mock.Anything, mock.AnythingOfType("*models.Run"), 3).Return(tt.err).Once()
			svc := newServiceWith(t, Deps{
				Repo:       repo,
				Client:     mocks.NewDemarcheClient(t),
				Workspaces: mocks.NewWorkspaces(t),
				Packer:     mocks.NewPacker(t),
			})

			run, err := svc.BuildArchive(context.Background(), models.BuildRequest{Number: 1, Token: testToken}, nil)

			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, run)
		})
	}
}

func TestArchiveService_BuildArchive_ConcurrentLimit(t *testing.T) {
	client := mocks.NewDemarcheClient(t)
	release := make(chan struct{})
	client.On("FetchDemarche", mock.Anything, 1, testToken).
		Return(func(context.Context, int, string) (*models.Demarche, error) {
			<-release
			return &models.Demarche{Number: 1}, nil
		}).Maybe()
	svc := newServiceWith(t, Deps{Client: client})

	const callers = 12
	var (
		wg   sync.WaitGroup
		busy atomic.Int32
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.BuildArchive(context.Background(), models.BuildRequest{Number: 1, Token: testToken}, nil)
			if errors.Is(err, ErrServerBusy) {
				busy.Add(1)
			}
		}()
	}

	require.Eventually(t, func() bool {
		return busy.Load() == int32(callers-svc.cfg.MaxRunsInProcess)
	}, 5*time.Second, 10*time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(callers-svc.cfg.MaxRunsInProcess), busy.Load())
}

func TestArchiveService_BuildArchive_PrepareFailureReleasesOnce(t *testing.T) {
	client := mocks.NewDemarcheClient(t)
	client.On("FetchDemarche", mock.Anything, 1, testToken).Return(&models.Demarche{Number: 1}, nil)

	ws := &models.Workspace{Key: "1-test", DemarcheNumber: 1, Root: t.TempDir()}
	ws.ContentDir = filepath.Join(ws.Root, "1")
	workspaces := mocks.NewWorkspaces(t)
	workspaces.On("Allocate", 1).Return(ws).Once()
	workspaces.On("Prepare", mock.Anything, ws).Return(errors.New("read-only file system")).Once()
	workspaces.On("Release", ws).Return(nil).Once()

	svc := newServiceWith(t, Deps{
		Client:     client,
		Workspaces: workspaces,
		Packer:     mocks.NewPacker(t),
		Fetcher:    mocks.NewFileFetcher(t),
	})

	run, err := svc.BuildArchive(context.Background(), models.BuildRequest{Number: 1, Token: testToken}, nil)

	assert.ErrorIs(t, err, ErrWorkspace)
	assert.Equal(t, models.RunStateFailed, run.State)
	assert.Equal(t, models.FailureUnknown, run.Failure)
}

func TestArchiveService_BuildArchive_PackerReceivesWorkspacePaths(t *testing.T) {
	client := mocks.NewDemarcheClient(t)
	client.On("FetchDemarche", mock.Anything, 57091, testToken).Return(twoDossiers("https://files.example"), nil)

	packer := mocks.NewPacker(t)
	packer.On("Assemble",
		mock.Anything,
		mock.MatchedBy(func(src string) bool { return filepath.Base(src) == "57091" }),
		mock.MatchedBy(func(dst string) bool { return filepath.Base(dst) == "57091.zip" }),
	).Return(&models.PackagingError{Path: "57091.zip", Cause: errors.New("no space left on device")}).Once()

	svc := newServiceWith(t, Deps{Client: client, Packer: packer})

	run, err := svc.BuildArchive(context.Background(), models.BuildRequest{Number: 57091, Token: testToken}, nil)

	assert.ErrorIs(t, err, ErrArchiveBuild)
	assert.Equal(t, models.FailurePackaging, run.Failure)
	entries, err := os.ReadDir(svc.cfg.TempDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
