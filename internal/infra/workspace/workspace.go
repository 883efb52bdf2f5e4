package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sunr3d/ds-archiver/internal/interfaces/infra"
	"github.com/sunr3d/ds-archiver/models"
)

var _ infra.Workspaces = (*Manager)(nil)

const dirPerm = 0o755

type Manager struct {
	baseDir string
	logger  *zap.Logger
}

func New(baseDir string, log *zap.Logger) *Manager {
	return &Manager{
		baseDir: baseDir,
		logger:  log,
	}
}

// Allocate выделяет рабочую директорию без обращения к диску. Токен запуска делает
// путь уникальным даже для одновременных запросов по одному и тому же демаршу.
func (m *Manager) Allocate(demarcheNumber int) *models.Workspace {
	number := strconv.Itoa(demarcheNumber)
	key := number + "-" + uuid.New().String()
	root := filepath.Join(m.baseDir, key)
	return &models.Workspace{
		Key:            key,
		DemarcheNumber: demarcheNumber,
		Root:           root,
		ContentDir:     filepath.Join(root, number),
	}
}

// Prepare создает директории рабочего пространства. Повторный вызов не является ошибкой.
func (m *Manager) Prepare(ctx context.Context, ws *models.Workspace) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	if ws == nil {
		return ErrNilWorkspace
	}

	if err := os.MkdirAll(ws.ContentDir, dirPerm); err != nil {
		return fmt.Errorf("%w: %v", ErrMkdirFailed, err)
	}

	m.logger.Debug("рабочая директория создана",
		zap.String("workspace", ws.Root),
		zap.Int("demarche", ws.DemarcheNumber),
	)
	return nil
}

// Release рекурсивно удаляет рабочую директорию вместе с архивом.
// Для директории, которая так и не была создана, это no-op.
func (m *Manager) Release(ws *models.Workspace) error {
	if ws == nil {
		return ErrNilWorkspace
	}

	if err := os.RemoveAll(ws.Root); err != nil {
		return fmt.Errorf("%w: %v", ErrRemoveFailed, err)
	}

	m.logger.Debug("рабочая директория удалена", zap.String("workspace", ws.Root))
	return nil
}

// Path возвращает абсолютный путь для rel внутри ContentDir и создает родительские директории.
func (m *Manager) Path(ws *models.Workspace, rel string) (string, error) {
	if ws == nil {
		return "", ErrNilWorkspace
	}

	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == "." || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, rel)
	}

	full := filepath.Join(ws.ContentDir, clean)
	if err := os.MkdirAll(filepath.Dir(full), dirPerm); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMkdirFailed, err)
	}
	return full, nil
}
