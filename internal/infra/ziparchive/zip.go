package ziparchive

import (
	"archive/zip"
	"compress/flate"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/sunr3d/ds-archiver/internal/interfaces/infra"
	"github.com/sunr3d/ds-archiver/models"
)

var _ infra.Packer = (*Assembler)(nil)

type Assembler struct {
	logger *zap.Logger
	level  int
}

func New(log *zap.Logger) *Assembler {
	return &Assembler{
		logger: log,
		level:  flate.BestCompression,
	}
}

// Assemble упаковывает srcDir в dstPath. Имена записей начинаются с имени srcDir.
// Архив сначала пишется во временный файл и переименовывается только после закрытия,
// поэтому по пути dstPath никогда не лежит недописанный архив.
func (a *Assembler) Assemble(ctx context.Context, srcDir, dstPath string) error {
	if err := a.assemble(ctx, srcDir, dstPath); err != nil {
		return &models.PackagingError{Path: dstPath, Cause: err}
	}
	return nil
}

func (a *Assembler) assemble(ctx context.Context, srcDir, dstPath string) (err error) {
	info, err := os.Stat(srcDir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSourceDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s не является директорией", ErrSourceDir, srcDir)
	}

	tmpPath := dstPath + ".tmp"
	zipFile, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFileCreateFailed, err)
	}
	defer func() {
		if err != nil {
			zipFile.Close()
			os.Remove(tmpPath)
		}
	}()

	zipWriter := zip.NewWriter(zipFile)
	zipWriter.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, a.level)
	})

	base := filepath.Base(srcDir)
	entries := 0
	err = filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
		default:
		}

		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(filepath.Join(base, rel))
		if err := a.addEntry(zipWriter, path, name, d); err != nil {
			return err
		}
		entries++
		return nil
	})
	if err != nil {
		return err
	}

	if err = zipWriter.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrZipFinalize, err)
	}
	if err = zipFile.Sync(); err != nil {
		return fmt.Errorf("%w: %v", ErrZipFinalize, err)
	}
	if err = zipFile.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrZipFinalize, err)
	}
	if err = os.Rename(tmpPath, dstPath); err != nil {
		return fmt.Errorf("%w: %v", ErrZipFinalize, err)
	}

	a.logger.Debug("архив собран",
		zap.String("source", srcDir),
		zap.String("archive", dstPath),
		zap.Int("entries", entries),
	)
	return nil
}

func (a *Assembler) addEntry(zw *zip.Writer, path, name string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFileOpenFailed, err)
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFileCreateFailed, err)
	}
	header.Name = name

	if d.IsDir() {
		header.Name += "/"
		header.Method = zip.Store
		_, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrFileCreateFailed, err)
		}
		return nil
	}
	if !info.Mode().IsRegular() {
		return nil
	}

	header.Method = zip.Deflate
	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFileCreateFailed, err)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFileOpenFailed, err)
	}
	defer file.Close()

	if _, err := io.Copy(w, file); err != nil {
		return fmt.Errorf("%w: %v", ErrFileCopyFailed, err)
	}
	return nil
}
