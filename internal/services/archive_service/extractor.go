package archive_service

import (
	"path"
	"strconv"
	"strings"

	"github.com/sunr3d/ds-archiver/models"
)

const (
	attachmentsDir = "pieces_justificatives"
	annotationsDir = "annotations"
	summarySuffix  = "_resume.pdf"
)

// ExtractTasks разворачивает демарш в плоский список загрузок: резюме каждого досье
// и все вложения из champs и annotations на любой глубине. Функция чистая.
func ExtractTasks(d *models.Demarche) []models.AttachmentTask {
	if d == nil {
		return nil
	}

	names := newNameSet()
	tasks := make([]models.AttachmentTask, 0, len(d.Dossiers))
	for _, dossier := range d.Dossiers {
		tasks = append(tasks, extractDossier(dossier, names)...)
	}
	return tasks
}

func extractDossier(d models.Dossier, names nameSet) []models.AttachmentTask {
	dir := strconv.Itoa(d.Number)
	tasks := make([]models.AttachmentTask, 0, 1)

	if d.SummaryURL != "" {
		filename := dir + summarySuffix
		tasks = append(tasks, models.AttachmentTask{
			DossierNumber: d.Number,
			Kind:          models.TaskKindSummary,
			RelPath:       names.claim(dir, filename),
			Filename:      filename,
			URL:           d.SummaryURL,
		})
	}

	tasks = appendFieldTasks(tasks, names, d.Number, path.Join(dir, attachmentsDir), models.TaskKindAttachment, d.Champs)
	tasks = appendFieldTasks(tasks, names, d.Number, path.Join(dir, annotationsDir), models.TaskKindAnnotation, d.Annotations)
	return tasks
}

func appendFieldTasks(tasks []models.AttachmentTask, names nameSet, dossier int, dir string, kind models.TaskKind, fields []models.Field) []models.AttachmentTask {
	var files []models.File
	for _, f := range fields {
		files = f.AppendFiles(files)
	}

	for _, file := range files {
		filename := sanitizeFilename(file.Filename)
		tasks = append(tasks, models.AttachmentTask{
			DossierNumber: dossier,
			Kind:          kind,
			RelPath:       names.claim(dir, filename),
			Filename:      file.Filename,
			URL:           file.URL,
		})
	}
	return tasks
}

// sanitizeFilename оставляет только базовое имя, чтобы имя из API не вышло за пределы папки.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(strings.TrimSpace(name))
	if name == "." || name == ".." || name == "/" || name == "" {
		return "fichier"
	}
	return name
}

// nameSet выдает уникальные пути: при совпадении к имени добавляется " (n)".
type nameSet map[string]struct{}

func newNameSet() nameSet { return make(nameSet) }

func (s nameSet) claim(dir, filename string) string {
	candidate := path.Join(dir, filename)
	if _, taken := s[candidate]; !taken {
		s[candidate] = struct{}{}
		return candidate
	}

	ext := path.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)
	for i := 2; ; i++ {
		candidate = path.Join(dir, stem+" ("+strconv.Itoa(i)+")"+ext)
		if _, taken := s[candidate]; !taken {
			s[candidate] = struct{}{}
			return candidate
		}
	}
}
