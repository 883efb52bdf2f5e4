package models

import (
	"path/filepath"
	"strconv"
)

// Workspace - рабочая директория одного запуска.
//
//	<base>/<номер>-<токен>/            Root
//	<base>/<номер>-<токен>/<номер>/    ContentDir, упаковывается в архив
//	<base>/<номер>-<токен>/<номер>.zip ArtifactPath
type Workspace struct {
	Key            string
	DemarcheNumber int
	Root           string
	ContentDir     string
}

func (ws *Workspace) ArtifactName() string {
	return strconv.Itoa(ws.DemarcheNumber) + ".zip"
}

func (ws *Workspace) ArtifactPath() string {
	return filepath.Join(ws.Root, ws.ArtifactName())
}
