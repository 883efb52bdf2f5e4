package dsapi

import (
	"encoding/json"
	"strconv"

	"github.com/sunr3d/ds-archiver/models"
)

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type gqlError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

type gqlResponse struct {
	Data   *responseData `json:"data"`
	Errors []gqlError    `json:"errors"`
}

type responseData struct {
	Demarche *wireDemarche `json:"demarche"`
}

type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type wireDemarche struct {
	ID       string `json:"id"`
	Number   int    `json:"number"`
	Title    string `json:"title"`
	Dossiers struct {
		PageInfo pageInfo          `json:"pageInfo"`
		Nodes    []json.RawMessage `json:"nodes"`
	} `json:"dossiers"`
}

type wireDossier struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
	State  string `json:"state"`
	PDF    *struct {
		URL string `json:"url"`
	} `json:"pdf"`
	Champs      []wireChamp `json:"champs"`
	Annotations []wireChamp `json:"annotations"`
}

type wireRow struct {
	Champs []wireChamp `json:"champs"`
}

type wireChamp struct {
	ID          string      `json:"id"`
	Label       string      `json:"label"`
	StringValue *string     `json:"stringValue"`
	File        *wireFile   `json:"file"`
	Files       []wireFile  `json:"files"`
	Champs      []wireChamp `json:"champs"`
	Rows        []wireRow   `json:"rows"`
}

type wireFile struct {
	Filename       string          `json:"filename"`
	ContentType    string          `json:"contentType"`
	Checksum       string          `json:"checksum"`
	ByteSizeBigInt json.RawMessage `json:"byteSizeBigInt"`
	URL            string          `json:"url"`
}

// rawRecord - структура файла метаданных в архиве: узлы досье сохраняются байт в байт.
type rawRecord struct {
	Demarche rawDemarche `json:"demarche"`
}

type rawDemarche struct {
	ID       string `json:"id"`
	Number   int    `json:"number"`
	Title    string `json:"title"`
	Dossiers struct {
		Nodes []json.RawMessage `json:"nodes"`
	} `json:"dossiers"`
}

func (f wireFile) toModel() models.File {
	return models.File{
		Filename:    f.Filename,
		ContentType: f.ContentType,
		Checksum:    f.Checksum,
		ByteSize:    parseByteSize(f.ByteSizeBigInt),
		URL:         f.URL,
	}
}

// byteSizeBigInt приходит строкой, но старые версии API отдавали число.
func parseByteSize(raw json.RawMessage) int64 {
	if len(raw) == 0 {
		return 0
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		n, _ := strconv.ParseInt(s, 10, 64)
		return n
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	return 0
}

func (c wireChamp) ownFiles() []models.File {
	files := make([]models.File, 0, 1+len(c.Files))
	if c.File != nil && c.File.URL != "" {
		files = append(files, c.File.toModel())
	}
	for _, f := range c.Files {
		if f.URL != "" {
			files = append(files, f.toModel())
		}
	}
	return files
}

// toField сводит champ API к одному из вариантов models.Field.
// Если у champ есть и файл, и вложенные champs, файл становится первым потомком контейнера.
func (c wireChamp) toField() models.Field {
	files := c.ownFiles()

	children := make([]models.Field, 0, len(files)+len(c.Champs)+len(c.Rows))
	for _, f := range files {
		children = append(children, models.AttachmentField{ID: c.ID, Label: c.Label, File: f})
	}
	for _, child := range c.Champs {
		children = append(children, child.toField())
	}
	for i, row := range c.Rows {
		children = append(children, models.ContainerField{
			ID:       c.ID + "/" + strconv.Itoa(i),
			Label:    c.Label,
			Children: toFields(row.Champs),
		})
	}

	hasNested := len(c.Champs) > 0 || len(c.Rows) > 0
	switch {
	case !hasNested && len(files) == 0:
		value := ""
		if c.StringValue != nil {
			value = *c.StringValue
		}
		return models.ScalarField{ID: c.ID, Label: c.Label, Value: value}
	case !hasNested && len(files) == 1:
		return children[0]
	default:
		return models.ContainerField{ID: c.ID, Label: c.Label, Children: children}
	}
}

func toFields(champs []wireChamp) []models.Field {
	fields := make([]models.Field, 0, len(champs))
	for _, c := range champs {
		fields = append(fields, c.toField())
	}
	return fields
}

func (d wireDossier) toModel() models.Dossier {
	dossier := models.Dossier{
		ID:          d.ID,
		Number:      d.Number,
		State:       d.State,
		Champs:      toFields(d.Champs),
		Annotations: toFields(d.Annotations),
	}
	if d.PDF != nil {
		dossier.SummaryURL = d.PDF.URL
	}
	return dossier
}
