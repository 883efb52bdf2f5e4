package models

// Field - узел дерева champs. Реализации: ScalarField, AttachmentField, ContainerField.
type Field interface {
	FieldLabel() string
	// AppendFiles добавляет в dst все вложения поддерева и возвращает dst.
	AppendFiles(dst []File) []File
	isField()
}

type File struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Checksum    string `json:"checksum"`
	ByteSize    int64  `json:"byte_size"`
	URL         string `json:"url"`
}

type ScalarField struct {
	ID    string
	Label string
	Value string
}

type AttachmentField struct {
	ID    string
	Label string
	File  File
}

type ContainerField struct {
	ID       string
	Label    string
	Children []Field
}

var (
	_ Field = ScalarField{}
	_ Field = AttachmentField{}
	_ Field = ContainerField{}
)

func (f ScalarField) FieldLabel() string           { return f.Label }
func (f ScalarField) AppendFiles(dst []File) []File { return dst }
func (ScalarField) isField()                        {}

func (f AttachmentField) FieldLabel() string { return f.Label }
func (f AttachmentField) AppendFiles(dst []File) []File {
	return append(dst, f.File)
}
func (AttachmentField) isField() {}

func (f ContainerField) FieldLabel() string { return f.Label }
func (f ContainerField) AppendFiles(dst []File) []File {
	for _, child := range f.Children {
		dst = child.AppendFiles(dst)
	}
	return dst
}
func (ContainerField) isField() {}
