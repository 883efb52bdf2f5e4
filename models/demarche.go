package models

type Demarche struct {
	ID       string    `json:"id"`
	Number   int       `json:"number"`
	Title    string    `json:"title"`
	Dossiers []Dossier `json:"dossiers"`

	// Raw - ответ API в исходном виде, кладется в архив как есть.
	Raw []byte `json:"-"`
}

type Dossier struct {
	ID          string  `json:"id"`
	Number      int     `json:"number"`
	State       string  `json:"state"`
	SummaryURL  string  `json:"summary_url"`
	Champs      []Field `json:"-"`
	Annotations []Field `json:"-"`
}

type DemarcheSummary struct {
	Number       int    `json:"number"`
	Title        string `json:"title"`
	DossierCount int    `json:"dossier_count"`
}
