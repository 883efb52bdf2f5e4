package api

type errorResp struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

type checkResp struct {
	ID       int    `json:"id_ds"`
	Title    string `json:"titre"`
	Dossiers int    `json:"nb_dossier"`
}

type checkErrorResp struct {
	Message string `json:"reponse"`
}

type runStatusResp struct {
	ID             string   `json:"id"`
	DemarcheNumber int      `json:"demarche"`
	State          string   `json:"state"`
	Failure        string   `json:"failure,omitempty"`
	DownloadStatus string   `json:"download_status,omitempty"`
	Dossiers       int      `json:"dossiers"`
	Files          []string `json:"files"`
	Errors         []string `json:"errors"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}
