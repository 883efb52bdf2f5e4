package dsapi

const demarcheQuery = `
query getDemarche($demarcheNumber: Int!, $after: String) {
  demarche(number: $demarcheNumber) {
    id
    number
    title
    dossiers(after: $after) {
      pageInfo {
        hasNextPage
        endCursor
      }
      nodes {
        ...DossierFragment
      }
    }
  }
}

fragment DossierFragment on Dossier {
  id
  number
  archived
  state
  dateDerniereModification
  datePassageEnConstruction
  datePassageEnInstruction
  dateTraitement
  motivation
  pdf {
    url
  }
  groupeInstructeur {
    id
    number
    label
  }
  champs {
    ...ChampFragment
    ...RootChampFragment
  }
  annotations {
    ...ChampFragment
    ...RootChampFragment
  }
}

fragment RootChampFragment on Champ {
  ... on RepetitionChamp {
    champs {
      ...ChampFragment
    }
  }
}

fragment ChampFragment on Champ {
  id
  label
  stringValue
  ... on PieceJustificativeChamp {
    file {
      ...FileFragment
    }
  }
}

fragment FileFragment on File {
  filename
  contentType
  checksum
  byteSizeBigInt
  url
}
`

const summaryQuery = `
query getDemarcheSummary($demarcheNumber: Int!, $after: String) {
  demarche(number: $demarcheNumber) {
    id
    number
    title
    dossiers(after: $after) {
      pageInfo {
        hasNextPage
        endCursor
      }
      nodes {
        id
      }
    }
  }
}
`
