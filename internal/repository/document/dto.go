package document

import "github.com/askdocs-io/askdocs/internal/domain"

func documentToHash(doc domain.Document) map[string]string {
	return map[string]string{
		domain.FieldName:    doc.Name(),
		domain.FieldSource:  doc.Source(),
		domain.FieldText:    doc.Text(),
		domain.FieldOwnerID: doc.OwnerID(),
	}
}

func documentFromHash(id string, m map[string]string) domain.Document {
	return domain.ReconstructDocument(
		id,
		m[domain.FieldName],
		m[domain.FieldSource],
		m[domain.FieldText],
		m[domain.FieldOwnerID],
	)
}
