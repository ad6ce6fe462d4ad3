package namegen

// DefaultBatchSize is the number of documents per bulk request.
const DefaultBatchSize = 1000

// Document is a single indexed record.
type Document struct {
	Name string `json:"Name"`
}

// Batch is an ordered group of documents sent in one bulk request.
type Batch []Document

// ProduceBatch pulls size names from gen and wraps each in a Document.
// A non-positive size falls back to DefaultBatchSize.
func ProduceBatch(gen *Generator, size int) Batch {
	if size <= 0 {
		size = DefaultBatchSize
	}
	batch := make(Batch, size)
	for i := range batch {
		batch[i] = Document{Name: gen.Next()}
	}
	return batch
}
