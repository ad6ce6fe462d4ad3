// Package bench runs the two benchmark phases: populating the index with
// generated documents and timing the competing query variants against it.
package bench

// Observer receives progress notifications from both phases. Calls happen
// on the benchmark goroutine between client calls.
type Observer interface {
	// IndexExists is called when the load phase is skipped.
	IndexExists(index string)
	// CreatingIndex is called before the index is created.
	CreatingIndex(index string)
	// AddingDocuments is called once before the first bulk request.
	AddingDocuments(total int)
	// BatchIndexed is called after each acknowledged bulk request.
	BatchIndexed(done, total int)
	// RefreshingIndex is called before the single refresh.
	RefreshingIndex(index string)
	// QueriesStarted is called before the first query round.
	QueriesStarted(iterations int)
	// IterationDone is called after every variant of round i (0-based) has run.
	IterationDone(i, iterations int)
	// QueriesFinished is called after the last round.
	QueriesFinished()
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) IndexExists(string) {}
func (NopObserver) CreatingIndex(string) {}
func (NopObserver) AddingDocuments(int) {}
func (NopObserver) BatchIndexed(int, int) {}
func (NopObserver) RefreshingIndex(string) {}
func (NopObserver) QueriesStarted(int) {}
func (NopObserver) IterationDone(int, int) {}
func (NopObserver) QueriesFinished() {}
