// Package namegen produces the synthetic "Last, First" documents used to
// populate and query the benchmark index.
//
// Output is fully determined by the corpus and the seed: two generators built
// from the same inputs yield identical name streams.
package namegen

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
)

// ErrInvalidCorpus is returned when either name list is empty.
var ErrInvalidCorpus = errors.New("invalid corpus: name lists must not be empty")

// Corpus holds the first and last names generators draw from. It is read-only
// once constructed and is shared by reference between phases.
type Corpus struct {
	firstNames []string
	lastNames  []string
}

// NewCorpus builds a corpus from two name lists. The slices are copied.
func NewCorpus(firstNames, lastNames []string) (*Corpus, error) {
	if len(firstNames) == 0 || len(lastNames) == 0 {
		return nil, ErrInvalidCorpus
	}
	return &Corpus{
		firstNames: append([]string(nil), firstNames...),
		lastNames:  append([]string(nil), lastNames...),
	}, nil
}

// ParseCorpus builds a corpus from two newline-delimited name lists.
func ParseCorpus(firstNames, lastNames []byte) (*Corpus, error) {
	return NewCorpus(SplitLines(firstNames), SplitLines(lastNames))
}

// SplitLines splits newline-delimited content into its non-blank lines.
// Carriage returns are trimmed so CRLF files behave like LF files.
func SplitLines(data []byte) []string {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// FirstNames returns the number of first names.
func (c *Corpus) FirstNames() int { return len(c.firstNames) }

// LastNames returns the number of last names.
func (c *Corpus) LastNames() int { return len(c.lastNames) }

// First returns the first name at i.
func (c *Corpus) First(i int) string { return c.firstNames[i] }

// Last returns the last name at i.
func (c *Corpus) Last(i int) string { return c.lastNames[i] }
