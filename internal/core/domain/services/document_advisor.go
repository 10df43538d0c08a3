package services

import (
	"slices"
	"strings"
)

const defaultDocumentsKey = "DEFAULT"

// StateDocumentAdvisor lists the paperwork needed on a route. Every route needs
// the default documents, and each end adds what its state requires. The state
// is the text after the last comma of an address.
type StateDocumentAdvisor struct {
	byState map[string][]string
}

func NewStateDocumentAdvisor() StateDocumentAdvisor {
	return StateDocumentAdvisor{byState: map[string][]string{
		defaultDocumentsKey: {"e-Way Bill", "PUC"},
		"DELHI":             {"Permit"},
		"UTTAR PRADESH":     {"Form 38/39"},
	}}
}

// RequiredDocuments returns the sorted, de-duplicated document list.
func (a StateDocumentAdvisor) RequiredDocuments(origin, destination string) []string {
	docs := slices.Clone(a.byState[defaultDocumentsKey])
	docs = append(docs, a.byState[stateKey(origin)]...)
	docs = append(docs, a.byState[stateKey(destination)]...)

	slices.Sort(docs)
	return slices.Compact(docs)
}

func stateKey(address string) string {
	if i := strings.LastIndex(address, ","); i >= 0 {
		address = address[i+1:]
	}
	return strings.ToUpper(strings.TrimSpace(address))
}
