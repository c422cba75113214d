package validator

import (
	"sort"

	"regcheck/internal/domain"
	"regcheck/internal/validator/company"
)

// Registry maps document types to Extractor implementations.
type Registry struct {
	extractors map[domain.DocumentType]Extractor
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{extractors: make(map[domain.DocumentType]Extractor)}
}

// NewDefaultRegistry registers the VAT and registration certificate extractors.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewExtractor(domain.DocumentTypeVAT, company.ParseVatDocument))
	r.Register(NewExtractor(domain.DocumentTypeRegistration, company.ParseRegistrationDocument))
	return r
}

// Register adds an extractor to the registry, replacing any previous one for
// the same document type.
func (r *Registry) Register(e Extractor) {
	r.extractors[e.DocumentType()] = e
}

// Get returns the extractor for a document type, or nil if not found.
func (r *Registry) Get(docType domain.DocumentType) Extractor {
	return r.extractors[docType]
}

// Types returns the registered document types in sorted order.
func (r *Registry) Types() []domain.DocumentType {
	out := make([]domain.DocumentType, 0, len(r.extractors))
	for t := range r.extractors {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
