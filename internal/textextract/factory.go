package textextract

import (
	"fmt"

	"regcheck/internal/config"
	"regcheck/internal/port"
)

// ProviderFactory creates an OCR TextExtractor from a provider config.
// maxPages caps how many pages of a scanned PDF are recognised.
type ProviderFactory func(cfg *config.OCRProviderConfig, maxPages int) (port.TextExtractor, error)

// registry of OCR provider factories, populated explicitly via RegisterProvider
// at startup.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers an OCR provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewExtractor creates an OCR TextExtractor from a provider config using the registered factory.
func NewExtractor(cfg *config.OCRProviderConfig, maxPages int) (port.TextExtractor, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown OCR provider: %s", cfg.Provider)
	}
	return factory(cfg, maxPages)
}

// NewOCRChain builds the configured OCR providers into a FallbackExtractor.
// A single configured provider is returned as is.
func NewOCRChain(cfg *config.ExtractionConfig) (port.TextExtractor, error) {
	var (
		extractors []port.TextExtractor
		names      []string
	)
	for _, pc := range []*config.OCRProviderConfig{cfg.PrimaryConfig(), cfg.SecondaryConfig()} {
		if pc == nil || pc.Provider == "" {
			continue
		}
		ex, err := NewExtractor(pc, cfg.PDFMaxPages)
		if err != nil {
			return nil, err
		}
		extractors = append(extractors, ex)
		names = append(names, pc.Provider)
	}

	switch len(extractors) {
	case 0:
		return nil, nil
	case 1:
		return extractors[0], nil
	default:
		return NewFallbackExtractor(extractors, names), nil
	}
}
