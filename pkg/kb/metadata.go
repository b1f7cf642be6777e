package kb

// SourceMetadata is the canonical passage metadata shape handed to the
// orchestrator and serialized into chat responses.
type SourceMetadata struct {
	Source           string   `json:"source"`
	KBURL            string   `json:"kb_url"`
	KBNumber         string   `json:"kb_number"`
	KBCategory       string   `json:"kb_category"`
	ShortDescription string   `json:"short_description"`
	Project          string   `json:"project"`
	IngestionDate    string   `json:"ingestion_date"`
	Score            *float64 `json:"score"`
}

// RetrievedPassage is one ranked knowledge-base hit.
type RetrievedPassage struct {
	Content  string
	Metadata SourceMetadata
}

// MapMetadata folds raw retrieval metadata into the canonical shape.
// Ingestion writes the interesting fields under a nested
// "source_metadata" map; older documents carry them at the top level.
// Preference order per field: nested value, top-level value, default.
func MapMetadata(raw map[string]any, score *float64) SourceMetadata {
	nested, _ := raw["source_metadata"].(map[string]any)

	pick := func(key, fallback string) string {
		if v, ok := nested[key].(string); ok && v != "" {
			return v
		}
		if v, ok := raw[key].(string); ok && v != "" {
			return v
		}
		return fallback
	}

	return SourceMetadata{
		Source:           pick("source", "unknown"),
		KBURL:            pick("kb_url", "#"),
		KBNumber:         pick("kb_number", "N/A"),
		KBCategory:       pick("kb_category", ""),
		ShortDescription: pick("short_description", ""),
		Project:          pick("project", ""),
		IngestionDate:    pick("ingestion_date", ""),
		Score:            score,
	}
}
